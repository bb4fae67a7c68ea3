// Package gui はFyneを使ったGUIを提供します
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

// Default window size constants
const (
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
)

// DirectoryValidator は、ディレクトリパスの検証を行うインターフェース
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// DirectorySelector は、Fyneを使用してディレクトリ選択を行う構造体
type DirectorySelector struct {
	validator DirectoryValidator
}

// NewDirectorySelector は、DirectorySelectorの新しいインスタンスを作成します
func NewDirectorySelector(validator DirectoryValidator) *DirectorySelector {
	return &DirectorySelector{
		validator: validator,
	}
}

// SelectDirectory は、Fyneダイアログを使用してディレクトリを選択し、
// 選択されたパスまたはエラーを返します。
// 変換処理はダイアログのイベントループが終了してから開始します。
func (s *DirectorySelector) SelectDirectory(title string) (string, error) {
	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight))

	var path string
	var resultErr error

	d := dialog.NewFolderOpen(func(selectedURI fyne.ListableURI, err error) {
		defer a.Quit()

		path, resultErr = s.handleSelection(selectedURI, err)
	}, w)
	// ウィンドウを閉じた場合もキャンセル扱い
	w.SetOnClosed(func() {
		if path == "" && resultErr == nil {
			resultErr = fmt.Errorf("ディレクトリの選択がキャンセルされました")
		}
	})
	d.Show()
	w.Show()

	a.Run()
	return path, resultErr
}

func (s *DirectorySelector) handleSelection(selectedURI fyne.ListableURI, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("フォルダ選択エラー: %w", err)
	}
	if selectedURI == nil {
		return "", fmt.Errorf("ディレクトリの選択がキャンセルされました")
	}

	path := selectedURI.Path()
	if err := s.validator.ValidateDirectoryPath(path); err != nil {
		return "", fmt.Errorf("パス検証エラー: %w", err)
	}
	return path, nil
}
