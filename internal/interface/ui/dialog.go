// Package ui はユーザーインターフェース機能を提供します
package ui

import (
	"errors"
	"fmt"

	"github.com/sqweek/dialog"

	"VCardConvert/internal/infrastructure/filesystem"
)

// ErrCancelled はユーザーがディレクトリ選択をキャンセルした場合のエラーです
var ErrCancelled = errors.New("ディレクトリの選択がキャンセルされました")

// DirectoryPicker はディレクトリを対話的に選択するインターフェースです
type DirectoryPicker interface {
	SelectDirectory(title string) (string, error)
}

// DirectorySelector はOSネイティブのダイアログでディレクトリ選択機能を提供します
type DirectorySelector struct {
	// validator はディレクトリパスの検証を行うインターフェースです
	validator filesystem.DirectoryValidator
	browse    func(title string) (string, error)
}

// NewDirectorySelector は新しい DirectorySelector インスタンスを作成します
func NewDirectorySelector(validator filesystem.DirectoryValidator) *DirectorySelector {
	return &DirectorySelector{
		validator: validator,
		browse: func(title string) (string, error) {
			return dialog.Directory().Title(title).Browse()
		},
	}
}

// SelectDirectory はダイアログを表示してディレクトリを選択します
func (d *DirectorySelector) SelectDirectory(title string) (string, error) {
	selectedDir, err := d.browse(title)
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", fmt.Errorf("ディレクトリの選択でエラーが発生しました: %w", err)
	}

	if err := d.validator.ValidateDirectoryPath(selectedDir); err != nil {
		return "", fmt.Errorf("無効なディレクトリが選択されました: %w", err)
	}

	return selectedDir, nil
}
