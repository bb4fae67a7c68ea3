// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"VCardConvert/internal/domain/model"
	"VCardConvert/internal/infrastructure/logging"
)

// DefaultPattern は全てのファイルに一致するパターンです
const DefaultPattern = "*"

// DirectoryValidator はディレクトリの検証機能を提供するインターフェースです
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// FileLister は変換対象ファイルを列挙するインターフェースです
type FileLister interface {
	ListFiles(ctx context.Context, dir string) ([]model.FileEntry, error)
}

// Scanner はディレクトリ直下の通常ファイルを列挙するための構造体です
type Scanner struct {
	logger  logging.Logger
	pattern string
}

// NewScanner は新しい Scanner インスタンスを作成します。
// pattern が空の場合は全てのファイルを対象にします。
func NewScanner(logger logging.Logger, pattern string) *Scanner {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Scanner{
		logger:  logger,
		pattern: pattern,
	}
}

// ValidateDirectoryPath はパスが安全で有効なディレクトリであることを確認します
func (s *Scanner) ValidateDirectoryPath(path string) error {
	if path == "" {
		return fmt.Errorf("ディレクトリパスが指定されていません")
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ディレクトリが存在しません: %w", err)
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("指定されたパスはディレクトリではありません")
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("絶対パスで指定してください")
	}

	if strings.ContainsAny(path, "<>|?*") {
		return fmt.Errorf("パスに不正な文字が含まれています")
	}

	return nil
}

// ListFiles はディレクトリ直下の通常ファイルを列挙します。
// サブディレクトリとシンボリックリンクは対象外です。
// ディレクトリを読み込めない場合は一部の結果も返さず DirectoryAccessError を返します。
func (s *Scanner) ListFiles(ctx context.Context, dir string) ([]model.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &model.DirectoryAccessError{Path: dir, Err: err}
	}

	var entries []model.FileEntry
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			s.logger.Log(logging.LevelDebug, fmt.Sprintf("通常ファイルではないためスキップ: %s", de.Name()), nil)
			continue
		}

		matched, err := filepath.Match(s.pattern, de.Name())
		if err != nil {
			return nil, fmt.Errorf("ファイルパターン '%s' が不正です: %w", s.pattern, err)
		}
		if !matched {
			s.logger.Log(logging.LevelDebug, fmt.Sprintf("パターンに一致しないためスキップ: %s", de.Name()), nil)
			continue
		}

		entry := model.FileEntry{
			Name: de.Name(),
			Path: filepath.Join(dir, de.Name()),
		}

		// 列挙後に削除されたファイルも対象に含め、読み込み時の FileIOError として報告する
		if info, err := de.Info(); err != nil {
			s.logger.Log(logging.LevelWarn, fmt.Sprintf("ファイル情報の取得に失敗: %s", de.Name()), err)
		} else {
			entry.Size = info.Size()
			entry.Mode = info.Mode().Perm()
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
