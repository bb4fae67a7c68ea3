package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/facebookgo/atomicfile"

	"VCardConvert/internal/domain/model"
)

// WriteMode はファイルの上書き方法を表します
type WriteMode string

const (
	// WriteModeAtomic は同じディレクトリの一時ファイルに書き込んでからリネームします
	WriteModeAtomic WriteMode = "atomic"
	// WriteModeTruncate は既存ファイルを切り詰めて直接書き込みます
	WriteModeTruncate WriteMode = "truncate"
)

// ParseWriteMode は文字列を WriteMode に変換します
func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(s) {
	case WriteModeAtomic, WriteModeTruncate:
		return WriteMode(s), nil
	default:
		return "", fmt.Errorf("不明な書き込みモードです: %q (atomic または truncate)", s)
	}
}

// FileStore は変換対象ファイルの読み書きを行うインターフェースです
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// Store は WriteMode に従ってファイルを読み書きします
type Store struct {
	mode WriteMode
}

// NewStore は新しい Store インスタンスを作成します
func NewStore(mode WriteMode) *Store {
	if mode == "" {
		mode = WriteModeAtomic
	}
	return &Store{mode: mode}
}

// Mode は書き込みモードを返します
func (s *Store) Mode() WriteMode {
	return s.mode
}

// ReadFile はファイルの内容を全て読み込みます
func (s *Store) ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.FileIOError{Op: model.OpOpen, Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &model.FileIOError{Op: model.OpRead, Path: path, Err: err}
	}
	return data, nil
}

// WriteFile はファイルの内容を data で置き換えます
func (s *Store) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if s.mode == WriteModeTruncate {
		return writeTruncate(path, data)
	}
	return writeAtomic(path, data, perm)
}

func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}

	f, err := atomicfile.New(path, perm)
	if err != nil {
		return &model.FileIOError{Op: model.OpOpen, Path: path, Err: err}
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Abort()
		return &model.FileIOError{Op: model.OpWrite, Path: path, Err: err}
	}

	// Close で一時ファイルを元のパスにリネームする
	if err := f.Close(); err != nil {
		_ = f.Abort()
		return &model.FileIOError{Op: model.OpWrite, Path: path, Err: err}
	}
	return nil
}

func writeTruncate(path string, data []byte) error {
	// 元のファイルが存在しない場合は作成しない
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return &model.FileIOError{Op: model.OpOpen, Path: path, Err: err}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return &model.FileIOError{Op: model.OpWrite, Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &model.FileIOError{Op: model.OpWrite, Path: path, Err: err}
	}
	return nil
}
