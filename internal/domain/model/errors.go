package model

import (
	"errors"
	"fmt"
)

// ErrConfig は設定値が不正な場合のエラーです
var ErrConfig = errors.New("invalid config")

// DirectoryAccessError は対象ディレクトリを開けない、または列挙できない場合のエラーです
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("ディレクトリ '%s' を読み込めません: %v", e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error {
	return e.Err
}

// FileOp はファイル入出力の種類を表します
type FileOp string

const (
	OpOpen  FileOp = "open"
	OpRead  FileOp = "read"
	OpWrite FileOp = "write"
)

// FileIOError は個々のファイルの読み書きに失敗した場合のエラーです
type FileIOError struct {
	Op   FileOp
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("ファイル '%s' の%sに失敗しました: %v", e.Path, e.Op.label(), e.Err)
}

func (e *FileIOError) Unwrap() error {
	return e.Err
}

func (op FileOp) label() string {
	switch op {
	case OpOpen:
		return "オープン"
	case OpRead:
		return "読み込み"
	case OpWrite:
		return "書き込み"
	default:
		return string(op)
	}
}

// IsDirectoryAccess は err が DirectoryAccessError を含むかどうかを返します
func IsDirectoryAccess(err error) bool {
	var de *DirectoryAccessError
	return errors.As(err, &de)
}

// IsFileIO は err が FileIOError を含むかどうかを返します
func IsFileIO(err error) bool {
	var fe *FileIOError
	return errors.As(err, &fe)
}
