// Package convert は連絡先カードファイルの一括変換を提供します
package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"VCardConvert/internal/domain/model"
	"VCardConvert/internal/infrastructure/codec"
	"VCardConvert/internal/infrastructure/filesystem"
	"VCardConvert/internal/infrastructure/logging"
)

// 既定の置換マーカー
const (
	DefaultFrom = "VERSION:4.0"
	DefaultTo   = "VERSION:3.0"
)

// Codec はファイルのバイト列とテキストを相互変換するインターフェースです
type Codec interface {
	Decode(raw []byte) (string, error)
	Encode(text string) codec.EncodeResult
}

// Options は変換処理の動作を指定します
type Options struct {
	// From は置換対象のマーカーです
	From string
	// To は置換後の文字列です
	To string
	// ContinueOnError が true の場合、ファイル単位のエラーを記録して次のファイルに進みます
	ContinueOnError bool
	// DryRun が true の場合、ファイルを書き換えません
	DryRun bool
}

// DefaultOptions は既定の Options を返します
func DefaultOptions() Options {
	return Options{
		From:            DefaultFrom,
		To:              DefaultTo,
		ContinueOnError: true,
	}
}

// Converter はディレクトリ内のファイルを順番に変換します
type Converter struct {
	lister filesystem.FileLister
	store  filesystem.FileStore
	codec  Codec
	logger logging.Logger
	opts   Options
	now    func() time.Time
}

// NewConverter は新しい Converter インスタンスを作成します
func NewConverter(lister filesystem.FileLister, store filesystem.FileStore, c Codec, logger logging.Logger, opts Options) *Converter {
	if opts.From == "" {
		opts.From = DefaultFrom
	}
	return &Converter{
		lister: lister,
		store:  store,
		codec:  c,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// ReplaceMarker は text 中の from を全て to に置き換え、置換した数を返します
func ReplaceMarker(text, from, to string) (string, int) {
	if from == "" {
		return text, 0
	}
	n := strings.Count(text, from)
	if n == 0 {
		return text, 0
	}
	return strings.ReplaceAll(text, from, to), n
}

// Run は dir 直下のファイルを列挙し、1ファイルずつ変換します。
// 列挙に失敗した場合はファイルに一切触れずに DirectoryAccessError を返します。
func (c *Converter) Run(ctx context.Context, dir string) (*model.RunReport, error) {
	report := &model.RunReport{
		Dir:       dir,
		DryRun:    c.opts.DryRun,
		StartedAt: c.now(),
	}
	defer func() { report.FinishedAt = c.now() }()

	entries, err := c.lister.ListFiles(ctx, dir)
	if err != nil {
		c.logger.Log(logging.LevelError, fmt.Sprintf("ディレクトリ '%s' の一覧取得に失敗", dir), err)
		return report, err
	}
	c.logger.Log(logging.LevelInfo, fmt.Sprintf("%d 件のファイルを処理します: %s", len(entries), dir), nil)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			c.logger.Log(logging.LevelWarn, "処理が中断されました", err)
			report.Aborted = true
			return report, err
		}

		result, err := c.ProcessFile(ctx, entry)
		report.Results = append(report.Results, result)
		if err == nil {
			continue
		}

		c.logger.Log(logging.LevelError, fmt.Sprintf("ファイル '%s' の変換に失敗", entry.Path), err)
		if !c.opts.ContinueOnError {
			report.Aborted = true
			return report, err
		}
	}

	return report, nil
}

// ProcessFile は1ファイルを読み込み、マーカーを置換して書き戻します。
// 内容が変わらない場合は書き込みを行いません。
func (c *Converter) ProcessFile(ctx context.Context, entry model.FileEntry) (model.FileResult, error) {
	result := model.FileResult{Entry: entry}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result, err
	}

	raw, err := c.store.ReadFile(entry.Path)
	if err != nil {
		result.Err = err
		return result, err
	}
	result.BytesBefore = len(raw)

	text, err := c.codec.Decode(raw)
	if err != nil {
		result.Err = &model.FileIOError{Op: model.OpRead, Path: entry.Path, Err: err}
		return result, result.Err
	}

	text, result.Replacements = ReplaceMarker(text, c.opts.From, c.opts.To)

	encoded := c.codec.Encode(text)
	result.Substitutions = encoded.Substitutions
	result.SubstitutedRunes = encoded.Runes
	result.BytesAfter = len(encoded.Bytes)

	if encoded.Substitutions > 0 {
		c.logger.Log(logging.LevelWarn, fmt.Sprintf("ファイル '%s' の %d 文字をWindows-1252で表現できないため置き換えました: %q",
			entry.Path, encoded.Substitutions, string(encoded.Runes)), nil)
	}

	if bytes.Equal(encoded.Bytes, raw) {
		c.logger.Log(logging.LevelDebug, fmt.Sprintf("変更なし: %s", entry.Path), nil)
		return result, nil
	}

	if c.opts.DryRun {
		c.logger.Log(logging.LevelInfo, fmt.Sprintf("[dry-run] %d 箇所を置換予定: %s", result.Replacements, entry.Path), nil)
		return result, nil
	}

	if err := c.store.WriteFile(entry.Path, encoded.Bytes, entry.Mode); err != nil {
		result.Err = err
		return result, err
	}
	result.Written = true
	c.logger.Log(logging.LevelInfo, fmt.Sprintf("%d 箇所を置換しました: %s", result.Replacements, entry.Path), nil)

	return result, nil
}
