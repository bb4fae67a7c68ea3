// package model はドメインモデルを定義します
package model

import (
	"io/fs"
	"time"
)

// FileEntry は変換対象ディレクトリ内の通常ファイルを表します
type FileEntry struct {
	// Name はファイル名を表します
	Name string
	// Path はディレクトリパスとファイル名を結合したパスを表します
	Path string
	// Size は列挙時点のファイルサイズ（バイト）を表します
	Size int64
	// Mode は列挙時点のパーミッションを表します
	Mode fs.FileMode
}

// FileResult は1ファイル分の変換結果を表します
type FileResult struct {
	Entry FileEntry
	// Replacements は置換したマーカーの数を表します
	Replacements int
	// Substitutions はWindows-1252で表現できず代替バイトに置き換えた文字数を表します
	Substitutions int
	// SubstitutedRunes は代替バイトに置き換えた文字（重複なし、出現順）を表します
	SubstitutedRunes []rune
	BytesBefore      int
	BytesAfter       int
	// Written はファイルを書き換えたかどうかを示します
	Written bool
	// Err は処理に失敗した場合のエラーを保持します
	Err error
}

// Changed は変換によって内容が変わったかどうかを返します
func (r FileResult) Changed() bool {
	return r.Replacements > 0 || r.Substitutions > 0
}

// Failed は処理に失敗したかどうかを返します
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// RunReport は1回の実行全体の結果を表します
type RunReport struct {
	Dir        string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []FileResult
	// Aborted は最初のエラーで停止した、またはキャンセルされた場合に true になります
	Aborted bool
}

// Processed は試行したファイル数を返します
func (r *RunReport) Processed() int {
	return len(r.Results)
}

// ChangedCount は内容が変わったファイル数を返します
func (r *RunReport) ChangedCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.Failed() && res.Changed() {
			n++
		}
	}
	return n
}

// FailedCount は失敗したファイル数を返します
func (r *RunReport) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// TotalReplacements は全ファイルの置換数の合計を返します
func (r *RunReport) TotalReplacements() int {
	n := 0
	for _, res := range r.Results {
		n += res.Replacements
	}
	return n
}

// TotalSubstitutions は全ファイルの代替文字数の合計を返します
func (r *RunReport) TotalSubstitutions() int {
	n := 0
	for _, res := range r.Results {
		n += res.Substitutions
	}
	return n
}

// Duration は実行時間を返します
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
