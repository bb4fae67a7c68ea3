// Package report は変換結果のレポート生成機能を提供します
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"VCardConvert/internal/domain/model"
)

const (
	OutputFilePrefix = "vcardconvert_"
	OutputFileSuffix = ".txt"
	TimestampLayout  = "20060102_150405"
)

// Generator はレポート生成機能を提供します
type Generator struct {
	now func() time.Time
}

// NewGenerator は新しい Generator インスタンスを作成します
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// CreateOutputFile は出力ファイルを作成します
func (g *Generator) CreateOutputFile(outputDir string) (*os.File, string, error) {
	timestamp := g.now().Format(TimestampLayout)
	outputPath := filepath.Join(outputDir, fmt.Sprintf("%s%s%s", OutputFilePrefix, timestamp, OutputFileSuffix))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("出力ファイルの作成に失敗しました: %w", err)
	}

	return outputFile, outputPath, nil
}

// WriteSummary は実行全体の集計を出力します
func (g *Generator) WriteSummary(writer io.Writer, r *model.RunReport) {
	fmt.Fprintln(writer, "===== 変換結果 =====")
	fmt.Fprintf(writer, "対象フォルダ: %s\n", r.Dir)
	if r.DryRun {
		fmt.Fprintln(writer, "モード: dry-run（ファイルは変更されていません）")
	}

	var before, after uint64
	for _, res := range r.Results {
		before += uint64(res.BytesBefore)
		after += uint64(res.BytesAfter)
	}

	fmt.Fprintf(writer, "処理ファイル数: %d\n", r.Processed())
	fmt.Fprintf(writer, "変更ファイル数: %d\n", r.ChangedCount())
	fmt.Fprintf(writer, "失敗ファイル数: %d\n", r.FailedCount())
	fmt.Fprintf(writer, "置換箇所: %d\n", r.TotalReplacements())
	fmt.Fprintf(writer, "代替文字: %d\n", r.TotalSubstitutions())
	fmt.Fprintf(writer, "サイズ: %s -> %s\n", humanize.Bytes(before), humanize.Bytes(after))
	fmt.Fprintf(writer, "所要時間: %s\n", r.Duration().Round(time.Millisecond))
	if r.Aborted {
		fmt.Fprintln(writer, "[中断] 全てのファイルは処理されていません")
	}
}

// WriteFileResults はファイルごとの結果を1行ずつ出力します
func (g *Generator) WriteFileResults(writer io.Writer, r *model.RunReport) {
	fmt.Fprintln(writer, "\n===== ファイル別結果 =====")

	for _, res := range r.Results {
		switch {
		case res.Failed():
			fmt.Fprintf(writer, "[FAIL] %s: %v\n", res.Entry.Name, res.Err)
			continue
		case res.Written:
			fmt.Fprintf(writer, "[OK]   %s: 置換 %d", res.Entry.Name, res.Replacements)
		case res.Changed():
			fmt.Fprintf(writer, "[DRY]  %s: 置換 %d", res.Entry.Name, res.Replacements)
		default:
			fmt.Fprintf(writer, "[SKIP] %s: 変更なし\n", res.Entry.Name)
			continue
		}

		if res.Substitutions > 0 {
			fmt.Fprintf(writer, ", 代替文字 %d %q", res.Substitutions, string(res.SubstitutedRunes))
		}
		fmt.Fprintln(writer)
	}
}
