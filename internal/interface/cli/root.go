// Package cli はコマンドラインインターフェースを提供します
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"VCardConvert/internal/config"
	"VCardConvert/internal/domain/model"
	"VCardConvert/internal/gui"
	"VCardConvert/internal/infrastructure/codec"
	"VCardConvert/internal/infrastructure/filesystem"
	"VCardConvert/internal/infrastructure/logging"
	"VCardConvert/internal/interface/ui"
	"VCardConvert/internal/usecase/convert"
	"VCardConvert/internal/usecase/report"
)

const pickerTitle = "変換する連絡先フォルダを選択"

// PickerFactory は設定されたダイアログ種別に対応する DirectoryPicker を返します
type PickerFactory func(kind string, validator filesystem.DirectoryValidator) ui.DirectoryPicker

// DefaultPickerFactory は native なら sqweek/dialog、fyne なら Fyne のダイアログを返します
func DefaultPickerFactory(kind string, validator filesystem.DirectoryValidator) ui.DirectoryPicker {
	if kind == config.PickFyne {
		return gui.NewDirectorySelector(validator)
	}
	return ui.NewDirectorySelector(validator)
}

// Execute はコマンドを実行し、終了コードを返します
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(stdout, stderr, DefaultPickerFactory)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "エラー: %v\n", err)

	var exitErr *ExitStatusError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	default:
		return ExitError
	}
}

// NewRootCmd はルートコマンドを作成します
func NewRootCmd(stdout, stderr io.Writer, pickers PickerFactory) *cobra.Command {
	var configFile string
	v := config.New()

	cmd := &cobra.Command{
		Use:   "vcardconvert [directory]",
		Short: "vCard (.vcf) の VERSION を書き換え、Windows-1252 のまま保存します",
		Long: `Outlook からエクスポートした Windows-1252 の vCard ファイルを読み込み、
VERSION:4.0 を VERSION:3.0 に置き換えて同じ文字コードで上書き保存します。`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if len(args) == 1 {
				v.Set(config.KeyDir, args[0])
			}

			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, stdout, stderr, pickers)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "設定ファイル (yaml/toml/json)")
	f.String(config.KeyFrom, convert.DefaultFrom, "置換対象のマーカー")
	f.String(config.KeyTo, convert.DefaultTo, "置換後の文字列")
	f.String(config.KeyPattern, filesystem.DefaultPattern, "対象ファイル名のパターン (例: *.vcf)")
	f.String(config.KeyWriteMode, string(filesystem.WriteModeAtomic), "書き込み方法: atomic | truncate")
	f.Bool(config.KeyContinueOnError, true, "ファイル単位のエラーを記録して処理を続行する")
	f.Bool(config.KeyDryRun, false, "ファイルを書き換えずに結果だけを表示する")
	f.String(config.KeyReportDir, "", "レポートファイルの出力先ディレクトリ")
	f.String(config.KeyPick, "", "ダイアログで対象フォルダを選択する: native | fyne")
	f.String(config.KeyLogLevel, "info", "ログレベル: debug | info | warn | error")
	f.String(config.KeyLogFile, "", "JSONログの出力先ファイル (省略時は標準エラー出力)")

	return cmd
}

func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer, pickers PickerFactory) error {
	logger, cleanup, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	scanner := filesystem.NewScanner(logger, cfg.Pattern)

	dir := cfg.Dir
	if cfg.Pick != "" {
		dir, err = pickers(cfg.Pick, scanner).SelectDirectory(pickerTitle)
		if err != nil {
			logger.Log(logging.LevelError, "フォルダ選択に失敗", err)
			return err
		}
		logger.Log(logging.LevelInfo, fmt.Sprintf("選択されたフォルダ: %s", dir), nil)
	}

	mode, err := filesystem.ParseWriteMode(cfg.WriteMode)
	if err != nil {
		return err
	}

	converter := convert.NewConverter(scanner, filesystem.NewStore(mode), codec.NewWindows1252(), logger, cfg.ConvertOptions())

	result, runErr := converter.Run(ctx, dir)
	if runErr != nil && result.Processed() == 0 {
		return runErr
	}

	generator := report.NewGenerator()
	generator.WriteSummary(stdout, result)

	if cfg.ReportDir != "" {
		if err := writeReportFile(generator, cfg.ReportDir, result, logger); err != nil {
			return err
		}
	}

	switch {
	case errors.Is(runErr, context.Canceled):
		return runErr
	case runErr != nil:
		return &ExitStatusError{Code: ExitPartial, Err: fmt.Errorf("最初のエラーで処理を中止しました: %w", runErr)}
	case result.FailedCount() > 0:
		return &ExitStatusError{Code: ExitPartial, Err: fmt.Errorf("%d 件のファイルの変換に失敗しました", result.FailedCount())}
	}

	logger.Log(logging.LevelInfo, "処理が完了しました", nil)
	return nil
}

func writeReportFile(generator *report.Generator, dir string, result *model.RunReport, logger logging.Logger) error {
	outputFile, outputPath, err := generator.CreateOutputFile(dir)
	if err != nil {
		logger.Log(logging.LevelError, "レポートファイルの作成に失敗", err)
		return err
	}
	defer outputFile.Close()

	generator.WriteSummary(outputFile, result)
	generator.WriteFileResults(outputFile, result)
	logger.Log(logging.LevelInfo, fmt.Sprintf("レポートを生成しました: %s", outputPath), nil)
	return nil
}

func newLogger(cfg config.Config, stderr io.Writer) (logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogFile == "" {
		return logging.NewJSONLogger(stderr).WithMinLevel(level), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("ログファイル '%s' を開けません: %w", cfg.LogFile, err)
	}
	return logging.NewJSONLogger(f).WithMinLevel(level), func() { _ = f.Close() }, nil
}
