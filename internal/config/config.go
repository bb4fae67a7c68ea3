// Package config は設定の読み込みと検証を提供します
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"VCardConvert/internal/domain/model"
	"VCardConvert/internal/infrastructure/filesystem"
	"VCardConvert/internal/infrastructure/logging"
	"VCardConvert/internal/usecase/convert"
)

// EnvPrefix は環境変数のプレフィックスです（例: VCARDCONVERT_DIR）
const EnvPrefix = "VCARDCONVERT"

// DefaultDir は変換対象ディレクトリの既定値です
const DefaultDir = "./Kontakte/"

// 設定キー
const (
	KeyDir             = "dir"
	KeyFrom            = "from"
	KeyTo              = "to"
	KeyPattern         = "pattern"
	KeyWriteMode       = "write-mode"
	KeyContinueOnError = "continue-on-error"
	KeyDryRun          = "dry-run"
	KeyReportDir       = "report-dir"
	KeyPick            = "pick"
	KeyLogLevel        = "log-level"
	KeyLogFile         = "log-file"
)

// ディレクトリ選択ダイアログの種類
const (
	PickNative = "native"
	PickFyne   = "fyne"
)

// Config はアプリケーション設定を表します
type Config struct {
	Dir             string `mapstructure:"dir"`
	From            string `mapstructure:"from"`
	To              string `mapstructure:"to"`
	Pattern         string `mapstructure:"pattern"`
	WriteMode       string `mapstructure:"write-mode"`
	ContinueOnError bool   `mapstructure:"continue-on-error"`
	DryRun          bool   `mapstructure:"dry-run"`
	ReportDir       string `mapstructure:"report-dir"`
	Pick            string `mapstructure:"pick"`
	LogLevel        string `mapstructure:"log-level"`
	LogFile         string `mapstructure:"log-file"`
}

// New は既定値と環境変数の設定を済ませた viper インスタンスを返します
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyDir, DefaultDir)
	v.SetDefault(KeyFrom, convert.DefaultFrom)
	v.SetDefault(KeyTo, convert.DefaultTo)
	v.SetDefault(KeyPattern, filesystem.DefaultPattern)
	v.SetDefault(KeyWriteMode, string(filesystem.WriteModeAtomic))
	v.SetDefault(KeyContinueOnError, true)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyReportDir, "")
	v.SetDefault(KeyPick, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load は configFile（空の場合は読み込まない）を反映した設定を返します
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: 設定ファイル '%s' の読み込みに失敗しました: %v", model.ErrConfig, configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", model.ErrConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値を検証します
func (c Config) Validate() error {
	var errs []error

	if c.Dir == "" && c.Pick == "" {
		errs = append(errs, errors.New("対象ディレクトリが指定されていません"))
	}
	if c.From == "" {
		errs = append(errs, errors.New("置換対象のマーカーが空です"))
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		errs = append(errs, fmt.Errorf("ファイルパターン '%s' が不正です: %v", c.Pattern, err))
	}
	if _, err := filesystem.ParseWriteMode(c.WriteMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Pick {
	case "", PickNative, PickFyne:
	default:
		errs = append(errs, fmt.Errorf("不明なダイアログ種別です: %q (native または fyne)", c.Pick))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrConfig, errors.Join(errs...))
	}
	return nil
}

// ConvertOptions は変換処理用のオプションを返します
func (c Config) ConvertOptions() convert.Options {
	return convert.Options{
		From:            c.From,
		To:              c.To,
		ContinueOnError: c.ContinueOnError,
		DryRun:          c.DryRun,
	}
}
