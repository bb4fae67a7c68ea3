package logging

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJSONLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		message string
		err     error
	}{
		{
			name:    "エラーなしのログ",
			level:   LevelInfo,
			message: "変換が完了しました",
			err:     nil,
		},
		{
			name:    "エラーありのログ",
			level:   LevelError,
			message: "ファイルの書き込みに失敗",
			err:     errors.New("テストエラー"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			logger := NewJSONLogger(&buf)

			logger.Log(tt.level, tt.message, tt.err)

			output := buf.String()
			var logEntry LogEntry
			if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &logEntry); err != nil {
				t.Errorf("JSONの解析に失敗: %v", err)
			}

			if logEntry.Message != tt.message {
				t.Errorf("メッセージが不正: got %v, want %v", logEntry.Message, tt.message)
			}
			if logEntry.Level != tt.level {
				t.Errorf("ログレベルが不正: got %v, want %v", logEntry.Level, tt.level)
			}
			if tt.err != nil {
				if logEntry.Error != tt.err.Error() {
					t.Errorf("エラーメッセージが不正: got %v, want %v", logEntry.Error, tt.err.Error())
				}
			} else if logEntry.Error != "" {
				t.Errorf("エラーメッセージが不正: got %v, want empty", logEntry.Error)
			}

			logTime, err := time.Parse(time.RFC3339, logEntry.Timestamp)
			if err != nil {
				t.Errorf("タイムスタンプの解析に失敗: %v", err)
			}
			if time.Since(logTime) > time.Minute {
				t.Errorf("タイムスタンプが不正: got %v, 現在との差が1分以上", logEntry.Timestamp)
			}
		})
	}
}

func TestJSONLogger_WithMinLevel(t *testing.T) {
	var buf strings.Builder
	logger := NewJSONLogger(&buf).WithMinLevel(LevelWarn)

	logger.Log(LevelDebug, "debug", nil)
	logger.Log(LevelInfo, "info", nil)
	logger.Log(LevelWarn, "warn", nil)
	logger.Log(LevelError, "error", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("出力行数が不正: got %d, want 2\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"WARN"`) {
		t.Errorf("1行目が不正: %s", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "info", want: LevelInfo},
		{in: " Debug ", want: LevelDebug},
		{in: "warning", want: LevelWarn},
		{in: "ERROR", want: LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
