package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VCardConvert/internal/infrastructure/filesystem"
	"VCardConvert/internal/interface/ui"
)

type stubPicker struct {
	path string
	err  error
}

func (p stubPicker) SelectDirectory(string) (string, error) {
	return p.path, p.err
}

func execute(t *testing.T, pickers PickerFactory, args ...string) (int, string, string) {
	t.Helper()
	if pickers == nil {
		pickers = DefaultPickerFactory
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(&stdout, &stderr, pickers)
	cmd.SetArgs(args)

	code := ExitOK
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var exitErr *ExitStatusError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
		} else {
			code = ExitError
		}
	}
	return code, stdout.String(), stderr.String()
}

func TestRoot_ConvertsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.vcf")
	require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCARD\nVERSION:4.0\nEND:VCARD"), 0o644))

	code, stdout, _ := execute(t, nil, dir)

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "置換箇所: 1")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCARD\nVERSION:3.0\nEND:VCARD", string(got))
}

func TestRoot_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "Kontakte")

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{missing}, &stdout, &stderr)

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr.String(), "エラー:")
	assert.Contains(t, stderr.String(), missing)
	assert.NoDirExists(t, missing)
}

func TestRoot_EmptyDirectory(t *testing.T) {
	code, stdout, _ := execute(t, nil, t.TempDir())

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "処理ファイル数: 0")
}

func TestRoot_DryRunWithReport(t *testing.T) {
	dir := t.TempDir()
	reportDir := t.TempDir()
	path := filepath.Join(dir, "a.vcf")
	require.NoError(t, os.WriteFile(path, []byte("VERSION:4.0"), 0o644))

	code, stdout, _ := execute(t, nil, dir, "--dry-run", "--report-dir", reportDir, "--log-level", "error")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "dry-run")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "VERSION:4.0", string(got))

	files, err := os.ReadDir(reportDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	content, err := os.ReadFile(filepath.Join(reportDir, files[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[DRY]  a.vcf: 置換 1")
}

func TestRoot_LogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "vcardconvert.log")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vcf"), []byte("VERSION:4.0"), 0o644))

	code, _, stderr := execute(t, nil, dir, "--log-file", logPath)

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stderr)
	logs, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logs), `"level":"INFO"`)
}

func TestRoot_InvalidWriteMode(t *testing.T) {
	code, _, _ := execute(t, nil, t.TempDir(), "--write-mode", "copy")
	assert.Equal(t, ExitError, code)
}

func TestRoot_Picker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.vcf")
	require.NoError(t, os.WriteFile(path, []byte("VERSION:4.0"), 0o644))

	var gotKind string
	pickers := func(kind string, _ filesystem.DirectoryValidator) ui.DirectoryPicker {
		gotKind = kind
		return stubPicker{path: dir}
	}

	code, _, _ := execute(t, pickers, "--pick", "fyne")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "fyne", gotKind)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "VERSION:3.0", string(got))
}

func TestRoot_PickerCancelled(t *testing.T) {
	pickers := func(string, filesystem.DirectoryValidator) ui.DirectoryPicker {
		return stubPicker{err: ui.ErrCancelled}
	}

	code, _, _ := execute(t, pickers, "--pick", "native")
	assert.Equal(t, ExitError, code)
}

func TestRoot_PartialFailure(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ではパーミッションエラーを再現できません")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vcf"), []byte("VERSION:4.0"), 0o644))
	locked := filepath.Join(dir, "b.vcf")
	require.NoError(t, os.WriteFile(locked, []byte("VERSION:4.0"), 0o000))

	code, stdout, _ := execute(t, nil, dir, "--log-level", "error")
	assert.Equal(t, ExitPartial, code)
	assert.Contains(t, stdout, "失敗ファイル数: 1")

	code, _, _ = execute(t, nil, dir, "--continue-on-error=false", "--log-level", "error")
	assert.Equal(t, ExitPartial, code)
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := Execute(ctx, []string{t.TempDir()}, &stdout, &stderr)

	assert.Equal(t, ExitCancelled, code)
	assert.Contains(t, stderr.String(), "エラー: context canceled")
}
