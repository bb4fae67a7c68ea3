// Package main はアプリケーションのエントリーポイントを提供します
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"VCardConvert/internal/interface/cli"
)

func main() {
	// Ctrl+C で現在のファイルの処理後に停止する
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}
