package cli

import "fmt"

// 終了コード
const (
	ExitOK        = 0
	ExitError     = 1
	ExitPartial   = 2
	ExitCancelled = 130
)

// ExitStatusError は特定の終了コードで終了すべきエラーを表します
type ExitStatusError struct {
	Code int
	Err  error
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%v (exit %d)", e.Err, e.Code)
}

func (e *ExitStatusError) Unwrap() error {
	return e.Err
}
