package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// exitError carries the process exit code and what to tell the user.
type exitError struct {
	code int
	msg  string
	hint string
}

func (e *exitError) Error() string { return e.msg }

func usageError(format string, args ...any) error {
	return &exitError{code: exitUsage, msg: fmt.Sprintf(format, args...)}
}

func runtimeError(op string, err error) error {
	return &exitError{code: exitRuntime, msg: op + ": " + err.Error()}
}

func outOfRange(have, got int) error {
	return &exitError{
		code: exitUsage,
		msg:  fmt.Sprintf("index out of range: have %d, got %d", have, got),
		hint: "Hint: run `todo ls` to see valid indexes",
	}
}

// codeOf maps err to an exit code. Errors that are not exitErrors come from
// cobra's own argument and flag parsing.
func codeOf(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}
