// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler. It is
// the one place outside the CLI's own usage text that writes to stderr
// without the structured logger, because the logger may not exist yet
// when run() fails.
package process

import (
	"errors"
	"fmt"
	"os"
)

// ExitCoder is implemented by errors that carry their own exit status.
type ExitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits with status 1, or with
// the error's own status if it implements ExitCoder.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(ExitCode(err))
}

// ExitCode returns the status Fatal would exit with: 0 for nil, the
// ExitCoder's status if err wraps one, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
