// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package criteria

import "fmt"

// CompileError reports criteria text that could not be compiled. It is
// returned by the predicate on evaluation, never by Compile itself.
type CompileError struct {
	Source  string
	Line    int
	Column  int
	Message string
}

func (e *CompileError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("criteria %q: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("criteria %q: %d:%d: %s", e.Source, e.Line, e.Column, e.Message)
}
