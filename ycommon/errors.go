// Copyright 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ycommon

import (
	"fmt"
)

// SourceRef locates a statement in its source text. Line and Column are
// 1-based; a zero Line means that the position is unknown.
type SourceRef struct {
	Source string
	Line   int
	Column int
}

// String returns the reference in the source:line:column form.
func (r SourceRef) String() string {
	if r.Line == 0 {
		return r.Source
	}
	return fmt.Sprintf("%s:%d:%d", r.Source, r.Line, r.Column)
}

// SourceError is an error attributed to a position in a single source, such
// as a lexical or syntax error or an invalid statement argument.
type SourceError struct {
	Ref SourceRef
	Msg string
}

// NewSourceError returns a SourceError at ref with a formatted message.
func NewSourceError(ref SourceRef, format string, args ...any) *SourceError {
	return &SourceError{Ref: ref, Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return e.Ref.String() + ": " + e.Msg
}
