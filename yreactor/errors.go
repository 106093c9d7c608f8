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

package yreactor

import (
	"errors"
	"fmt"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// ReactorError is the single error returned by a failed build. It records
// the phase that failed and the source being processed, and wraps the root
// cause, which is one of *ycommon.SourceError, *InferenceError,
// *CollisionError or *SubstatementError.
type ReactorError struct {
	Phase  Phase
	Source ycommon.SourceID
	Err    error
}

// Error implements the error interface.
func (e *ReactorError) Error() string {
	if e.Source.Name == "" {
		return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Phase, e.Source, e.Err)
}

// Unwrap returns the root cause.
func (e *ReactorError) Unwrap() error { return e.Err }

// InferenceError reports a reference that could not be resolved, such as a
// missing import, grouping, augment target or base identity.
type InferenceError struct {
	Ref ycommon.SourceRef
	Msg string
}

func inferenceErrorf(ref ycommon.SourceRef, format string, args ...any) *InferenceError {
	return &InferenceError{Ref: ref, Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *InferenceError) Error() string {
	if e.Ref.Source == "" {
		return e.Msg
	}
	return e.Ref.String() + ": " + e.Msg
}

// CollisionError reports two definitions claiming the same key of a
// namespace. Ref is the rejected definition and PrevRef the existing one.
type CollisionError struct {
	Ref     ycommon.SourceRef
	PrevRef ycommon.SourceRef
	Msg     string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return e.Msg
}

// collisionOf converts an error of ymodel.NewEffective for the statement at
// ref, keeping both sites of a duplicate child.
func collisionOf(ref ycommon.SourceRef, err error) *CollisionError {
	var de *ymodel.DuplicateChildError
	if errors.As(err, &de) {
		return &CollisionError{Ref: de.Ref, PrevRef: de.PrevRef, Msg: de.Msg}
	}
	return &CollisionError{Ref: ref, Msg: err.Error()}
}

// SubstatementError reports a substatement cardinality violation.
type SubstatementError struct {
	Ref    ycommon.SourceRef
	Parent ymodel.Kind
	Sub    ymodel.Kind
	// Missing is set when a mandatory substatement is absent.
	Missing bool
	Msg     string
}

// Error implements the error interface.
func (e *SubstatementError) Error() string {
	return e.Ref.String() + ": " + e.Msg
}
