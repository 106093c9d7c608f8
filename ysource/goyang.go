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

package ysource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/yir"
)

// FromGoyang parses text with the goyang parser and converts the single
// resulting statement tree to IR. Arguments are taken as resolved by goyang
// and stored verbatim.
func FromGoyang(name, text string) (*IR, error) {
	sts, err := yang.Parse(text, name)
	if err != nil {
		return nil, err
	}
	if len(sts) != 1 {
		return nil, fmt.Errorf("%s: expected one top-level statement, got %d", name, len(sts))
	}
	st := convertGoyang(sts[0])
	id, _ := ycommon.ParseSourceFileName(name)
	return NewIR(name, id, st), nil
}

func convertGoyang(s *yang.Statement) *yir.Statement {
	out := &yir.Statement{Keyword: &yir.Keyword{Identifier: s.Keyword}}
	if p, id, ok := strings.Cut(s.Keyword, ":"); ok {
		out.Keyword = &yir.Keyword{Prefix: p, Identifier: id}
	}
	if s.HasArgument {
		out.Argument = &yir.Argument{Kind: yir.SingleQuoted, Raw: s.Argument}
	}
	out.Line, out.Column = goyangPosition(s.Location())
	for _, ch := range s.SubStatements() {
		out.Children = append(out.Children, convertGoyang(ch))
	}
	return out
}

// goyangPosition extracts the line and column of a goyang location of the
// form file:line:col.
func goyangPosition(loc string) (line, col int) {
	parts := strings.Split(loc, ":")
	if len(parts) < 3 {
		return 0, 0
	}
	line, _ = strconv.Atoi(parts[len(parts)-2])
	col, _ = strconv.Atoi(parts[len(parts)-1])
	return line, col
}
