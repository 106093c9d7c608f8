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


// Package ytestutil contains helpers shared by the tests of packages built
// on top of the reactor.
package ytestutil

import (
	"fmt"
	"testing"

	"github.com/kr/pretty"

	"github.com/openconfig/yangkit/ymodel"
	"github.com/openconfig/yangkit/yreactor"
	"github.com/openconfig/yangkit/ysource"
)

// Build builds texts, each as its own source named srcN, with cfg.
func Build(cfg yreactor.Config, texts ...string) (*ymodel.Context, error) {
	a := yreactor.New(cfg).NewBuild()
	for i, text := range texts {
		a.AddSource(ysource.NewText(fmt.Sprintf("src%d", i), text))
	}
	return a.Build()
}

// MustBuild builds texts with the default configuration, failing t on error.
func MustBuild(t testing.TB, texts ...string) *ymodel.Context {
	t.Helper()
	ctx, err := Build(yreactor.Config{}, texts...)
	if err != nil {
		t.Fatalf("cannot build schema context: %v", err)
	}
	return ctx
}

// Sprint renders v for test failure messages.
func Sprint(v any) string {
	return pretty.Sprint(v)
}
