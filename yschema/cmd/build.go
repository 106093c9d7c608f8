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


package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openconfig/yangkit/ymodel"
)

func newBuildCmd() *cobra.Command {
	build := &cobra.Command{
		Use:   "build [files or directories]",
		RunE:  buildSchema,
		Short: "Builds the given YANG sources and summarizes the resulting modules.",
		Args:  cobra.MinimumNArgs(1),
	}

	build.Flags().Bool("dump", false, "Print every effective statement of the schema context.")

	return build
}

func buildSchema(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext(args)
	if err != nil {
		return err
	}
	if viper.GetBool("dump") {
		fmt.Fprint(cmd.OutOrStdout(), ymodel.Dump(ctx))
		return nil
	}
	writeSummary(cmd.OutOrStdout(), ctx)
	return nil
}

// writeSummary writes one line per module of ctx.
func writeSummary(w io.Writer, ctx *ymodel.Context) {
	for _, m := range ctx.Modules() {
		rev := string(m.QNameModule.Revision)
		if rev == "" {
			rev = "-"
		}
		fmt.Fprintf(w, "module %s namespace %s revision %s prefix %s", m.Name, m.QNameModule.Namespace, rev, m.Prefix)
		if m.SemVer != "" {
			fmt.Fprintf(w, " version %s", m.SemVer)
		}
		fmt.Fprintf(w, " data nodes %d\n", len(m.DataTreeChildren()))
		for _, s := range m.Submodules {
			fmt.Fprintf(w, "  submodule %s\n", s.Argument)
		}
	}
}
