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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openconfig/yangkit/datatree"
)

func newPathsCmd() *cobra.Command {
	paths := &cobra.Command{
		Use:   "paths [files or directories]",
		RunE:  printPaths,
		Short: "Lists the data tree paths of the built modules.",
		Args:  cobra.MinimumNArgs(1),
	}

	paths.Flags().String("prefix", "/", "Only list paths starting with this prefix, as in /module:top/child.")
	paths.Flags().Bool("schema", false, "Print the schema node identifier of every path.")

	return paths
}

func printPaths(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext(args)
	if err != nil {
		return err
	}
	idx := datatree.NewPathIndex(ctx)
	for _, p := range idx.PrefixSearch(viper.GetString("prefix")) {
		if !viper.GetBool("schema") {
			fmt.Fprintln(cmd.OutOrStdout(), p)
			continue
		}
		abs, _ := idx.Lookup(p)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", p, abs)
	}
	return nil
}
