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
	"strings"

	"github.com/spf13/cobra"

	"github.com/openconfig/yangkit/ymodel"
)

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [files or directories]",
		RunE:  printTree,
		Short: "Prints the schema tree of the built modules.",
		Args:  cobra.MinimumNArgs(1),
	}
}

func printTree(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext(args)
	if err != nil {
		return err
	}
	for _, m := range ctx.Modules() {
		fmt.Fprintf(cmd.OutOrStdout(), "module: %s\n", m.Name)
		for _, c := range m.SchemaTreeChildren() {
			writeTree(cmd.OutOrStdout(), c, 1)
		}
	}
	return nil
}

// writeTree writes e and its schema tree descendants in the form
//
//	+-- container
//	   +-- (choice)
//	      +--:(case)
//	         +-- leaf    type
//	+-- list* [key]
func writeTree(w io.Writer, e *ymodel.Effective, depth int) {
	var name string
	switch e.Kind {
	case ymodel.KindChoice:
		name = " (" + e.QName.Name + ")"
	case ymodel.KindCase:
		name = ":(" + e.QName.Name + ")"
	case ymodel.KindList:
		name = " " + e.QName.Name + "*"
		if keys := e.ListKeys(); len(keys) > 0 {
			var ks []string
			for _, k := range keys {
				ks = append(ks, k.Name)
			}
			name += " [" + strings.Join(ks, " ") + "]"
		}
	case ymodel.KindLeafList:
		name = " " + e.QName.Name + "*"
	case ymodel.KindContainer:
		name = " " + e.QName.Name
		if e.IsPresence() {
			name += "!"
		}
	default:
		name = " " + e.QName.Name
	}
	line := strings.Repeat("   ", depth) + "+--" + name
	if t := e.FirstArgument(ymodel.KindType); t != "" {
		line = fmt.Sprintf("%-40s %s", line, t)
	}
	fmt.Fprintln(w, line)
	for _, c := range e.SchemaTreeChildren() {
		writeTree(w, c, depth+1)
	}
}
