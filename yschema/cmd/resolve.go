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

	gpb "github.com/openconfig/gnmi/proto/gnmi"

	"github.com/openconfig/yangkit/datatree"
	"github.com/openconfig/yangkit/util"
	"github.com/openconfig/yangkit/ymodel"
)

func newResolveCmd() *cobra.Command {
	resolve := &cobra.Command{
		Use:   "resolve <path> [files or directories]",
		RunE:  resolvePath,
		Short: "Resolves an instance identifier or gNMI path through the data tree.",
		Args:  cobra.MinimumNArgs(2),
	}

	resolve.Flags().Bool("gnmi", false, "Parse the path as a gNMI path string rather than an instance identifier.")
	resolve.Flags().String("prefix", "", "gNMI path string prepended to a gNMI path.")

	return resolve
}

func resolvePath(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext(args[1:])
	if err != nil {
		return err
	}
	tree := datatree.Of(ctx)
	w := cmd.OutOrStdout()

	if !viper.GetBool("gnmi") {
		r, err := datatree.ParseInstanceIdentifier(tree, args[0])
		if err != nil {
			return err
		}
		writeResolved(w, r)
		return nil
	}

	p, prefix, err := gnmiPath(args[0], viper.GetString("prefix"))
	if err != nil {
		return err
	}
	r, err := datatree.FromGNMIPath(tree, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "path: %s\n", util.PathToString(p))
	if prefix != nil && util.PathMatchesPathElemPrefix(p, prefix) {
		fmt.Fprintf(w, "relative to prefix: %s\n", util.PathToString(util.TrimGNMIPathElemPrefix(p, prefix)))
	}
	writeResolved(w, r)
	return nil
}

// gnmiPath parses the gNMI path string s, joined to the optional prefix
// pfx. The parsed prefix is returned when set.
func gnmiPath(s, pfx string) (*gpb.Path, *gpb.Path, error) {
	p, err := util.StringToStructuredPath(s)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot parse path %q: %v", s, err)
	}
	if pfx == "" {
		return p, nil, nil
	}
	prefix, err := util.StringToStructuredPath(pfx)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot parse prefix %q: %v", pfx, err)
	}
	joined, err := util.JoinPaths(prefix, p)
	if err != nil {
		return nil, nil, err
	}
	return joined, prefix, nil
}

func writeResolved(w io.Writer, r *datatree.Resolved) {
	for _, a := range r.Args {
		fmt.Fprintf(w, "  %s\n", a)
	}
	fmt.Fprintf(w, "node: %s\n", describe(r.Node))
	if r.Schema.Len() > 0 {
		fmt.Fprintf(w, "schema: %s\n", r.Schema)
	}
}

// describe names the kind of data tree node n is.
func describe(n datatree.Node) string {
	s := n.Schema()
	switch {
	case s == nil && n.IsMixin():
		return "augmentation"
	case s == nil:
		return "root"
	case (s.Kind == ymodel.KindList || s.Kind == ymodel.KindLeafList) && !n.IsMixin():
		return s.Kind.String() + " entry"
	}
	return s.Kind.String()
}
