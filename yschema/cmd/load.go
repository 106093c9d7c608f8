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
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/golang/glog"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/openconfig/yangkit/util"
	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
	"github.com/openconfig/yangkit/yreactor"
	"github.com/openconfig/yangkit/ysource"
)

// loadContext builds the sources named by paths together with the library
// sources of the path setting.
func loadContext(paths []string) (*ymodel.Context, error) {
	cfg := yreactor.Config{Workers: viper.GetInt("workers")}
	if viper.GetBool("semver") {
		cfg.Mode = yreactor.ModeSemVer
	}
	srcs, err := readSources(paths, cfg.Workers)
	if err != nil {
		return nil, err
	}
	libs, err := readSources(viper.GetStringSlice("path"), cfg.Workers)
	if err != nil {
		var errs util.Errors
		if errors.As(err, &errs) {
			return nil, util.PrefixErrors(errs, "library path")
		}
		return nil, fmt.Errorf("library path: %w", err)
	}
	if features := viper.GetStringSlice("features"); len(features) != 0 {
		// Feature names are bound to module namespaces, which are read from
		// the module headers so that only the requested features take part
		// in the build.
		if cfg.SupportedFeatures, err = featureSet(append(srcs, libs...), features); err != nil {
			return nil, err
		}
		log.V(1).Infof("yschema: building with supported features %v", features)
	}
	a := yreactor.New(cfg).NewBuild()
	for _, s := range srcs {
		a.AddSource(s)
	}
	for _, s := range libs {
		a.AddLibSource(s)
	}
	return a.Build()
}

// readSources reads the YANG files named by paths. Directories are
// searched recursively.
func readSources(paths []string, workers int) ([]*ysource.Text, error) {
	var (
		files []string
		srcs  []*ysource.Text
	)
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, p)
			continue
		}
		dir, err := ysource.FromDir(p, workers)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, dir...)
	}
	if len(files) == 0 {
		return srcs, nil
	}
	named, err := ysource.FromFiles(files, workers)
	if err != nil {
		return nil, err
	}
	return append(srcs, named...), nil
}

// featureSet maps module:feature names to the namespaces declared by the
// module headers of srcs. Every revision of a module is covered.
func featureSet(srcs []*ysource.Text, names []string) (*yreactor.FeatureSet, error) {
	namespaces, err := moduleNamespaces(srcs)
	if err != nil {
		return nil, err
	}
	var features []ycommon.QName
	for _, n := range names {
		mod, feat, ok := strings.Cut(n, ":")
		if !ok || mod == "" || feat == "" {
			return nil, fmt.Errorf("feature %q must be of the form module:feature", n)
		}
		nss := namespaces[mod]
		if len(nss) == 0 {
			return nil, fmt.Errorf("feature %q: module %s not found", n, mod)
		}
		for _, ns := range nss {
			features = append(features, ycommon.NewQName(ns, "", feat))
		}
	}
	return yreactor.NewFeatureSet(features...), nil
}

// moduleNamespaces returns the distinct namespaces of each module of srcs.
// Submodules declare no namespace of their own and are skipped.
func moduleNamespaces(srcs []*ysource.Text) (map[string][]string, error) {
	out := map[string][]string{}
	for _, s := range srcs {
		root, err := s.Statement()
		if err != nil {
			return nil, err
		}
		if root.Keyword.String() != "module" {
			continue
		}
		for _, c := range root.Children {
			if c.Keyword.String() != "namespace" {
				continue
			}
			name, ns := root.Arg(), c.Arg()
			if !slices.Contains(out[name], ns) {
				out[name] = append(out[name], ns)
			}
			break
		}
	}
	return out, nil
}
