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
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/golang/glog"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/openconfig/yangkit/util"
)

// FromFile reads the YANG file at path.
func FromFile(path string) (*Text, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewText(path, string(b)), nil
}

// FromDir reads every .yang file below dir, reading and parsing up to
// workers files concurrently. All parse errors are reported together. The
// sources are returned sorted by path.
func FromDir(dir string, workers int) ([]*Text, error) {
	var paths []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isYANGFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	slices.Sort(paths)
	log.V(1).Infof("ysource: found %d YANG files in %s", len(paths), dir)
	return FromFiles(paths, workers)
}

// FromFiles reads and parses the given files concurrently. A file named
// more than once is reported once.
func FromFiles(paths []string, workers int) ([]*Text, error) {
	srcs := make([]*Text, len(paths))
	errs := make([]util.Errors, len(paths))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			t, err := FromFile(p)
			if err != nil {
				errs[i] = util.NewErrs(err)
				return nil
			}
			if _, err := t.Statement(); err != nil {
				errs[i] = util.NewErrs(err)
				return nil
			}
			srcs[i] = t
			return nil
		})
	}
	g.Wait()
	var all util.Errors
	for _, e := range errs {
		all = util.AppendErrs(all, e)
	}
	if all = util.UniqueErrors(all); len(all) != 0 {
		return nil, all
	}
	return srcs, nil
}
