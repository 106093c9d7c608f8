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
	"github.com/openconfig/yangkit/ycommon"
)

// ParserMode selects how imports are matched to modules.
type ParserMode int

const (
	// ModeDefault matches imports by name and optional revision.
	ModeDefault ParserMode = iota
	// ModeSemVer additionally honours the openconfig-version requested by
	// an import, selecting the newest module of a compatible version.
	ModeSemVer
)

// String returns the mode name.
func (m ParserMode) String() string {
	if m == ModeSemVer {
		return "SEMVER"
	}
	return "DEFAULT"
}

// FeatureSet is a set of supported features. A nil *FeatureSet supports all
// features.
type FeatureSet struct {
	features map[ycommon.QName]bool
}

// NewFeatureSet returns the set of the given features. A feature whose QName
// has no revision matches that feature in every revision of its module.
func NewFeatureSet(features ...ycommon.QName) *FeatureSet {
	s := &FeatureSet{features: map[ycommon.QName]bool{}}
	for _, f := range features {
		s.features[f] = true
	}
	return s
}

// Contains reports whether f is supported.
func (s *FeatureSet) Contains(f ycommon.QName) bool {
	if s == nil {
		return true
	}
	if s.features[f] {
		return true
	}
	f.Module.Revision = ""
	return s.features[f]
}

// Config is the configuration of a Reactor.
type Config struct {
	// SupportedFeatures restricts the supported features. Nil supports all.
	SupportedFeatures *FeatureSet
	// Mode selects import resolution.
	Mode ParserMode
	// Workers bounds the number of sources processed concurrently in the
	// per-source phases. Values below 2 process sources sequentially.
	Workers int
}
