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

package util

import (
	"fmt"

	"google.golang.org/protobuf/proto"

	gpb "github.com/openconfig/gnmi/proto/gnmi"

	"github.com/openconfig/yangkit/ymodel"
)

// PathElemsEqual replaces the proto.Equal() check for PathElems.
// If a.Key["foo"] == "*" and b.Key["foo"] == "bar" func returns false.
// This significantly improves comparison speed.
func PathElemsEqual(a, b *gpb.PathElem) bool {
	// This check allows avoiding to deal with any null PathElems later on.
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Name != b.Name {
		return false
	}

	if len(a.Key) != len(b.Key) {
		return false
	}

	for k, v := range a.Key {
		if vo, ok := b.Key[k]; !ok || v != vo {
			return false
		}
	}
	return true
}

// PathElemSlicesEqual compares whether two PathElem slices are equal.
func PathElemSlicesEqual(a, b []*gpb.PathElem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !PathElemsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// PathMatchesPathElemPrefix checks whether prefix is a prefix of path. Both paths
// must use the gNMI >=0.4.0 PathElem path format.
func PathMatchesPathElemPrefix(path, prefix *gpb.Path) bool {
	if len(path.GetElem()) < len(prefix.GetElem()) || path.GetOrigin() != prefix.GetOrigin() {
		return false
	}
	for i, v := range prefix.GetElem() {
		if !PathElemsEqual(v, path.GetElem()[i]) {
			return false
		}
	}
	return true
}

// TrimGNMIPathElemPrefix returns the path with the prefix trimmed. It returns
// the original path if the prefix does not match.
func TrimGNMIPathElemPrefix(path, prefix *gpb.Path) *gpb.Path {
	if prefix == nil {
		return path
	}
	if !PathMatchesPathElemPrefix(path, prefix) {
		return path
	}
	out := proto.Clone(path).(*gpb.Path)
	out.Elem = out.GetElem()[len(prefix.GetElem()):]
	return out
}

// JoinPaths joins an prefix and suffix paths, returning an error if their
// target or origin fields are both non-empty but don't match.
func JoinPaths(prefix, suffix *gpb.Path) (*gpb.Path, error) {
	joined := &gpb.Path{
		Origin: prefix.GetOrigin(),
		Target: prefix.GetTarget(),
		// Copy the prefix elem to avoid modifying the one the caller passed.
		Elem: append(append([]*gpb.PathElem{}, prefix.GetElem()...), suffix.GetElem()...),
	}
	if sufOrigin := suffix.GetOrigin(); sufOrigin != "" {
		if preOrigin := prefix.GetOrigin(); preOrigin != "" && preOrigin != sufOrigin {
			return nil, fmt.Errorf("prefix and suffix have different origins: %s != %s", preOrigin, sufOrigin)
		}
		joined.Origin = sufOrigin
	}
	if sufTarget := suffix.GetTarget(); sufTarget != "" {
		if preTarget := prefix.GetTarget(); preTarget != "" && preTarget != sufTarget {
			return nil, fmt.Errorf("prefix and suffix have different targets: %s != %s", preTarget, sufTarget)
		}
		joined.Target = sufTarget
	}
	return joined, nil
}

// FindModelData returns the gNMI ModelData of every module of ctx, sorted by
// name and then by revision, newest first. The version is the module's
// openconfig-version, if any.
func FindModelData(ctx *ymodel.Context) []*gpb.ModelData {
	var modelData []*gpb.ModelData
	for _, m := range ctx.Modules() {
		modelData = append(modelData, &gpb.ModelData{
			Name:         m.Name,
			Organization: m.FirstArgument(ymodel.KindOrganization),
			Version:      m.SemVer,
		})
	}
	return modelData
}
