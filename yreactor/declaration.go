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

// declare runs full declaration over the required sources. The steps run
// sequentially, each over all sources: extension binding, if-feature
// pruning, uses expansion, augment grafting and deviations.
func (b *build) declare() error {
	required := b.required()
	for _, s := range required {
		if err := b.resolveExtensions(s.rootCtx()); err != nil {
			return atSource(s, err)
		}
	}
	for _, s := range required {
		if err := b.pruneFeatures(s.rootCtx()); err != nil {
			return atSource(s, err)
		}
	}
	for _, s := range required {
		if err := b.expandAllUses(s.rootCtx()); err != nil {
			return atSource(s, err)
		}
	}
	if err := b.expandAugments(required); err != nil {
		return err
	}
	return b.applyDeviations(required)
}
