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
	"fmt"

	"github.com/openconfig/yangkit/ymodel"
)

const unbounded = -1

type cardinality struct {
	min, max int
}

// substatementValidator checks the substatements of one statement kind.
// Extension instances are accepted under any statement.
type substatementValidator struct {
	kind  ymodel.Kind
	order []ymodel.Kind
	subs  map[ymodel.Kind]cardinality
}

func newValidator(k ymodel.Kind) *substatementValidator {
	return &substatementValidator{kind: k, subs: map[ymodel.Kind]cardinality{}}
}

func (v *substatementValidator) add(c cardinality, kinds ...ymodel.Kind) *substatementValidator {
	for _, k := range kinds {
		if _, ok := v.subs[k]; !ok {
			v.order = append(v.order, k)
		}
		v.subs[k] = c
	}
	return v
}

// addMandatory requires exactly one substatement of each kind.
func (v *substatementValidator) addMandatory(kinds ...ymodel.Kind) *substatementValidator {
	return v.add(cardinality{1, 1}, kinds...)
}

// addOptional allows at most one substatement of each kind.
func (v *substatementValidator) addOptional(kinds ...ymodel.Kind) *substatementValidator {
	return v.add(cardinality{0, 1}, kinds...)
}

// addAny allows any number of substatements of each kind.
func (v *substatementValidator) addAny(kinds ...ymodel.Kind) *substatementValidator {
	return v.add(cardinality{0, unbounded}, kinds...)
}

// addAtLeast requires n or more substatements of kind k.
func (v *substatementValidator) addAtLeast(k ymodel.Kind, n int) *substatementValidator {
	return v.add(cardinality{n, unbounded}, k)
}

// validate checks the children of c against the validator.
func (v *substatementValidator) validate(c *stmtCtx) error {
	counts := map[ymodel.Kind]int{}
	for _, id := range c.children {
		ch := c.b().ctx(id)
		if ch.prefix != "" {
			continue
		}
		card, ok := v.subs[ch.kind]
		if !ok {
			return &SubstatementError{
				Ref:    ch.ref,
				Parent: v.kind,
				Sub:    ch.kind,
				Msg:    fmt.Sprintf("%s is not valid for %s", ch.keyword, v.kind),
			}
		}
		counts[ch.kind]++
		if card.max != unbounded && counts[ch.kind] > card.max {
			return &SubstatementError{
				Ref:    ch.ref,
				Parent: v.kind,
				Sub:    ch.kind,
				Msg:    fmt.Sprintf("maximal count of %s for %s is %d, detected %d", ch.kind, v.kind, card.max, counts[ch.kind]),
			}
		}
	}
	for _, k := range v.order {
		if card := v.subs[k]; counts[k] < card.min {
			return &SubstatementError{
				Ref:     c.ref,
				Parent:  v.kind,
				Sub:     k,
				Missing: true,
				Msg:     fmt.Sprintf("%s is missing %s. Minimal count is %d", v.kind, k, card.min),
			}
		}
	}
	return nil
}
