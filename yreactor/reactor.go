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

// Package yreactor builds the effective model of a set of YANG sources. A
// build runs every source through a fixed sequence of phases, finishing each
// phase for all sources before any source enters the next one.
package yreactor

import (
	"errors"

	log "github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// Phase is a step of the build.
type Phase int

const (
	// PhaseInit is the phase of contexts that have not been processed.
	PhaseInit Phase = iota
	// PhaseSourcePreLinkage extracts module identities and publishes them.
	PhaseSourcePreLinkage
	// PhaseLinkage resolves imports, includes and belongs-to.
	PhaseLinkage
	// PhaseStatementDefinition checks statements and registers definitions.
	PhaseStatementDefinition
	// PhaseFullDeclaration prunes features and expands uses, augment and
	// deviation statements.
	PhaseFullDeclaration
	// PhaseEffectiveModel builds the effective statements.
	PhaseEffectiveModel
)

var phaseNames = map[Phase]string{
	PhaseInit:                "INIT",
	PhaseSourcePreLinkage:    "SOURCE_PRE_LINKAGE",
	PhaseLinkage:             "SOURCE_LINKAGE",
	PhaseStatementDefinition: "STATEMENT_DEFINITION",
	PhaseFullDeclaration:     "FULL_DECLARATION",
	PhaseEffectiveModel:      "EFFECTIVE_MODEL",
}

// String returns the name of the phase.
func (p Phase) String() string { return phaseNames[p] }

// Reactor creates build actions sharing one configuration. A Reactor holds
// no build state and may be used concurrently.
type Reactor struct {
	cfg Config
}

// New returns a Reactor using cfg.
func New(cfg Config) *Reactor {
	return &Reactor{cfg: cfg}
}

// NewBuild starts a new build action.
func (r *Reactor) NewBuild() *BuildAction {
	return &BuildAction{cfg: r.cfg}
}

// BuildAction collects the sources of one build.
type BuildAction struct {
	cfg     Config
	sources []StatementSource
	libs    []StatementSource
}

// AddSource adds a source that is always part of the resulting context.
func (a *BuildAction) AddSource(s StatementSource) *BuildAction {
	a.sources = append(a.sources, s)
	return a
}

// AddSources adds each of ss with AddSource.
func (a *BuildAction) AddSources(ss ...StatementSource) *BuildAction {
	for _, s := range ss {
		a.AddSource(s)
	}
	return a
}

// AddLibSource adds a library source. Library sources are only part of the
// result when they are imported or included, directly or transitively, by a
// regular source.
func (a *BuildAction) AddLibSource(s StatementSource) *BuildAction {
	a.libs = append(a.libs, s)
	return a
}

// Build runs all phases and returns the effective model. On failure no
// partial context is returned and the error is a *ReactorError.
func (a *BuildAction) Build() (*ymodel.Context, error) {
	b := &build{
		cfg:      a.cfg,
		expanded: map[ctxID]expandState{},
		features: map[ctxID]featureState{},
	}
	for _, in := range a.sources {
		b.sources = append(b.sources, &sourceCtx{b: b, in: in, name: in.Name()})
	}
	for _, in := range a.libs {
		b.sources = append(b.sources, &sourceCtx{b: b, in: in, name: in.Name(), lib: true})
	}
	return b.run()
}

// build is the state of one build action.
type build struct {
	cfg Config
	// ctxs is the arena of all statement contexts.
	ctxs []*stmtCtx
	// global holds the namespaces shared by all sources.
	global  nsStore
	sources []*sourceCtx

	expanded map[ctxID]expandState
	features map[ctxID]featureState
}

// sourceFailure attributes an error to the source being processed.
type sourceFailure struct {
	src *sourceCtx
	err error
}

func (f *sourceFailure) Error() string { return f.src.name + ": " + f.err.Error() }

func (f *sourceFailure) Unwrap() error { return f.err }

func atSource(s *sourceCtx, err error) error {
	if err == nil {
		return nil
	}
	var sf *sourceFailure
	if errors.As(err, &sf) {
		return err
	}
	return &sourceFailure{src: s, err: err}
}

func (b *build) run() (*ymodel.Context, error) {
	phases := []struct {
		phase Phase
		run   func() error
	}{
		{PhaseSourcePreLinkage, b.preLinkage},
		{PhaseLinkage, b.link},
		{PhaseStatementDefinition, b.define},
		{PhaseFullDeclaration, b.declare},
	}
	for _, p := range phases {
		log.V(1).Infof("reactor: entering phase %s", p.phase)
		if err := p.run(); err != nil {
			return nil, phaseError(p.phase, err)
		}
	}
	log.V(1).Infof("reactor: entering phase %s", PhaseEffectiveModel)
	ctx, err := b.buildContext()
	if err != nil {
		return nil, phaseError(PhaseEffectiveModel, err)
	}
	return ctx, nil
}

func phaseError(p Phase, err error) error {
	re := &ReactorError{Phase: p, Err: err}
	var sf *sourceFailure
	if errors.As(err, &sf) {
		re.Source = sf.src.id
		if re.Source.Name == "" {
			re.Source = ycommon.SourceID{Name: sf.src.name}
		}
		re.Err = sf.err
	}
	return re
}

// forEachSource calls fn for each of srcs. With more than one worker the
// calls run concurrently; fn must then only mutate state owned by its
// source. The error reported is the one of the first failing source in
// order, as in a sequential run.
func (b *build) forEachSource(srcs []*sourceCtx, fn func(s *sourceCtx) error) error {
	if b.cfg.Workers < 2 {
		for _, s := range srcs {
			if err := fn(s); err != nil {
				return atSource(s, err)
			}
		}
		return nil
	}
	errs := make([]error, len(srcs))
	var g errgroup.Group
	g.SetLimit(b.cfg.Workers)
	for i, s := range srcs {
		i, s := i, s
		g.Go(func() error {
			errs[i] = fn(s)
			return nil
		})
	}
	g.Wait()
	for i, err := range errs {
		if err != nil {
			return atSource(srcs[i], err)
		}
	}
	return nil
}

// required returns the sources taking part in the build, in source order.
func (b *build) required() []*sourceCtx {
	var out []*sourceCtx
	for _, s := range b.sources {
		if s.required {
			out = append(out, s)
		}
	}
	return out
}

// walk calls fn for c and each of its live descendants, depth first, in
// declaration order.
func (b *build) walk(c *stmtCtx, fn func(c *stmtCtx) error) error {
	if err := fn(c); err != nil {
		return err
	}
	if c.removed {
		return nil
	}
	for _, ch := range c.liveChildren() {
		if err := b.walk(ch, fn); err != nil {
			return err
		}
	}
	return nil
}

// topLevel returns the live children of kind k of the roots of srcs.
func topLevel(srcs []*sourceCtx, k ymodel.Kind) []*stmtCtx {
	var out []*stmtCtx
	for _, s := range srcs {
		out = append(out, s.rootCtx().childrenOf(k)...)
	}
	return out
}
