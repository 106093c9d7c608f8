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
	"strconv"
	"strings"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// support is the strategy for one statement kind: its substatement
// validator, argument coercion at statement definition, and completion of
// the effective statement.
type support struct {
	kind      ymodel.Kind
	noArg     bool
	validator *substatementValidator
	// argument validates and coerces the raw argument.
	argument func(c *stmtCtx) error
	// effective completes the arguments of the effective statement.
	effective func(b *build, c *stmtCtx, a *ymodel.EffectiveArgs) error
}

// extensionSupport handles extension instances and everything below them.
var extensionSupport = &support{kind: ymodel.KindUnknown}

// supports is the registry of statement supports keyed by kind.
var supports = map[ymodel.Kind]*support{}

func register(s *support) {
	supports[s.kind] = s
}

// dataDefs are the data-def-stmt kinds.
var dataDefs = []ymodel.Kind{
	ymodel.KindAnydata, ymodel.KindAnyxml, ymodel.KindChoice, ymodel.KindContainer,
	ymodel.KindLeaf, ymodel.KindLeafList, ymodel.KindList, ymodel.KindUses,
}

var bodyDefs = []ymodel.Kind{
	ymodel.KindAugment, ymodel.KindDeviation, ymodel.KindExtension, ymodel.KindFeature,
	ymodel.KindGrouping, ymodel.KindIdentity, ymodel.KindNotification, ymodel.KindRPC,
	ymodel.KindTypedef,
}

var meta = []ymodel.Kind{ymodel.KindDescription, ymodel.KindReference}

func leafSupport(k ymodel.Kind, arg func(c *stmtCtx) error) {
	register(&support{kind: k, validator: newValidator(k), argument: arg})
}

func init() {
	register(&support{
		kind: ymodel.KindModule,
		validator: newValidator(ymodel.KindModule).
			addAny(dataDefs...).addAny(bodyDefs...).
			addAny(ymodel.KindImport, ymodel.KindInclude, ymodel.KindRevision).
			addMandatory(ymodel.KindNamespace, ymodel.KindPrefix).
			addOptional(ymodel.KindYangVersion, ymodel.KindOrganization, ymodel.KindContact).
			addOptional(meta...),
		argument: identifierArg,
	})
	register(&support{
		kind: ymodel.KindSubmodule,
		validator: newValidator(ymodel.KindSubmodule).
			addAny(dataDefs...).addAny(bodyDefs...).
			addAny(ymodel.KindImport, ymodel.KindInclude, ymodel.KindRevision).
			addMandatory(ymodel.KindBelongsTo).
			addOptional(ymodel.KindYangVersion, ymodel.KindOrganization, ymodel.KindContact).
			addOptional(meta...),
		argument: identifierArg,
	})
	register(&support{
		kind:      ymodel.KindImport,
		validator: newValidator(ymodel.KindImport).addMandatory(ymodel.KindPrefix).addOptional(ymodel.KindRevisionDate).addOptional(meta...),
		argument:  identifierArg,
	})
	register(&support{
		kind:      ymodel.KindInclude,
		validator: newValidator(ymodel.KindInclude).addOptional(ymodel.KindRevisionDate).addOptional(meta...),
		argument:  identifierArg,
	})
	register(&support{
		kind:      ymodel.KindBelongsTo,
		validator: newValidator(ymodel.KindBelongsTo).addMandatory(ymodel.KindPrefix),
		argument:  identifierArg,
	})
	register(&support{
		kind:      ymodel.KindRevision,
		validator: newValidator(ymodel.KindRevision).addOptional(meta...),
		argument:  revisionArg,
	})

	schemaNode := func(k ymodel.Kind, v *substatementValidator) {
		register(&support{kind: k, validator: v, argument: qnameArg})
	}
	common := []ymodel.Kind{ymodel.KindDescription, ymodel.KindReference, ymodel.KindStatus, ymodel.KindWhen}
	schemaNode(ymodel.KindContainer, newValidator(ymodel.KindContainer).
		addAny(dataDefs...).
		addAny(ymodel.KindAction, ymodel.KindGrouping, ymodel.KindIfFeature, ymodel.KindMust, ymodel.KindNotification, ymodel.KindTypedef).
		addOptional(ymodel.KindConfig, ymodel.KindPresence).addOptional(common...))
	schemaNode(ymodel.KindLeaf, newValidator(ymodel.KindLeaf).
		addMandatory(ymodel.KindType).
		addAny(ymodel.KindIfFeature, ymodel.KindMust).
		addOptional(ymodel.KindConfig, ymodel.KindDefault, ymodel.KindMandatory, ymodel.KindUnits).addOptional(common...))
	schemaNode(ymodel.KindLeafList, newValidator(ymodel.KindLeafList).
		addMandatory(ymodel.KindType).
		addAny(ymodel.KindDefault, ymodel.KindIfFeature, ymodel.KindMust).
		addOptional(ymodel.KindConfig, ymodel.KindMaxElements, ymodel.KindMinElements, ymodel.KindOrderedBy, ymodel.KindUnits).
		addOptional(common...))
	register(&support{
		kind: ymodel.KindList,
		validator: newValidator(ymodel.KindList).
			addAny(dataDefs...).
			addAny(ymodel.KindAction, ymodel.KindGrouping, ymodel.KindIfFeature, ymodel.KindMust, ymodel.KindNotification, ymodel.KindTypedef, ymodel.KindUnique).
			addOptional(ymodel.KindConfig, ymodel.KindKey, ymodel.KindMaxElements, ymodel.KindMinElements, ymodel.KindOrderedBy).
			addOptional(common...),
		argument: qnameArg,
	})
	schemaNode(ymodel.KindChoice, newValidator(ymodel.KindChoice).
		addAny(ymodel.KindAnydata, ymodel.KindAnyxml, ymodel.KindCase, ymodel.KindChoice, ymodel.KindContainer,
			ymodel.KindLeaf, ymodel.KindLeafList, ymodel.KindList, ymodel.KindIfFeature).
		addOptional(ymodel.KindConfig, ymodel.KindDefault, ymodel.KindMandatory).addOptional(common...))
	schemaNode(ymodel.KindCase, newValidator(ymodel.KindCase).
		addAny(dataDefs...).addAny(ymodel.KindIfFeature).addOptional(common...))
	for _, k := range []ymodel.Kind{ymodel.KindAnydata, ymodel.KindAnyxml} {
		schemaNode(k, newValidator(k).
			addAny(ymodel.KindIfFeature, ymodel.KindMust).
			addOptional(ymodel.KindConfig, ymodel.KindMandatory).addOptional(common...))
	}
	for _, k := range []ymodel.Kind{ymodel.KindRPC, ymodel.KindAction} {
		register(&support{
			kind: k,
			validator: newValidator(k).
				addAny(ymodel.KindGrouping, ymodel.KindIfFeature, ymodel.KindTypedef).
				addOptional(ymodel.KindInput, ymodel.KindOutput, ymodel.KindStatus).addOptional(meta...),
			argument:  qnameArg,
			effective: operationEffective,
		})
	}
	for _, k := range []ymodel.Kind{ymodel.KindInput, ymodel.KindOutput} {
		register(&support{
			kind:      k,
			noArg:     true,
			validator: newValidator(k).addAny(dataDefs...).addAny(ymodel.KindGrouping, ymodel.KindMust, ymodel.KindTypedef),
			argument:  operationIOArg,
		})
	}
	schemaNode(ymodel.KindNotification, newValidator(ymodel.KindNotification).
		addAny(dataDefs...).addAny(ymodel.KindGrouping, ymodel.KindIfFeature, ymodel.KindMust, ymodel.KindTypedef).
		addOptional(ymodel.KindStatus).addOptional(meta...))

	register(&support{
		kind: ymodel.KindGrouping,
		validator: newValidator(ymodel.KindGrouping).
			addAny(dataDefs...).addAny(ymodel.KindAction, ymodel.KindGrouping, ymodel.KindNotification, ymodel.KindTypedef).
			addOptional(ymodel.KindStatus).addOptional(meta...),
		argument: qnameArg,
	})
	register(&support{
		kind: ymodel.KindUses,
		validator: newValidator(ymodel.KindUses).
			addAny(ymodel.KindAugment, ymodel.KindIfFeature, ymodel.KindRefine).addOptional(common...),
	})
	register(&support{
		kind: ymodel.KindRefine,
		validator: newValidator(ymodel.KindRefine).
			addAny(ymodel.KindDefault, ymodel.KindIfFeature, ymodel.KindMust).
			addOptional(ymodel.KindConfig, ymodel.KindMandatory, ymodel.KindMaxElements, ymodel.KindMinElements, ymodel.KindPresence).
			addOptional(meta...),
	})
	register(&support{
		kind: ymodel.KindAugment,
		validator: newValidator(ymodel.KindAugment).
			addAny(dataDefs...).addAny(ymodel.KindAction, ymodel.KindCase, ymodel.KindIfFeature, ymodel.KindNotification).
			addOptional(common...),
	})
	register(&support{
		kind:      ymodel.KindTypedef,
		validator: newValidator(ymodel.KindTypedef).addMandatory(ymodel.KindType).addOptional(ymodel.KindDefault, ymodel.KindStatus, ymodel.KindUnits).addOptional(meta...),
		argument:  typedefArg,
	})
	register(&support{
		kind: ymodel.KindType,
		validator: newValidator(ymodel.KindType).
			addAny(ymodel.KindBase, ymodel.KindBit, ymodel.KindEnum, ymodel.KindPattern, ymodel.KindType).
			addOptional(ymodel.KindFractionDigits, ymodel.KindLength, ymodel.KindPath, ymodel.KindRange, ymodel.KindRequireInstance),
		effective: typeEffective,
	})
	register(&support{
		kind:      ymodel.KindEnum,
		validator: newValidator(ymodel.KindEnum).addAny(ymodel.KindIfFeature).addOptional(ymodel.KindStatus, ymodel.KindValue).addOptional(meta...),
	})
	register(&support{
		kind:      ymodel.KindBit,
		validator: newValidator(ymodel.KindBit).addAny(ymodel.KindIfFeature).addOptional(ymodel.KindPosition, ymodel.KindStatus).addOptional(meta...),
		argument:  identifierArg,
	})
	restriction := []ymodel.Kind{ymodel.KindDescription, ymodel.KindErrorAppTag, ymodel.KindErrorMessage, ymodel.KindReference}
	for _, k := range []ymodel.Kind{ymodel.KindRange, ymodel.KindLength, ymodel.KindMust} {
		register(&support{kind: k, validator: newValidator(k).addOptional(restriction...)})
	}
	register(&support{kind: ymodel.KindPattern, validator: newValidator(ymodel.KindPattern).addOptional(restriction...).addOptional(ymodel.KindModifier)})
	register(&support{kind: ymodel.KindWhen, validator: newValidator(ymodel.KindWhen).addOptional(meta...)})
	register(&support{
		kind:      ymodel.KindIdentity,
		validator: newValidator(ymodel.KindIdentity).addAny(ymodel.KindBase, ymodel.KindIfFeature).addOptional(ymodel.KindStatus).addOptional(meta...),
		argument:  qnameArg,
		effective: identityEffective,
	})
	register(&support{
		kind:      ymodel.KindBase,
		validator: newValidator(ymodel.KindBase),
		effective: baseEffective,
	})
	register(&support{
		kind:      ymodel.KindFeature,
		validator: newValidator(ymodel.KindFeature).addAny(ymodel.KindIfFeature).addOptional(ymodel.KindStatus).addOptional(meta...),
		argument:  qnameArg,
	})
	register(&support{
		kind:      ymodel.KindIfFeature,
		validator: newValidator(ymodel.KindIfFeature),
	})
	register(&support{
		kind:      ymodel.KindExtension,
		validator: newValidator(ymodel.KindExtension).addOptional(ymodel.KindArgument, ymodel.KindStatus).addOptional(meta...),
		argument:  qnameArg,
	})
	register(&support{kind: ymodel.KindArgument, validator: newValidator(ymodel.KindArgument).addOptional(ymodel.KindYinElement), argument: identifierArg})
	register(&support{
		kind:      ymodel.KindDeviation,
		validator: newValidator(ymodel.KindDeviation).addAtLeast(ymodel.KindDeviate, 1).addOptional(meta...),
	})
	register(&support{
		kind: ymodel.KindDeviate,
		validator: newValidator(ymodel.KindDeviate).
			addAny(ymodel.KindDefault, ymodel.KindMust, ymodel.KindUnique).
			addOptional(ymodel.KindConfig, ymodel.KindMandatory, ymodel.KindMaxElements, ymodel.KindMinElements, ymodel.KindType, ymodel.KindUnits),
		argument: enumArg("not-supported", "add", "replace", "delete"),
	})
	register(&support{
		kind:      ymodel.KindKey,
		validator: newValidator(ymodel.KindKey),
		argument:  keyArg,
		effective: keyEffective,
	})

	for _, k := range []ymodel.Kind{
		ymodel.KindContact, ymodel.KindDefault, ymodel.KindDescription, ymodel.KindErrorAppTag,
		ymodel.KindErrorMessage, ymodel.KindNamespace, ymodel.KindOrganization, ymodel.KindPath,
		ymodel.KindPresence, ymodel.KindReference, ymodel.KindUnique, ymodel.KindUnits, ymodel.KindValue,
	} {
		leafSupport(k, nil)
	}
	leafSupport(ymodel.KindPrefix, identifierArg)
	leafSupport(ymodel.KindRevisionDate, revisionArg)
	leafSupport(ymodel.KindYangVersion, enumArg("1", "1.1"))
	for _, k := range []ymodel.Kind{ymodel.KindConfig, ymodel.KindMandatory, ymodel.KindRequireInstance, ymodel.KindYinElement} {
		leafSupport(k, enumArg("true", "false"))
	}
	leafSupport(ymodel.KindOrderedBy, enumArg("system", "user"))
	leafSupport(ymodel.KindStatus, enumArg("current", "deprecated", "obsolete"))
	leafSupport(ymodel.KindModifier, enumArg("invert-match"))
	leafSupport(ymodel.KindMinElements, intArg(0, false))
	leafSupport(ymodel.KindMaxElements, intArg(1, true))
	leafSupport(ymodel.KindFractionDigits, rangeArg(1, 18))
	leafSupport(ymodel.KindPosition, intArg(0, false))
}

func argError(c *stmtCtx, format string, args ...any) error {
	return ycommon.NewSourceError(c.ref, format, args...)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

func identifierArg(c *stmtCtx) error {
	if !isIdentifier(c.rawArg) {
		return argError(c, "%q is not a valid identifier for %s", c.rawArg, c.keyword)
	}
	return nil
}

// qnameArg binds the identifier argument to the module namespace.
func qnameArg(c *stmtCtx) error {
	if err := identifierArg(c); err != nil {
		return err
	}
	c.qname = ycommon.QName{Module: c.module(), Name: c.rawArg}
	return nil
}

func operationIOArg(c *stmtCtx) error {
	c.qname = ycommon.QName{Module: c.module(), Name: c.kind.String()}
	return nil
}

func typedefArg(c *stmtCtx) error {
	if err := qnameArg(c); err != nil {
		return err
	}
	if ymodel.BuiltinTypes[c.rawArg] {
		return argError(c, "typedef %s shadows a built-in type", c.rawArg)
	}
	return nil
}

func revisionArg(c *stmtCtx) error {
	if _, err := ycommon.ParseRevision(c.rawArg); err != nil {
		return argError(c, "%s: %v", c.keyword, err)
	}
	return nil
}

func enumArg(values ...string) func(c *stmtCtx) error {
	return func(c *stmtCtx) error {
		for _, v := range values {
			if c.rawArg == v {
				return nil
			}
		}
		return argError(c, "invalid %s argument %q, expected one of %s", c.keyword, c.rawArg, strings.Join(values, ", "))
	}
}

func intArg(lo int, allowUnbounded bool) func(c *stmtCtx) error {
	return func(c *stmtCtx) error {
		if allowUnbounded && c.rawArg == "unbounded" {
			return nil
		}
		n, err := strconv.Atoi(c.rawArg)
		if err != nil || n < lo {
			return argError(c, "invalid %s argument %q", c.keyword, c.rawArg)
		}
		return nil
	}
}

func rangeArg(lo, hi int) func(c *stmtCtx) error {
	return func(c *stmtCtx) error {
		n, err := strconv.Atoi(c.rawArg)
		if err != nil || n < lo || n > hi {
			return argError(c, "invalid %s argument %q, expected %d..%d", c.keyword, c.rawArg, lo, hi)
		}
		return nil
	}
}

// keyArg splits the key leaf names. A prefix, if present, must name the
// module itself.
func keyArg(c *stmtCtx) error {
	fields := strings.Fields(c.rawArg)
	if len(fields) == 0 {
		return argError(c, "empty key")
	}
	seen := map[string]bool{}
	for _, f := range fields {
		if _, local, ok := strings.Cut(f, ":"); ok {
			f = local
		}
		if !isIdentifier(f) {
			return argError(c, "invalid key leaf %q", f)
		}
		if seen[f] {
			return argError(c, "key leaf %s is listed twice", f)
		}
		seen[f] = true
		c.refs = append(c.refs, ycommon.QName{Module: c.module(), Name: f})
	}
	return nil
}
