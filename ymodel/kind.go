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

// Package ymodel contains the immutable effective model of a set of YANG
// modules: effective statements with their schema and data tree indices,
// modules, the schema context assembling them, and the schema inference
// stack used to walk it.
package ymodel

// Kind is the closed set of YANG statements known to the toolkit. Extension
// instances and unrecognized statements are KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindAction
	KindAnydata
	KindAnyxml
	KindArgument
	KindAugment
	KindBase
	KindBelongsTo
	KindBit
	KindCase
	KindChoice
	KindConfig
	KindContact
	KindContainer
	KindDefault
	KindDescription
	KindDeviate
	KindDeviation
	KindEnum
	KindErrorAppTag
	KindErrorMessage
	KindExtension
	KindFeature
	KindFractionDigits
	KindGrouping
	KindIdentity
	KindIfFeature
	KindImport
	KindInclude
	KindInput
	KindKey
	KindLeaf
	KindLeafList
	KindLength
	KindList
	KindMandatory
	KindMaxElements
	KindMinElements
	KindModifier
	KindModule
	KindMust
	KindNamespace
	KindNotification
	KindOrderedBy
	KindOrganization
	KindOutput
	KindPath
	KindPattern
	KindPosition
	KindPrefix
	KindPresence
	KindRange
	KindReference
	KindRefine
	KindRequireInstance
	KindRevision
	KindRevisionDate
	KindRPC
	KindStatus
	KindSubmodule
	KindType
	KindTypedef
	KindUnique
	KindUnits
	KindUses
	KindValue
	KindWhen
	KindYangVersion
	KindYinElement
)

var kindKeywords = map[Kind]string{
	KindUnknown:         "unknown",
	KindAction:          "action",
	KindAnydata:         "anydata",
	KindAnyxml:          "anyxml",
	KindArgument:        "argument",
	KindAugment:         "augment",
	KindBase:            "base",
	KindBelongsTo:       "belongs-to",
	KindBit:             "bit",
	KindCase:            "case",
	KindChoice:          "choice",
	KindConfig:          "config",
	KindContact:         "contact",
	KindContainer:       "container",
	KindDefault:         "default",
	KindDescription:     "description",
	KindDeviate:         "deviate",
	KindDeviation:       "deviation",
	KindEnum:            "enum",
	KindErrorAppTag:     "error-app-tag",
	KindErrorMessage:    "error-message",
	KindExtension:       "extension",
	KindFeature:         "feature",
	KindFractionDigits:  "fraction-digits",
	KindGrouping:        "grouping",
	KindIdentity:        "identity",
	KindIfFeature:       "if-feature",
	KindImport:          "import",
	KindInclude:         "include",
	KindInput:           "input",
	KindKey:             "key",
	KindLeaf:            "leaf",
	KindLeafList:        "leaf-list",
	KindLength:          "length",
	KindList:            "list",
	KindMandatory:       "mandatory",
	KindMaxElements:     "max-elements",
	KindMinElements:     "min-elements",
	KindModifier:        "modifier",
	KindModule:          "module",
	KindMust:            "must",
	KindNamespace:       "namespace",
	KindNotification:    "notification",
	KindOrderedBy:       "ordered-by",
	KindOrganization:    "organization",
	KindOutput:          "output",
	KindPath:            "path",
	KindPattern:         "pattern",
	KindPosition:        "position",
	KindPrefix:          "prefix",
	KindPresence:        "presence",
	KindRange:           "range",
	KindReference:       "reference",
	KindRefine:          "refine",
	KindRequireInstance: "require-instance",
	KindRevision:        "revision",
	KindRevisionDate:    "revision-date",
	KindRPC:             "rpc",
	KindStatus:          "status",
	KindSubmodule:       "submodule",
	KindType:            "type",
	KindTypedef:         "typedef",
	KindUnique:          "unique",
	KindUnits:           "units",
	KindUses:            "uses",
	KindValue:           "value",
	KindWhen:            "when",
	KindYangVersion:     "yang-version",
	KindYinElement:      "yin-element",
}

var keywordKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindKeywords))
	for k, v := range kindKeywords {
		if k != KindUnknown {
			m[v] = k
		}
	}
	return m
}()

// KindOf returns the Kind of an unprefixed core keyword, or KindUnknown.
func KindOf(keyword string) Kind {
	return keywordKinds[keyword]
}

// String returns the YANG keyword of k.
func (k Kind) String() string { return kindKeywords[k] }

// IsSchemaTree reports whether statements of kind k are schema tree nodes,
// identified by a QName argument within their parent.
func (k Kind) IsSchemaTree() bool {
	switch k {
	case KindContainer, KindLeaf, KindLeafList, KindList, KindChoice, KindCase,
		KindAnydata, KindAnyxml, KindRPC, KindAction, KindNotification, KindInput, KindOutput:
		return true
	}
	return false
}

// IsDataNode reports whether statements of kind k are data tree nodes. Choice
// and case are schema tree nodes but not data nodes.
func (k Kind) IsDataNode() bool {
	switch k {
	case KindContainer, KindLeaf, KindLeafList, KindList, KindAnydata, KindAnyxml:
		return true
	}
	return false
}

// IsDataDefinition reports whether k is a data-def-stmt of RFC7950 section 14.
func (k Kind) IsDataDefinition() bool {
	return k.IsDataNode() || k == KindChoice || k == KindUses
}

// HasQNameArgument reports whether the argument of statements of kind k is
// bound to the namespace of the defining module.
func (k Kind) HasQNameArgument() bool {
	if k.IsSchemaTree() {
		return true
	}
	switch k {
	case KindGrouping, KindTypedef, KindIdentity, KindFeature, KindExtension:
		return true
	}
	return false
}

// BuiltinTypes are the YANG built-in type names of RFC7950 section 4.2.4.
var BuiltinTypes = map[string]bool{
	"binary":              true,
	"bits":                true,
	"boolean":             true,
	"decimal64":           true,
	"empty":               true,
	"enumeration":         true,
	"identityref":         true,
	"instance-identifier": true,
	"int8":                true,
	"int16":               true,
	"int32":               true,
	"int64":               true,
	"leafref":             true,
	"string":              true,
	"uint8":               true,
	"uint16":              true,
	"uint32":              true,
	"uint64":              true,
	"union":               true,
}
