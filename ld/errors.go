// Copyright 2021-2025 Datagraphs Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"fmt"
)

// ErrorCode is a JSON-LD error code as per spec.
type ErrorCode string

// Error codes raised by context processing and term definition creation.
const (
	InvalidLocalContext         ErrorCode = "invalid local context"
	InvalidRemoteContext        ErrorCode = "invalid remote context"
	LoadingDocumentFailed       ErrorCode = "loading document failed"
	LoadingRemoteContextFailed  ErrorCode = "loading remote context failed"
	ContextOverflow             ErrorCode = "context overflow"
	InvalidBaseIRI              ErrorCode = "invalid base IRI"
	InvalidVocabMapping         ErrorCode = "invalid vocab mapping"
	InvalidDefaultLanguage      ErrorCode = "invalid default language"
	InvalidBaseDirection        ErrorCode = "invalid base direction"
	InvalidContextEntry         ErrorCode = "invalid context entry"
	InvalidContextNullification ErrorCode = "invalid context nullification"
	InvalidVersionValue         ErrorCode = "invalid @version value"
	InvalidImportValue          ErrorCode = "invalid @import value"
	InvalidPropagateValue       ErrorCode = "invalid @propagate value"
	ProcessingModeConflict      ErrorCode = "processing mode conflict"
	CyclicIRIMapping            ErrorCode = "cyclic IRI mapping"
	InvalidTermDefinition       ErrorCode = "invalid term definition"
	KeywordRedefinition         ErrorCode = "keyword redefinition"
	InvalidTypeMapping          ErrorCode = "invalid type mapping"
	InvalidReverseProperty      ErrorCode = "invalid reverse property"
	InvalidIRIMapping           ErrorCode = "invalid IRI mapping"
	InvalidKeywordAlias         ErrorCode = "invalid keyword alias"
	InvalidContainerMapping     ErrorCode = "invalid container mapping"
	InvalidScopedContext        ErrorCode = "invalid scoped context"
	InvalidLanguageMapping      ErrorCode = "invalid language mapping"
	InvalidNestValue            ErrorCode = "invalid @nest value"
	InvalidPrefixValue          ErrorCode = "invalid @prefix value"
	ProtectedTermRedefinition   ErrorCode = "protected term redefinition"
	IRIConfusedWithPrefix       ErrorCode = "IRI confused with prefix"
)

// Error codes raised by the expansion and compaction algorithms.
const (
	CollidingKeywords           ErrorCode = "colliding keywords"
	InvalidIDValue              ErrorCode = "invalid @id value"
	InvalidTypeValue            ErrorCode = "invalid type value"
	InvalidValueObject          ErrorCode = "invalid value object"
	InvalidValueObjectValue     ErrorCode = "invalid value object value"
	InvalidTypedValue           ErrorCode = "invalid typed value"
	InvalidLanguageTaggedValue  ErrorCode = "invalid language-tagged value"
	InvalidLanguageTaggedString ErrorCode = "invalid language-tagged string"
	InvalidLanguageMapValue     ErrorCode = "invalid language map value"
	InvalidIndexValue           ErrorCode = "invalid @index value"
	InvalidReverseValue         ErrorCode = "invalid @reverse value"
	InvalidReversePropertyValue ErrorCode = "invalid reverse property value"
	InvalidReversePropertyMap   ErrorCode = "invalid reverse property map"
	InvalidSetOrListObject      ErrorCode = "invalid set or list object"
	InvalidIncludedValue        ErrorCode = "invalid @included value"
	ConflictingIndexes          ErrorCode = "conflicting indexes"
)

// Error codes outside the core algorithm vocabulary.
const (
	MultipleContextLinkHeaders ErrorCode = "multiple context link headers"
	UnknownFormat              ErrorCode = "unknown format"
	InvalidInput               ErrorCode = "invalid input"
	IOError                    ErrorCode = "io error"
)

// Warning codes surfaced through JsonLdOptions.WarningHandler. Warnings never
// stop processing.
const (
	ReservedTermUsed     ErrorCode = "reserved term used"
	MalformedLanguageTag ErrorCode = "malformed language tag"
)

// JsonLdError is a JSON-LD error as defined in the spec. The Code values are
// the stable identifiers that test suites assert on.
type JsonLdError struct { //nolint:stylecheck
	Code    ErrorCode
	Details interface{}
}

func (e JsonLdError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return fmt.Sprintf("%v", e.Code)
}

// Unwrap returns JsonLdError.Details if it is an error, otherwise nil.
func (e JsonLdError) Unwrap() error {
	cause, _ := e.Details.(error)
	return cause
}

// NewJsonLdError creates a new instance of JsonLdError.
func NewJsonLdError(code ErrorCode, details interface{}) *JsonLdError { //nolint:stylecheck
	return &JsonLdError{Code: code, Details: details}
}
