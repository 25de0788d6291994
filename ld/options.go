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

// Processing modes. The default is JSON-LD 1.1; 1.0 mode disables @import,
// @nest, @prefix, scoped contexts, @direction, @included, @json and @none
// typing, and @protected.
const (
	JsonLd_1_0 = "json-ld-1.0" //nolint:stylecheck
	JsonLd_1_1 = "json-ld-1.1" //nolint:stylecheck
)

// RDF direction representation options.
const (
	RdfDirectionI18N            = "i18n-datatype"
	RdfDirectionCompoundLiteral = "compound-literal"
)

// WarningHandler receives non-fatal conditions such as reserved @-tokens and
// ill-formed BCP-47 language tags. Warnings never stop processing.
type WarningHandler func(code ErrorCode, details interface{})

// JsonLdOptions type as specified in the JSON-LD API specification:
// https://www.w3.org/TR/json-ld11-api/#the-jsonldoptions-type
type JsonLdOptions struct { //nolint:stylecheck
	Base              string
	CompactArrays     bool
	CompactToRelative bool
	DocumentLoader    DocumentLoader
	ExpandContext     interface{}
	FrameExpansion    bool
	// Ordered requests lexicographically ordered processing. Map entries are
	// always visited in lexicographic order here, so output is deterministic
	// either way.
	Ordered        bool
	ProcessingMode string

	// RDF conversion options
	ProduceGeneralizedRdf bool
	RdfDirection          string
	UseNativeTypes        bool
	UseRdfType            bool

	// Format selects the RDF string format for ToRDF/FromRDF entry points,
	// e.g. "application/n-quads".
	Format string

	WarningHandler WarningHandler
}

// NewJsonLdOptions creates and returns a new instance of JsonLdOptions with
// the given base.
func NewJsonLdOptions(base string) *JsonLdOptions { //nolint:stylecheck
	return &JsonLdOptions{
		Base:              base,
		CompactArrays:     true,
		CompactToRelative: true,
		DocumentLoader:    NewDefaultDocumentLoader(nil),
		ProcessingMode:    JsonLd_1_1,
	}
}

// Copy creates a copy of this JsonLdOptions object.
func (opt *JsonLdOptions) Copy() *JsonLdOptions {
	clone := *opt
	return &clone
}

func (opt *JsonLdOptions) warn(code ErrorCode, details interface{}) {
	if opt.WarningHandler != nil {
		opt.WarningHandler(code, details)
	}
}
