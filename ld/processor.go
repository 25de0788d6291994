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
	"strings"
)

// JsonLdProcessor implements the JsonLdProcessor interface, see
// https://www.w3.org/TR/json-ld11-api/#the-jsonldprocessor-interface
type JsonLdProcessor struct { //nolint:stylecheck
}

// NewJsonLdProcessor creates an instance of JsonLdProcessor.
func NewJsonLdProcessor() *JsonLdProcessor { //nolint:stylecheck
	return &JsonLdProcessor{}
}

// Expand operation expands the given input according to the steps in the
// Expansion algorithm.
func (jldp *JsonLdProcessor) Expand(input interface{}, opts *JsonLdOptions) ([]interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}

	return jldp.expand(input, opts)
}

func (jldp *JsonLdProcessor) expand(input interface{}, opts *JsonLdOptions) ([]interface{}, error) {
	var remoteContext string

	// 2) a string input is dereferenced as a remote document
	if iri, isString := input.(string); isString && strings.Contains(iri, ":") {
		rd, err := opts.DocumentLoader.LoadDocument(iri, nil)
		if err != nil {
			return nil, err
		}
		if rd.Document == nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, iri)
		}
		input = rd.Document

		// the base option overrides the document's own URL
		if opts.Base == "" {
			opts.Base = rd.DocumentURL
		}
		remoteContext = rd.ContextURL
	}

	// 3)
	activeCtx := NewContext(opts)

	// 4)
	if opts.ExpandContext != nil {
		exCtx := CloneDocument(opts.ExpandContext)
		if exCtxMap, isMap := exCtx.(map[string]interface{}); isMap {
			if ctx, hasCtx := exCtxMap["@context"]; hasCtx {
				exCtx = ctx
			}
		}
		var err error
		if activeCtx, err = activeCtx.Parse(exCtx); err != nil {
			return nil, err
		}
	}

	// 5) a context delivered through an HTTP Link header applies on top
	if remoteContext != "" {
		var err error
		if activeCtx, err = activeCtx.Parse(remoteContext); err != nil {
			return nil, err
		}
	}

	// 6)
	api := NewJsonLdApi()
	expanded, err := api.Expand(activeCtx, "", input, opts, false)
	if err != nil {
		return nil, err
	}

	// 7-8) final normalization to an array
	if expandedMap, isMap := expanded.(map[string]interface{}); isMap {
		if graph, hasGraph := expandedMap["@graph"]; hasGraph && len(expandedMap) == 1 {
			expanded = graph
		} else if len(expandedMap) == 0 {
			expanded = nil
		}
	}
	if expanded == nil {
		return []interface{}{}, nil
	}
	if expandedList, isList := expanded.([]interface{}); isList {
		return expandedList, nil
	}
	return []interface{}{expanded}, nil
}

// Compact operation compacts the given input using the context according to
// the steps in the Compaction algorithm.
func (jldp *JsonLdProcessor) Compact(input interface{}, context interface{},
	opts *JsonLdOptions) (map[string]interface{}, error) {

	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}

	if inputStr, isString := input.(string); isString && opts.Base == "" {
		opts.Base = inputStr
	}

	expanded, err := jldp.expand(input, opts)
	if err != nil {
		return nil, err
	}

	// 5) unwrap a {"@context": ...} document
	context = CloneDocument(context)
	if contextMap, isMap := context.(map[string]interface{}); isMap {
		if innerCtx, hasCtx := contextMap["@context"]; hasCtx {
			context = innerCtx
		}
	}

	// 6) the compaction context invalidates any cached inverse index by
	// virtue of being freshly built
	activeCtx := NewContext(opts)
	if activeCtx, err = activeCtx.Parse(context); err != nil {
		return nil, err
	}

	// 7)
	api := NewJsonLdApi()
	compacted, err := api.Compact(activeCtx, "", expanded, opts)
	if err != nil {
		return nil, err
	}

	// 8) arrays at the top level live under (an alias of) @graph
	if compactedList, isList := compacted.([]interface{}); isList {
		if len(compactedList) == 0 {
			compacted = make(map[string]interface{})
		} else {
			graphAlias, err := activeCtx.CompactIri("@graph", nil, true, false)
			if err != nil {
				return nil, err
			}
			compacted = map[string]interface{}{graphAlias: compacted}
		}
	}

	compactedMap, isMap := compacted.(map[string]interface{})
	if isMap && len(compactedMap) > 0 {
		attachContext(compactedMap, context, opts)
	}
	return compactedMap, nil
}

func attachContext(compacted map[string]interface{}, context interface{}, opts *JsonLdOptions) {
	if contextList, isList := context.([]interface{}); isList {
		if len(contextList) == 0 {
			return
		}
		if len(contextList) == 1 && opts.CompactArrays {
			compacted["@context"] = contextList[0]
			return
		}
		compacted["@context"] = context
		return
	}
	if contextMap, isMap := context.(map[string]interface{}); isMap && len(contextMap) == 0 {
		return
	}
	if context == nil {
		return
	}
	compacted["@context"] = context
}

// Flatten operation flattens the given input and optionally compacts it using
// the passed context, according to the steps in the Flattening algorithm.
func (jldp *JsonLdProcessor) Flatten(input interface{}, context interface{}, opts *JsonLdOptions) (interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}

	if inputStr, isString := input.(string); isString && opts.Base == "" {
		opts.Base = inputStr
	}

	expanded, err := jldp.expand(input, opts)
	if err != nil {
		return nil, err
	}

	if contextMap, isMap := context.(map[string]interface{}); isMap {
		if innerCtx, hasCtx := contextMap["@context"]; hasCtx {
			context = innerCtx
		}
	}

	// 2-3) a fresh node map and blank node allocator per flatten run
	api := NewJsonLdApi()
	nodeMap := map[string]interface{}{
		"@default": make(map[string]interface{}),
	}
	issuer := NewIdentifierIssuer("_:b")
	if err := api.GenerateNodeMap(expanded, nodeMap, "@default", issuer, nil, "", nil); err != nil {
		return nil, err
	}

	flattened := api.flattenNodeMap(nodeMap)

	if context == nil || len(flattened) == 0 {
		return flattened, nil
	}

	// 8) compact the flattened output
	activeCtx := NewContext(opts)
	if activeCtx, err = activeCtx.Parse(context); err != nil {
		return nil, err
	}

	compacted, err := api.Compact(activeCtx, "", flattened, opts)
	if err != nil {
		return nil, err
	}

	graphAlias, err := activeCtx.CompactIri("@graph", nil, true, false)
	if err != nil {
		return nil, err
	}

	var rval map[string]interface{}
	if compactedMap, isMap := compacted.(map[string]interface{}); isMap {
		rval = compactedMap
	} else {
		rval = map[string]interface{}{graphAlias: compacted}
	}
	attachContext(rval, CloneDocument(context), opts)
	return rval, nil
}

var rdfSerializers = map[string]RDFSerializer{
	"application/n-quads": &NQuadRDFSerializer{},
	"application/nquads":  &NQuadRDFSerializer{}, // kept for backward compatibility
}

// ToRDF outputs the RDF dataset found in the given JSON-LD document. When the
// format option is set, the dataset is serialized to a string.
func (jldp *JsonLdProcessor) ToRDF(input interface{}, opts *JsonLdOptions) (interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}

	expanded, err := jldp.expand(input, opts)
	if err != nil {
		return nil, err
	}

	api := NewJsonLdApi()
	dataset, err := api.ToRDF(expanded, opts)
	if err != nil {
		return nil, err
	}

	if opts.Format != "" {
		serializer, hasSerializer := rdfSerializers[opts.Format]
		if !hasSerializer {
			return nil, NewJsonLdError(UnknownFormat, opts.Format)
		}
		return serializer.Serialize(dataset)
	}
	return dataset, nil
}

// FromRDF converts a serialized RDF dataset to a JSON-LD document in expanded
// form.
func (jldp *JsonLdProcessor) FromRDF(dataset interface{}, opts *JsonLdOptions) (interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}

	if _, isString := dataset.(string); opts.Format == "" && isString {
		opts.Format = "application/n-quads"
	}

	if opts.Format != "" {
		serializer, hasSerializer := rdfSerializers[opts.Format]
		if !hasSerializer {
			return nil, NewJsonLdError(UnknownFormat, opts.Format)
		}
		parsed, err := serializer.Parse(dataset)
		if err != nil {
			return nil, err
		}
		api := NewJsonLdApi()
		return api.FromRDF(parsed, opts)
	}

	rdfDataset, isDataset := dataset.(*RDFDataset)
	if !isDataset {
		return nil, NewJsonLdError(InvalidInput, "expected an *RDFDataset or a serialized string")
	}
	api := NewJsonLdApi()
	return api.FromRDF(rdfDataset, opts)
}
