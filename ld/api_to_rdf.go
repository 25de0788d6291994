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
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/datagraphs/ldproc/ld/internal/jcs"
)

// ToRDF deserializes an expanded JSON-LD document into an RDF dataset.
// See https://www.w3.org/TR/json-ld11-api/#deserialize-json-ld-to-rdf-algorithm
func (api *JsonLdApi) ToRDF(input interface{}, opts *JsonLdOptions) (*RDFDataset, error) {
	issuer := NewIdentifierIssuer("_:b")

	nodeMap := map[string]interface{}{
		"@default": make(map[string]interface{}),
	}
	if err := api.GenerateNodeMap(input, nodeMap, "@default", issuer, nil, "", nil); err != nil {
		return nil, err
	}

	dataset := NewRDFDataset()
	for _, graphName := range GetOrderedKeys(nodeMap) {
		// relative graph names have no RDF representation
		if IsRelativeIri(graphName) {
			continue
		}
		graph := nodeMap[graphName].(map[string]interface{})
		quads, err := api.graphToRDF(graphName, graph, issuer, opts)
		if err != nil {
			return nil, err
		}
		dataset.Graphs[graphName] = quads
	}

	return dataset, nil
}

// graphToRDF creates the quads for one graph of the node map.
func (api *JsonLdApi) graphToRDF(graphName string, graph map[string]interface{},
	issuer *IdentifierIssuer, opts *JsonLdOptions) ([]*Quad, error) {

	triples := make([]*Quad, 0)

	for _, id := range GetOrderedKeys(graph) {
		if IsRelativeIri(id) {
			continue
		}
		node := graph[id].(map[string]interface{})

		for _, property := range GetOrderedKeys(node) {
			var values []interface{}
			switch {
			case property == "@type":
				values = Arrayify(node["@type"])
				property = RDFType
			case IsKeyword(property):
				continue
			case IsBlankNodeIdentifier(property) && !opts.ProduceGeneralizedRdf:
				continue
			case IsRelativeIri(property):
				continue
			default:
				values = Arrayify(node[property])
			}

			var subject Node
			if IsBlankNodeIdentifier(id) {
				subject = NewBlankNode(id)
			} else {
				subject = NewIRI(id)
			}

			var predicate Node
			if IsBlankNodeIdentifier(property) {
				predicate = NewBlankNode(property)
			} else {
				predicate = NewIRI(property)
			}

			for _, item := range values {
				object, err := api.objectToRDF(item, issuer, graphName, &triples, opts)
				if err != nil {
					return nil, err
				}
				if object != nil {
					triples = append(triples, NewQuad(subject, predicate, object, graphName))
				}
			}
		}
	}

	// drop statements with ill-formed nodes
	sanitized := make([]*Quad, 0, len(triples))
	for _, t := range triples {
		if t.Valid() {
			sanitized = append(sanitized, t)
		}
	}
	return sanitized, nil
}

// objectToRDF converts a JSON-LD value to an RDF node, appending any triples
// a list or compound literal requires. A nil node means the value has no RDF
// representation and is dropped.
// See https://www.w3.org/TR/json-ld11-api/#object-to-rdf-conversion
func (api *JsonLdApi) objectToRDF(item interface{}, issuer *IdentifierIssuer, graphName string,
	triples *[]*Quad, opts *JsonLdOptions) (Node, error) {

	// @type values arrive as bare strings
	if idStr, isString := item.(string); isString {
		if IsRelativeIri(idStr) {
			return nil, nil
		}
		if IsBlankNodeIdentifier(idStr) {
			return NewBlankNode(idStr), nil
		}
		return NewIRI(idStr), nil
	}

	// node objects and references become IRI or blank node terms
	if IsSubject(item) || IsSubjectReference(item) {
		id, _ := item.(map[string]interface{})["@id"].(string)
		if IsRelativeIri(id) {
			return nil, nil
		}
		if IsBlankNodeIdentifier(id) {
			return NewBlankNode(id), nil
		}
		return NewIRI(id), nil
	}

	if IsList(item) {
		return api.listToRDF(Arrayify(item.(map[string]interface{})["@list"]), issuer, graphName, triples, opts)
	}

	itemMap, isMap := item.(map[string]interface{})
	if !isMap {
		return nil, nil
	}

	value := itemMap["@value"]
	datatype, _ := itemMap["@type"].(string)
	language, hasLanguage := itemMap["@language"].(string)
	direction, hasDirection := itemMap["@direction"].(string)

	switch {
	case datatype == "@json":
		canonical, err := jcs.Canonicalize(value)
		if err != nil {
			return nil, NewJsonLdError(InvalidInput, err)
		}
		return NewLiteral(canonical, RDFJSONLiteral, ""), nil

	case value == true || value == false:
		lexical := "false"
		if value == true {
			lexical = "true"
		}
		if datatype == "" {
			datatype = XSDBoolean
		}
		return NewLiteral(lexical, datatype, ""), nil
	}

	if f, isDouble, isNumber := numericValue(value); isNumber {
		if isDouble || datatype == XSDDouble {
			if datatype == "" {
				datatype = XSDDouble
			}
			return NewLiteral(GetCanonicalDouble(f), datatype, ""), nil
		}
		if datatype == "" {
			datatype = XSDInteger
		}
		return NewLiteral(fmt.Sprintf("%d", int64(f)), datatype, ""), nil
	}

	lexical, _ := value.(string)

	if hasDirection && opts.RdfDirection == RdfDirectionI18N {
		return NewLiteral(lexical, I18NNS+strings.ToLower(language)+"_"+direction, ""), nil
	}

	if hasDirection && opts.RdfDirection == RdfDirectionCompoundLiteral {
		// a compound literal reifies value, language and direction on a
		// fresh blank node
		bnode := NewBlankNode(issuer.GetId(""))
		*triples = append(*triples, NewQuad(bnode, NewIRI(RDFValue), NewLiteral(lexical, XSDString, ""), graphName))
		if hasLanguage {
			*triples = append(*triples, NewQuad(bnode, NewIRI(RDFLanguage),
				NewLiteral(strings.ToLower(language), XSDString, ""), graphName))
		}
		*triples = append(*triples, NewQuad(bnode, NewIRI(RDFDirection), NewLiteral(direction, XSDString, ""), graphName))
		return bnode, nil
	}

	if hasLanguage {
		if datatype == "" {
			datatype = RDFLangString
		}
		return NewLiteral(lexical, datatype, language), nil
	}

	return NewLiteral(lexical, datatype, ""), nil
}

// listToRDF converts a list into an rdf:first/rdf:rest chain, returning the
// head node.
// See https://www.w3.org/TR/json-ld11-api/#list-to-rdf-conversion
func (api *JsonLdApi) listToRDF(list []interface{}, issuer *IdentifierIssuer, graphName string,
	triples *[]*Quad, opts *JsonLdOptions) (Node, error) {

	if len(list) == 0 {
		return NewIRI(RDFNil), nil
	}

	bnodes := make([]string, len(list))
	for i := range list {
		bnodes[i] = issuer.GetId("")
	}

	for i, item := range list {
		subject := NewBlankNode(bnodes[i])

		object, err := api.objectToRDF(item, issuer, graphName, triples, opts)
		if err != nil {
			return nil, err
		}
		if object != nil {
			*triples = append(*triples, NewQuad(subject, NewIRI(RDFFirst), object, graphName))
		}

		var rest Node
		if i == len(list)-1 {
			rest = NewIRI(RDFNil)
		} else {
			rest = NewBlankNode(bnodes[i+1])
		}
		*triples = append(*triples, NewQuad(subject, NewIRI(RDFRest), rest, graphName))
	}

	return NewBlankNode(bnodes[0]), nil
}

// numericValue reports whether value is a JSON number, and whether it must be
// represented as an xsd:double.
func numericValue(value interface{}) (float64, bool, bool) {
	switch v := value.(type) {
	case float64:
		return v, v != float64(int64(v)) || v >= 1e21 || v <= -1e21, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false, false
		}
		s := v.String()
		isDouble := strings.ContainsAny(s, ".eE") || f >= 1e21 || f <= -1e21
		return f, isDouble, true
	case int:
		return float64(v), false, true
	case int64:
		return float64(v), false, true
	default:
		return 0, false, false
	}
}

var canonicalDoubleRegEx = regexp.MustCompile(`(\d)0*E\+?0*(\d)`)

// GetCanonicalDouble returns the canonical lexical form of an xsd:double.
func GetCanonicalDouble(v float64) string {
	return canonicalDoubleRegEx.ReplaceAllString(fmt.Sprintf("%1.15E", v), "${1}E${2}")
}
