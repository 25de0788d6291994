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
	"sort"
	"strings"
)

// listUsage records one reference to a (potential) list node: the node and
// property it was referenced from, and the reference value itself, which is
// rewritten in place when a well-formed list collapses to @list.
type listUsage struct {
	node     map[string]interface{}
	property string
	value    map[string]interface{}
}

// FromRDF serializes an RDF dataset as a JSON-LD document in expanded form.
// See https://www.w3.org/TR/json-ld11-api/#serialize-rdf-as-json-ld-algorithm
func (api *JsonLdApi) FromRDF(dataset *RDFDataset, opts *JsonLdOptions) ([]interface{}, error) {
	defaultGraph := make(map[string]interface{})
	graphMap := map[string]map[string]interface{}{"@default": defaultGraph}

	// referencedOnce[id] is the single usage of id, or nil once a second
	// reference appears
	referencedOnce := make(map[string]*listUsage)
	referenceSeen := make(map[string]bool)
	nilUsages := make(map[string][]*listUsage)
	compoundSubjects := make(map[string]map[string]bool)

	graphNames := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		graphNames = append(graphNames, name)
	}
	sort.Strings(graphNames)

	// 3+4) populate per-graph node maps
	for _, name := range graphNames {
		triples := dataset.Graphs[name]

		nodeMap, present := graphMap[name]
		if !present {
			nodeMap = make(map[string]interface{})
			graphMap[name] = nodeMap
		}
		if name != "@default" {
			setDefault(defaultGraph, name, map[string]interface{}{"@id": name})
		}

		for _, quad := range triples {
			subject := quad.Subject.GetValue()
			predicate := quad.Predicate.GetValue()
			object := quad.Object

			if opts.RdfDirection == RdfDirectionCompoundLiteral && predicate == RDFDirection {
				if compoundSubjects[name] == nil {
					compoundSubjects[name] = make(map[string]bool)
				}
				compoundSubjects[name][subject] = true
			}

			node := setDefault(nodeMap, subject, map[string]interface{}{"@id": subject}).(map[string]interface{})

			objectIsResource := IsIRINode(object) || IsBlankNode(object)
			if objectIsResource {
				setDefault(nodeMap, object.GetValue(), map[string]interface{}{"@id": object.GetValue()})
			}

			if predicate == RDFType && !opts.UseRdfType && objectIsResource {
				AddValue(node, "@type", object.GetValue(), true, false, false)
				continue
			}

			value, err := api.rdfToObject(object, opts)
			if err != nil {
				return nil, err
			}

			AddValue(node, predicate, value, true, false, false)

			// list bookkeeping for later @list folding
			if objectIsResource {
				objectID := object.GetValue()
				if objectID == RDFNil {
					nilUsages[name] = append(nilUsages[name], &listUsage{node: node, property: predicate, value: value})
				} else if referenceSeen[objectID] {
					referencedOnce[objectID] = nil
				} else {
					referenceSeen[objectID] = true
					referencedOnce[objectID] = &listUsage{node: node, property: predicate, value: value}
				}
			}
		}
	}

	// 5) fold compound literals back into value objects
	for _, name := range graphNames {
		nodeMap := graphMap[name]
		for cl := range compoundSubjects[name] {
			usage := referencedOnce[cl]
			if usage == nil {
				continue
			}
			clNode, _ := nodeMap[cl].(map[string]interface{})
			if clNode == nil {
				continue
			}
			delete(nodeMap, cl)

			value := usage.value
			delete(value, "@id")
			if values, present := clNode[RDFValue].([]interface{}); present && len(values) > 0 {
				if vo, isMap := values[0].(map[string]interface{}); isMap {
					value["@value"] = vo["@value"]
				}
			}
			if languages, present := clNode[RDFLanguage].([]interface{}); present && len(languages) > 0 {
				if vo, isMap := languages[0].(map[string]interface{}); isMap {
					if langStr, isString := vo["@value"].(string); isString {
						value["@language"] = strings.ToLower(langStr)
					}
				}
			}
			if directions, present := clNode[RDFDirection].([]interface{}); present && len(directions) > 0 {
				if vo, isMap := directions[0].(map[string]interface{}); isMap {
					value["@direction"] = vo["@value"]
				}
			}
		}
	}

	// 6) collapse well-formed rdf:first/rdf:rest chains into @list
	for _, name := range graphNames {
		nodeMap := graphMap[name]
		for _, usage := range nilUsages[name] {
			node, property, head := usage.node, usage.property, usage.value

			list := make([]interface{}, 0)
			listNodes := make([]string, 0)

			for property == RDFRest && isWellFormedListNode(node) {
				id, _ := node["@id"].(string)
				if !IsBlankNodeIdentifier(id) {
					break
				}
				nodeUsage := referencedOnce[id]
				if nodeUsage == nil {
					break
				}
				list = append(list, node[RDFFirst].([]interface{})[0])
				listNodes = append(listNodes, id)

				node, property, head = nodeUsage.node, nodeUsage.property, nodeUsage.value
			}

			// reverse the collected tail-to-head items
			for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
				list[i], list[j] = list[j], list[i]
			}

			delete(head, "@id")
			head["@list"] = list
			for _, id := range listNodes {
				delete(nodeMap, id)
			}
		}
	}

	// 7+8) assemble the expanded output
	result := make([]interface{}, 0, len(defaultGraph))
	for _, subject := range GetOrderedKeys(defaultGraph) {
		node := defaultGraph[subject].(map[string]interface{})

		if graph, isNamedGraph := graphMap[subject]; isNamedGraph {
			graphNodes := make([]interface{}, 0, len(graph))
			for _, s := range GetOrderedKeys(graph) {
				n := graph[s].(map[string]interface{})
				if !IsSubjectReference(n) {
					graphNodes = append(graphNodes, n)
				}
			}
			node["@graph"] = graphNodes
		}

		if !IsSubjectReference(node) {
			result = append(result, node)
		}
	}
	return result, nil
}

func isWellFormedListNode(node map[string]interface{}) bool {
	keys := 0
	if first, present := node[RDFFirst]; present {
		keys++
		if firstList, isList := first.([]interface{}); !isList || len(firstList) != 1 {
			return false
		}
	} else {
		return false
	}
	if rest, present := node[RDFRest]; present {
		keys++
		if restList, isList := rest.([]interface{}); !isList || len(restList) != 1 {
			return false
		}
	} else {
		return false
	}
	if types, present := node["@type"]; present {
		keys++
		typeList, isList := types.([]interface{})
		if !isList || len(typeList) != 1 || typeList[0] != RDFList {
			return false
		}
	}
	if _, present := node["@id"]; present {
		keys++
	}
	return keys >= len(node)
}

// rdfToObject converts an RDF node into a JSON-LD value in expanded form.
// See https://www.w3.org/TR/json-ld11-api/#rdf-to-object-conversion
func (api *JsonLdApi) rdfToObject(n Node, opts *JsonLdOptions) (map[string]interface{}, error) {
	if IsIRINode(n) || IsBlankNode(n) {
		return map[string]interface{}{"@id": n.GetValue()}, nil
	}

	literal := n.(*Literal)
	result := make(map[string]interface{})

	// JSON literals carry their parsed value
	if literal.Datatype == RDFJSONLiteral && opts.ProcessingMode != JsonLd_1_0 {
		var parsed interface{}
		dec := json.NewDecoder(strings.NewReader(literal.Value))
		dec.UseNumber()
		if err := dec.Decode(&parsed); err != nil {
			return nil, NewJsonLdError(InvalidInput, err)
		}
		result["@value"] = parsed
		result["@type"] = "@json"
		return result, nil
	}

	// i18n datatypes restore language and direction
	if strings.HasPrefix(literal.Datatype, I18NNS) && opts.RdfDirection == RdfDirectionI18N {
		result["@value"] = literal.Value
		langDir := literal.Datatype[len(I18NNS):]
		if underscore := strings.Index(langDir, "_"); underscore >= 0 {
			if lang := langDir[:underscore]; lang != "" {
				result["@language"] = lang
			}
			result["@direction"] = langDir[underscore+1:]
		}
		return result, nil
	}

	if opts.UseNativeTypes {
		switch literal.Datatype {
		case XSDString:
			result["@value"] = literal.Value
			return result, nil
		case XSDBoolean:
			switch literal.Value {
			case "true":
				result["@value"] = true
				return result, nil
			case "false":
				result["@value"] = false
				return result, nil
			}
		case XSDInteger, XSDDouble:
			num := json.Number(literal.Value)
			if _, err := num.Float64(); err == nil {
				result["@value"] = num
				return result, nil
			}
		}
	}

	result["@value"] = literal.Value
	if literal.Language != "" {
		result["@language"] = literal.Language
	} else if literal.Datatype != "" && literal.Datatype != XSDString {
		result["@type"] = literal.Datatype
	}
	return result, nil
}
