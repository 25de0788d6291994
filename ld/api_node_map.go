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

// GenerateNodeMap builds a graph-indexed node map from an expanded document.
// See https://www.w3.org/TR/json-ld11-api/#node-map-generation
//
// activeSubject is either a subject identifier string, or a subject reference
// map when a reverse relationship is being recorded. list, when non-nil, is
// the pending list object collecting values.
func (api *JsonLdApi) GenerateNodeMap(element interface{}, nodeMap map[string]interface{},
	activeGraph string, issuer *IdentifierIssuer, activeSubject interface{}, activeProperty string,
	list map[string]interface{}) error {

	// 1)
	if elementList, isList := element.([]interface{}); isList {
		for _, item := range elementList {
			if err := api.GenerateNodeMap(item, nodeMap, activeGraph, issuer, activeSubject, activeProperty, list); err != nil {
				return err
			}
		}
		return nil
	}

	// 2)
	elem, isMap := element.(map[string]interface{})
	if !isMap {
		if list != nil {
			list["@list"] = append(list["@list"].([]interface{}), element)
		}
		return nil
	}

	graph := setDefault(nodeMap, activeGraph, make(map[string]interface{})).(map[string]interface{})

	var subjectNode map[string]interface{}
	if subjectID, isString := activeSubject.(string); isString {
		subjectNode, _ = graph[subjectID].(map[string]interface{})
	}

	// 3) relabel blank node types
	if typeVal, hasType := elem["@type"]; hasType {
		relabeled := make([]interface{}, 0, 1)
		for _, t := range Arrayify(typeVal) {
			typeStr, isString := t.(string)
			if isString && IsBlankNodeIdentifier(typeStr) {
				typeStr = issuer.GetId(typeStr)
			}
			if isString {
				relabeled = append(relabeled, typeStr)
			} else {
				relabeled = append(relabeled, t)
			}
		}
		if _, isArray := typeVal.([]interface{}); isArray {
			elem["@type"] = relabeled
		} else if len(relabeled) == 1 {
			elem["@type"] = relabeled[0]
		}
	}

	// 4) value objects attach to the active property directly
	if IsValue(elem) {
		if list == nil {
			if subjectNode != nil {
				AddValue(subjectNode, activeProperty, elem, true, false, false)
			}
		} else {
			list["@list"] = append(list["@list"].([]interface{}), elem)
		}
		return nil
	}

	// 5) list objects collect through a fresh list sink
	if IsList(elem) {
		result := map[string]interface{}{"@list": make([]interface{}, 0)}
		if err := api.GenerateNodeMap(elem["@list"], nodeMap, activeGraph, issuer, activeSubject, activeProperty, result); err != nil {
			return err
		}
		if indexVal, hasIndex := elem["@index"]; hasIndex {
			result["@index"] = indexVal
		}
		if list == nil {
			if subjectNode != nil {
				AddValue(subjectNode, activeProperty, result, true, false, true)
			}
		} else {
			list["@list"] = append(list["@list"].([]interface{}), result)
		}
		return nil
	}

	// 6) element is a node object
	var id string
	if idVal, hasID := elem["@id"]; hasID {
		id, _ = idVal.(string)
		if IsBlankNodeIdentifier(id) {
			id = issuer.GetId(id)
		}
	} else {
		id = issuer.GetId("")
	}

	node := setDefault(graph, id, map[string]interface{}{"@id": id}).(map[string]interface{})

	// 6.5) a map-valued active subject records a reverse relationship
	if subjectRef, isMap := activeSubject.(map[string]interface{}); isMap {
		AddValue(node, activeProperty, subjectRef, true, false, false)
	} else if activeProperty != "" {
		reference := map[string]interface{}{"@id": id}
		if list == nil {
			if subjectNode != nil {
				AddValue(subjectNode, activeProperty, reference, true, false, false)
			}
		} else {
			list["@list"] = append(list["@list"].([]interface{}), reference)
		}
	}

	// 6.7)
	if typeVal, hasType := elem["@type"]; hasType {
		for _, t := range Arrayify(typeVal) {
			AddValue(node, "@type", t, true, false, false)
		}
	}

	// 6.8)
	if indexVal, hasIndex := elem["@index"]; hasIndex {
		if existing, present := node["@index"]; present && !DeepCompare(existing, indexVal, true) {
			return NewJsonLdError(ConflictingIndexes, id)
		}
		node["@index"] = indexVal
	}

	// 6.9) reverse entries flow back as inverse edges
	if reverseVal, hasReverse := elem["@reverse"]; hasReverse {
		referencedNode := map[string]interface{}{"@id": id}
		reverseMap := reverseVal.(map[string]interface{})
		for _, property := range GetOrderedKeys(reverseMap) {
			for _, value := range Arrayify(reverseMap[property]) {
				if err := api.GenerateNodeMap(value, nodeMap, activeGraph, issuer, referencedNode, property, nil); err != nil {
					return err
				}
			}
		}
	}

	// 6.10) named graphs recurse with this node's id as the graph name
	if graphVal, hasGraph := elem["@graph"]; hasGraph {
		setDefault(nodeMap, id, make(map[string]interface{}))
		if err := api.GenerateNodeMap(graphVal, nodeMap, id, issuer, nil, "", nil); err != nil {
			return err
		}
	}

	// 6.11) included nodes stay in the active graph
	if includedVal, hasIncluded := elem["@included"]; hasIncluded {
		if err := api.GenerateNodeMap(includedVal, nodeMap, activeGraph, issuer, nil, "", nil); err != nil {
			return err
		}
	}

	// 6.12)
	for _, property := range GetOrderedKeys(elem) {
		switch property {
		case "@id", "@type", "@index", "@reverse", "@graph", "@included":
			continue
		}
		value := elem[property]

		if IsBlankNodeIdentifier(property) {
			property = issuer.GetId(property)
		}
		if _, present := node[property]; !present {
			node[property] = make([]interface{}, 0)
		}
		if err := api.GenerateNodeMap(value, nodeMap, activeGraph, issuer, id, property, nil); err != nil {
			return err
		}
	}

	return nil
}

func setDefault(m map[string]interface{}, key string, val interface{}) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	m[key] = val
	return val
}

// flattenNodeMap turns a completed node map into the flattened form: graphs
// in lexicographic order with the default graph first, nodes ordered by id,
// subject references skipped.
func (api *JsonLdApi) flattenNodeMap(nodeMap map[string]interface{}) []interface{} {
	defaultGraph, _ := nodeMap["@default"].(map[string]interface{})
	if defaultGraph == nil {
		defaultGraph = make(map[string]interface{})
	}

	for _, graphName := range GetOrderedKeys(nodeMap) {
		if graphName == "@default" {
			continue
		}
		graph := nodeMap[graphName].(map[string]interface{})

		entry, present := defaultGraph[graphName].(map[string]interface{})
		if !present {
			entry = map[string]interface{}{"@id": graphName}
			defaultGraph[graphName] = entry
		}
		graphNodes, _ := entry["@graph"].([]interface{})
		if graphNodes == nil {
			graphNodes = make([]interface{}, 0)
		}
		for _, id := range GetOrderedKeys(graph) {
			node := graph[id].(map[string]interface{})
			if !IsSubjectReference(node) {
				graphNodes = append(graphNodes, node)
			}
		}
		entry["@graph"] = graphNodes
	}

	flattened := make([]interface{}, 0, len(defaultGraph))
	for _, id := range GetOrderedKeys(defaultGraph) {
		node := defaultGraph[id].(map[string]interface{})
		if !IsSubjectReference(node) {
			flattened = append(flattened, node)
		}
	}
	return flattened
}
