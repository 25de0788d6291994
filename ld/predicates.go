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
	"regexp"
	"strings"
)

// Shape predicates over the JSON-LD internal representation. All of these are
// pure and total: any JSON value may be passed in.

// IsValue returns true if the given value is a value object, i.e. a map
// containing @value.
func IsValue(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsValue := vMap["@value"]
	return isMap && containsValue
}

// IsList returns true if the given value is a list object, i.e. a map
// containing @list.
func IsList(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsList := vMap["@list"]
	return isMap && containsList
}

// IsGraph returns true if the given value is a graph object: a map with an
// @graph entry whose only other entries, if any, are @id and @index.
func IsGraph(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	if _, containsGraph := vMap["@graph"]; !containsGraph {
		return false
	}
	for k := range vMap {
		if k != "@graph" && k != "@id" && k != "@index" {
			return false
		}
	}
	return true
}

// IsSimpleGraph returns true if the given value is a graph object without @id.
func IsSimpleGraph(v interface{}) bool {
	vMap, _ := v.(map[string]interface{})
	_, containsID := vMap["@id"]
	return IsGraph(v) && !containsID
}

// IsSubjectReference returns true if the given value is a map whose sole key
// is @id.
func IsSubjectReference(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsID := vMap["@id"]
	return isMap && len(vMap) == 1 && containsID
}

// IsSubject returns true if the given value is a node object: a map that is
// not a value, list, set or graph object, and either has more than one key or
// its single key is not @id.
func IsSubject(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	_, containsValue := vMap["@value"]
	_, containsSet := vMap["@set"]
	_, containsList := vMap["@list"]
	if containsValue || containsSet || containsList || IsGraph(v) {
		return false
	}
	_, containsID := vMap["@id"]
	return len(vMap) > 1 || !containsID
}

// IsBlankNodeValue returns true if the given value is a blank node: a map
// whose @id, if present, starts with "_:", or which has no keys, or which has
// keys other than @value, @set and @list.
//
// Note that a map without @id may still be given a fresh identifier by the
// flattening algorithm regardless of this predicate.
func IsBlankNodeValue(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	if id, containsID := vMap["@id"]; containsID {
		idStr, isString := id.(string)
		return isString && strings.HasPrefix(idStr, "_:")
	}
	if len(vMap) == 0 {
		return true
	}
	for k := range vMap {
		if k != "@value" && k != "@set" && k != "@list" {
			return true
		}
	}
	return false
}

// IsBlankNodeIdentifier returns true if the given string has the blank node
// identifier prefix "_:".
func IsBlankNodeIdentifier(value string) bool {
	return strings.HasPrefix(value, "_:")
}

var absoluteIRIPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+\-.]*|_):[^\s]*$`)

// IsAbsoluteIri returns true if the given value matches scheme-prefixed
// absolute IRI syntax. Blank node identifiers count as absolute.
func IsAbsoluteIri(value string) bool {
	return absoluteIRIPattern.MatchString(value)
}

// IsRelativeIri returns true if the given value is neither a keyword nor an
// absolute IRI.
func IsRelativeIri(value string) bool {
	return !(IsKeyword(value) || IsAbsoluteIri(value))
}

// Blank node identifiers are additionally held to the Turtle BLANK_NODE_LABEL
// grammar when well-formedness matters.
var blankNodeLabelPattern = regexp.MustCompile(`^_:([A-Za-z0-9_])(([A-Za-z0-9_.\-])*([A-Za-z0-9_\-]))?$`)

// IsWellFormedBlankNodeIdentifier returns true if value matches the Turtle
// BLANK_NODE_LABEL grammar.
func IsWellFormedBlankNodeIdentifier(value string) bool {
	return blankNodeLabelPattern.MatchString(value)
}

// validContainerKeywords are the keywords admissible inside @container.
var validContainerKeywords = map[string]bool{
	"@graph":    true,
	"@id":       true,
	"@index":    true,
	"@language": true,
	"@list":     true,
	"@set":      true,
	"@type":     true,
}

// IsValidContainer validates an @container value after arrayification:
// null; a single container keyword; [@graph, @id|@index] optionally with
// @set; or any array mixing @set with members of
// {@index, @id, @graph, @type, @language}.
func IsValidContainer(container interface{}) bool {
	if container == nil {
		return true
	}

	values := Arrayify(container)
	if len(values) == 0 {
		return false
	}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		vStr, isString := v.(string)
		if !isString || !validContainerKeywords[vStr] || seen[vStr] {
			return false
		}
		seen[vStr] = true
	}

	if len(values) == 1 {
		return true
	}

	if seen["@graph"] && (seen["@id"] || seen["@index"]) {
		if seen["@id"] && seen["@index"] {
			return false
		}
		return len(seen) == 2 || (len(seen) == 3 && seen["@set"])
	}

	if seen["@set"] {
		for k := range seen {
			if k != "@set" && k != "@index" && k != "@id" && k != "@graph" && k != "@type" && k != "@language" {
				return false
			}
		}
		return !seen["@list"]
	}

	return false
}
