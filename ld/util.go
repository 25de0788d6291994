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
	"sort"
)

// Arrayify returns v if v is an array, otherwise an array containing v as the
// only element.
func Arrayify(v interface{}) []interface{} {
	if av, isArray := v.([]interface{}); isArray {
		return av
	}
	return []interface{}{v}
}

// GetKeys returns all keys of the given map in unspecified order.
func GetKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// GetOrderedKeys returns all keys of the given map, sorted.
func GetOrderedKeys(m map[string]interface{}) []string {
	keys := GetKeys(m)
	sort.Strings(keys)
	return keys
}

// CompareShortestLeast compares two strings first by length, then
// lexicographically.
func CompareShortestLeast(a string, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// sortShortestLeast sorts terms by ascending length, ties broken
// lexicographically. This is the iteration order required when building the
// inverse index.
func sortShortestLeast(terms []string) {
	sort.Slice(terms, func(i, j int) bool {
		return CompareShortestLeast(terms[i], terms[j])
	})
}

// CloneDocument returns a deep copy of the given document. Scalars are shared;
// they are immutable in the internal representation.
func CloneDocument(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(v))
		for k, item := range v {
			clone[k] = CloneDocument(item)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, 0, len(v))
		for _, item := range v {
			clone = append(clone, CloneDocument(item))
		}
		return clone
	default:
		return value
	}
}

// DeepCompare returns true if v1 equals v2. When listOrderMatters is false,
// arrays are compared as multisets.
func DeepCompare(v1 interface{}, v2 interface{}, listOrderMatters bool) bool {
	if v1 == nil || v2 == nil {
		return v1 == nil && v2 == nil
	}

	switch t1 := v1.(type) {
	case map[string]interface{}:
		t2, isMap := v2.(map[string]interface{})
		if !isMap || len(t1) != len(t2) {
			return false
		}
		for key, val1 := range t1 {
			val2, present := t2[key]
			if !present || !DeepCompare(val1, val2, listOrderMatters) {
				return false
			}
		}
		return true
	case []interface{}:
		t2, isList := v2.([]interface{})
		if !isList || len(t1) != len(t2) {
			return false
		}
		if listOrderMatters {
			for i := range t1 {
				if !DeepCompare(t1[i], t2[i], true) {
					return false
				}
			}
			return true
		}
		// multiset comparison: mark matched members of t2 so duplicates are
		// not matched twice
		matched := make([]bool, len(t2))
	outer:
		for _, o1 := range t1 {
			for j := range t2 {
				if !matched[j] && DeepCompare(o1, t2[j], false) {
					matched[j] = true
					continue outer
				}
			}
			return false
		}
		return true
	default:
		if v1 == v2 {
			return true
		}
		// json.Number and float64 representations of the same number must
		// compare equal regardless of how the input was decoded
		return normalizeScalar(v1) == normalizeScalar(v2)
	}
}

func normalizeScalar(v interface{}) string {
	if number, isNumber := v.(json.Number); isNumber {
		if f, err := number.Float64(); err == nil {
			return fmt.Sprintf("%f", f)
		}
	}
	if f, isFloat := v.(float64); isFloat {
		return fmt.Sprintf("%f", f)
	}
	return fmt.Sprintf("%v", v)
}

func deepContains(values []interface{}, value interface{}) bool {
	for _, item := range values {
		if DeepCompare(item, value, false) {
			return true
		}
	}
	return false
}

// CompareValues compares two JSON-LD values for equality. Two values are equal
// if they are the same primitive, value objects with the same @value, @type,
// @language and @index, or maps with the same @id.
func CompareValues(v1 interface{}, v2 interface{}) bool {
	v1Map, isv1Map := v1.(map[string]interface{})
	v2Map, isv2Map := v2.(map[string]interface{})

	if !isv1Map && !isv2Map && v1 == v2 {
		return true
	}

	if IsValue(v1) && IsValue(v2) {
		return v1Map["@value"] == v2Map["@value"] &&
			v1Map["@type"] == v2Map["@type"] &&
			v1Map["@language"] == v2Map["@language"] &&
			v1Map["@index"] == v2Map["@index"]
	}

	id1, v1containsID := v1Map["@id"]
	id2, v2containsID := v2Map["@id"]
	return isv1Map && isv2Map && v1containsID && v2containsID && id1 == id2
}

// HasValue determines if the given value is already present under the given
// property of subject.
func HasValue(subject interface{}, property string, value interface{}) bool {
	subjMap, isMap := subject.(map[string]interface{})
	if !isMap {
		return false
	}
	val, found := subjMap[property]
	if !found {
		return false
	}
	if IsList(val) {
		val = val.(map[string]interface{})["@list"]
	}
	if valArray, isArray := val.([]interface{}); isArray {
		for _, v := range valArray {
			if CompareValues(value, v) {
				return true
			}
		}
		return false
	}
	if _, isArray := value.([]interface{}); isArray {
		// never match a set of values against a single value
		return false
	}
	return CompareValues(value, val)
}

// AddValue is the shared arrayification primitive used by the compaction and
// node map algorithms. It creates the target key on first use; when asArray
// is set, an existing non-array value is promoted; singletons are appended
// and arrays concatenated. When allowDuplicate is false, values already
// present (by CompareValues) are skipped.
func AddValue(subject interface{}, property string, value interface{}, asArray, valueIsArray, allowDuplicate bool) {
	subjMap, isMap := subject.(map[string]interface{})
	if !isMap {
		return
	}

	if valueIsArray {
		subjMap[property] = value
		return
	}

	if valueArray, isArray := value.([]interface{}); isArray {
		if len(valueArray) == 0 && asArray {
			if _, found := subjMap[property]; !found {
				subjMap[property] = make([]interface{}, 0)
			}
		}
		for _, v := range valueArray {
			AddValue(subject, property, v, asArray, false, allowDuplicate)
		}
		return
	}

	existing, found := subjMap[property]
	if !found {
		if asArray {
			subjMap[property] = []interface{}{value}
		} else {
			subjMap[property] = value
		}
		return
	}

	hasValue := !allowDuplicate && HasValue(subject, property, value)

	existingArray, isArray := existing.([]interface{})
	if !isArray && (!hasValue || asArray) {
		existingArray = []interface{}{existing}
		subjMap[property] = existingArray
	}

	if !hasValue {
		subjMap[property] = append(existingArray, value)
	}
}

// MergeValue adds a value to a subject, de-duplicating by deep equality.
// List objects are always appended.
func MergeValue(obj map[string]interface{}, key string, value interface{}) {
	if obj == nil {
		return
	}
	values, _ := obj[key].([]interface{})
	valueMap, isMap := value.(map[string]interface{})
	_, valueContainsList := valueMap["@list"]
	if key == "@list" || (isMap && valueContainsList) || !deepContains(values, value) {
		values = append(values, value)
	}
	obj[key] = values
}

func isEmptyObject(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	return isMap && len(vMap) == 0
}
