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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArrayify(t *testing.T) {
	assert.Equal(t, []interface{}{"a"}, Arrayify("a"))
	assert.Equal(t, []interface{}{"a", "b"}, Arrayify([]interface{}{"a", "b"}))
}

func TestCompareShortestLeast(t *testing.T) {
	assert.True(t, CompareShortestLeast("ab", "abc"))
	assert.False(t, CompareShortestLeast("abc", "ab"))
	assert.True(t, CompareShortestLeast("aa", "ab"))
	assert.False(t, CompareShortestLeast("ab", "aa"))
}

func TestDeepCompare(t *testing.T) {
	a := map[string]interface{}{
		"k": []interface{}{"x", map[string]interface{}{"n": json.Number("1")}},
	}
	b := map[string]interface{}{
		"k": []interface{}{map[string]interface{}{"n": 1.0}, "x"},
	}
	assert.True(t, DeepCompare(a, b, false))
	assert.False(t, DeepCompare(a, b, true))
	assert.False(t, DeepCompare(a, map[string]interface{}{}, false))
	assert.True(t, DeepCompare(nil, nil, true))
	assert.False(t, DeepCompare(nil, "x", true))
}

func TestAddValue(t *testing.T) {
	subject := map[string]interface{}{}

	AddValue(subject, "p", "a", false, false, true)
	assert.Equal(t, "a", subject["p"])

	// appending promotes to an array
	AddValue(subject, "p", "b", false, false, true)
	assert.Equal(t, []interface{}{"a", "b"}, subject["p"])

	// asArray promotes a singleton on first use
	fresh := map[string]interface{}{}
	AddValue(fresh, "p", "a", true, false, true)
	assert.Equal(t, []interface{}{"a"}, fresh["p"])

	// duplicates are skipped when not allowed
	AddValue(fresh, "p", "a", true, false, false)
	assert.Equal(t, []interface{}{"a"}, fresh["p"])

	// arrays are concatenated element-wise
	AddValue(fresh, "p", []interface{}{"b", "c"}, true, false, true)
	assert.Equal(t, []interface{}{"a", "b", "c"}, fresh["p"])

	// an empty array with asArray still creates the key
	empty := map[string]interface{}{}
	AddValue(empty, "p", []interface{}{}, true, false, true)
	assert.Equal(t, []interface{}{}, empty["p"])
}

func TestCompareValues(t *testing.T) {
	assert.True(t, CompareValues("a", "a"))
	assert.False(t, CompareValues("a", "b"))
	assert.True(t, CompareValues(
		map[string]interface{}{"@value": "a", "@language": "en"},
		map[string]interface{}{"@value": "a", "@language": "en"},
	))
	assert.False(t, CompareValues(
		map[string]interface{}{"@value": "a", "@language": "en"},
		map[string]interface{}{"@value": "a"},
	))
	assert.True(t, CompareValues(
		map[string]interface{}{"@id": "http://e/a"},
		map[string]interface{}{"@id": "http://e/a"},
	))
}

func TestCloneDocument(t *testing.T) {
	original := map[string]interface{}{
		"a": []interface{}{map[string]interface{}{"b": "c"}},
	}
	clone := CloneDocument(original).(map[string]interface{})
	assert.True(t, DeepCompare(original, clone, true))

	clone["a"].([]interface{})[0].(map[string]interface{})["b"] = "changed"
	assert.Equal(t, "c", original["a"].([]interface{})[0].(map[string]interface{})["b"])
}

func TestIdentifierIssuer(t *testing.T) {
	issuer := NewIdentifierIssuer("_:b")

	assert.Equal(t, "_:b0", issuer.GetId("_:orig"))
	assert.Equal(t, "_:b0", issuer.GetId("_:orig"))
	assert.Equal(t, "_:b1", issuer.GetId(""))
	assert.Equal(t, "_:b2", issuer.GetId(""))
	assert.True(t, issuer.HasId("_:orig"))
	assert.False(t, issuer.HasId("_:other"))

	clone := issuer.Clone()
	assert.Equal(t, "_:b0", clone.GetId("_:orig"))
	assert.Equal(t, "_:b3", clone.GetId("_:new"))
}
