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

package ld_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/datagraphs/ldproc/ld"
)

func requireErrorCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	jsonLdError := new(JsonLdError)
	require.ErrorAs(t, err, &jsonLdError)
	assert.Equal(t, code, jsonLdError.Code)
}

func TestExpand_SingleTermAlias(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{"name": "http://schema.org/name"},
		"name":     "Alice",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://schema.org/name": []interface{}{
				map[string]interface{}{"@value": "Alice"},
			},
		},
	}, expanded)
}

func TestExpand_CompactIri(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context":    map[string]interface{}{"schema": "http://schema.org/"},
		"schema:name": "Alice",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://schema.org/name": []interface{}{
				map[string]interface{}{"@value": "Alice"},
			},
		},
	}, expanded)
}

func TestExpand_LanguageMap(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"label": map[string]interface{}{
				"@id":        "http://example.com/label",
				"@container": "@language",
			},
		},
		"label": map[string]interface{}{
			"en": "Hello",
			"fr": "Bonjour",
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/label": []interface{}{
				map[string]interface{}{"@value": "Hello", "@language": "en"},
				map[string]interface{}{"@value": "Bonjour", "@language": "fr"},
			},
		},
	}, expanded)
}

func TestExpand_ListContainer(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"friends": map[string]interface{}{
				"@id":        "ex:f",
				"@container": "@list",
			},
		},
		"friends": []interface{}{"a", "b"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"ex:f": []interface{}{
				map[string]interface{}{
					"@list": []interface{}{
						map[string]interface{}{"@value": "a"},
						map[string]interface{}{"@value": "b"},
					},
				},
			},
		},
	}, expanded)
}

func TestExpand_Idempotent(t *testing.T) {
	proc := NewJsonLdProcessor()

	docs := []interface{}{
		map[string]interface{}{
			"@context": map[string]interface{}{"name": "http://schema.org/name"},
			"@id":      "http://example.com/a",
			"name":     "Alice",
		},
		map[string]interface{}{
			"@context": map[string]interface{}{
				"friends": map[string]interface{}{"@id": "http://example.com/f", "@container": "@list"},
			},
			"friends": []interface{}{"a", "b"},
		},
	}

	for _, doc := range docs {
		once, err := proc.Expand(doc, nil)
		require.NoError(t, err)
		twice, err := proc.Expand(once, nil)
		require.NoError(t, err)
		assert.True(t, DeepCompare(once, twice, true), "expansion must be idempotent")
	}
}

func TestExpand_IdAndType(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "http://example.com/",
		},
		"@id":   "http://example.com/alice",
		"@type": "Person",
		"name":  "Alice",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"@id":   "http://example.com/alice",
			"@type": []interface{}{"http://example.com/Person"},
			"http://example.com/name": []interface{}{
				map[string]interface{}{"@value": "Alice"},
			},
		},
	}, expanded)
}

func TestExpand_TypeScopedContext(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"Person": map[string]interface{}{
				"@id": "http://example.com/Person",
				"@context": map[string]interface{}{
					"name": "http://example.com/name",
				},
			},
		},
		"@type": "Person",
		"name":  "Alice",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"@type": []interface{}{"http://example.com/Person"},
			"http://example.com/name": []interface{}{
				map[string]interface{}{"@value": "Alice"},
			},
		},
	}, expanded)
}

func TestExpand_PropertyScopedContext(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"knows": map[string]interface{}{
				"@id": "http://example.com/knows",
				"@context": map[string]interface{}{
					"nick": "http://example.com/nick",
				},
			},
		},
		"knows": map[string]interface{}{"nick": "Bob"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/knows": []interface{}{
				map[string]interface{}{
					"http://example.com/nick": []interface{}{
						map[string]interface{}{"@value": "Bob"},
					},
				},
			},
		},
	}, expanded)
}

func TestExpand_NestedProperties(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "http://example.com/",
			"meta":   "@nest",
		},
		"meta": map[string]interface{}{"count": "5"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/count": []interface{}{
				map[string]interface{}{"@value": "5"},
			},
		},
	}, expanded)
}

func TestExpand_InvalidNestValue(t *testing.T) {
	proc := NewJsonLdProcessor()
	_, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "http://example.com/",
			"meta":   "@nest",
		},
		"meta": map[string]interface{}{"@value": "x"},
	}, nil)
	requireErrorCode(t, err, InvalidNestValue)
}

func TestExpand_ReverseProperty(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"parent": "http://example.com/parent",
		},
		"@id": "http://example.com/s",
		"@reverse": map[string]interface{}{
			"parent": map[string]interface{}{"@id": "http://example.com/o"},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"@id": "http://example.com/s",
			"@reverse": map[string]interface{}{
				"http://example.com/parent": []interface{}{
					map[string]interface{}{"@id": "http://example.com/o"},
				},
			},
		},
	}, expanded)
}

func TestExpand_ReversePropertyWithListValue(t *testing.T) {
	proc := NewJsonLdProcessor()
	_, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"children": map[string]interface{}{
				"@reverse": "http://example.com/parent",
			},
		},
		"children": map[string]interface{}{
			"@list": []interface{}{map[string]interface{}{"@id": "http://example.com/o"}},
		},
	}, nil)
	requireErrorCode(t, err, InvalidReversePropertyValue)
}

func TestExpand_ValueObjectValidation(t *testing.T) {
	proc := NewJsonLdProcessor()

	t.Run("unknown keys", func(t *testing.T) {
		_, err := proc.Expand(map[string]interface{}{
			"http://example.com/p": map[string]interface{}{
				"@value": "a",
				"@id":    "http://example.com/x",
			},
		}, nil)
		requireErrorCode(t, err, InvalidValueObject)
	})

	t.Run("@type with @language", func(t *testing.T) {
		_, err := proc.Expand(map[string]interface{}{
			"http://example.com/p": map[string]interface{}{
				"@value":    "a",
				"@language": "en",
				"@type":     "http://example.com/T",
			},
		}, nil)
		requireErrorCode(t, err, InvalidValueObject)
	})

	t.Run("language-tagged non-string", func(t *testing.T) {
		_, err := proc.Expand(map[string]interface{}{
			"http://example.com/p": map[string]interface{}{
				"@value":    5,
				"@language": "en",
			},
		}, nil)
		requireErrorCode(t, err, InvalidLanguageTaggedValue)
	})

	t.Run("structured @value", func(t *testing.T) {
		_, err := proc.Expand(map[string]interface{}{
			"http://example.com/p": map[string]interface{}{
				"@value": map[string]interface{}{"a": "b"},
			},
		}, nil)
		requireErrorCode(t, err, InvalidValueObjectValue)
	})
}

func TestExpand_ReservedTermsAreDropped(t *testing.T) {
	var warnings []ErrorCode
	opts := NewJsonLdOptions("")
	opts.WarningHandler = func(code ErrorCode, details interface{}) {
		warnings = append(warnings, code)
	}

	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@id":                  "http://example.com/a",
		"@futureKeyword":       "x",
		"http://example.com/p": "y",
	}, opts)
	require.NoError(t, err)

	require.Len(t, expanded, 1)
	node := expanded[0].(map[string]interface{})
	assert.NotContains(t, node, "@futureKeyword")
	assert.Contains(t, node, "http://example.com/p")
	assert.Contains(t, warnings, ReservedTermUsed)
}

func TestExpand_IndexContainer(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"prop": map[string]interface{}{
				"@id":        "http://example.com/p",
				"@container": "@index",
			},
		},
		"prop": map[string]interface{}{
			"A": "a",
			"B": "b",
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/p": []interface{}{
				map[string]interface{}{"@value": "a", "@index": "A"},
				map[string]interface{}{"@value": "b", "@index": "B"},
			},
		},
	}, expanded)
}

func TestExpand_IdContainer(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "http://example.com/",
			"byId": map[string]interface{}{
				"@id":        "http://example.com/byId",
				"@container": "@id",
			},
		},
		"byId": map[string]interface{}{
			"http://example.com/node": map[string]interface{}{"name": "x"},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/byId": []interface{}{
				map[string]interface{}{
					"@id": "http://example.com/node",
					"http://example.com/name": []interface{}{
						map[string]interface{}{"@value": "x"},
					},
				},
			},
		},
	}, expanded)
}

func TestExpand_GraphContainer(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "http://example.com/",
			"input": map[string]interface{}{
				"@id":        "http://example.com/input",
				"@container": "@graph",
			},
		},
		"input": map[string]interface{}{"name": "x"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/input": []interface{}{
				map[string]interface{}{
					"@graph": []interface{}{
						map[string]interface{}{
							"http://example.com/name": []interface{}{
								map[string]interface{}{"@value": "x"},
							},
						},
					},
				},
			},
		},
	}, expanded)
}

func TestExpand_Included(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@id":                  "http://example.com/a",
		"http://example.com/p": "x",
		"@included": []interface{}{
			map[string]interface{}{
				"@id":                  "http://example.com/b",
				"http://example.com/p": "y",
			},
		},
	}, nil)
	require.NoError(t, err)

	require.Len(t, expanded, 1)
	node := expanded[0].(map[string]interface{})
	included, hasIncluded := node["@included"].([]interface{})
	require.True(t, hasIncluded)
	require.Len(t, included, 1)

	_, err = proc.Expand(map[string]interface{}{
		"http://example.com/p": []interface{}{
			map[string]interface{}{
				"@id": "http://example.com/a",
				"@included": []interface{}{
					map[string]interface{}{"@value": "not a node"},
				},
			},
		},
	}, nil)
	requireErrorCode(t, err, InvalidIncludedValue)
}

func TestExpand_JSONLiteral(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"data": map[string]interface{}{
				"@id":   "http://example.com/data",
				"@type": "@json",
			},
		},
		"data": map[string]interface{}{"a": "b"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/data": []interface{}{
				map[string]interface{}{
					"@value": map[string]interface{}{"a": "b"},
					"@type":  "@json",
				},
			},
		},
	}, expanded)
}

func TestExpand_DefaultLanguageAndDirection(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab":     "http://example.com/",
			"@language":  "ar",
			"@direction": "rtl",
		},
		"title": "x",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/title": []interface{}{
				map[string]interface{}{
					"@value":     "x",
					"@language":  "ar",
					"@direction": "rtl",
				},
			},
		},
	}, expanded)
}

func TestExpand_LanguageValueLowercasedWithWarning(t *testing.T) {
	var warnings []ErrorCode
	opts := NewJsonLdOptions("")
	opts.WarningHandler = func(code ErrorCode, details interface{}) {
		warnings = append(warnings, code)
	}

	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"http://example.com/p": map[string]interface{}{
			"@value":    "x",
			"@language": "EN_bogus!",
		},
	}, opts)
	require.NoError(t, err)

	node := expanded[0].(map[string]interface{})
	values := node["http://example.com/p"].([]interface{})
	assert.Equal(t, "en_bogus!", values[0].(map[string]interface{})["@language"])
	assert.Contains(t, warnings, MalformedLanguageTag)
}

func TestExpand_FreeFloatingValuesAreDropped(t *testing.T) {
	proc := NewJsonLdProcessor()

	expanded, err := proc.Expand(map[string]interface{}{"@value": "x"}, nil)
	require.NoError(t, err)
	assert.Empty(t, expanded)

	expanded, err = proc.Expand(map[string]interface{}{"@id": "http://example.com/a"}, nil)
	require.NoError(t, err)
	assert.Empty(t, expanded)

	expanded, err = proc.Expand(map[string]interface{}{
		"@graph": []interface{}{
			map[string]interface{}{"@list": []interface{}{"x"}},
		},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, expanded)
}

func TestExpand_CollidingKeywords(t *testing.T) {
	proc := NewJsonLdProcessor()
	_, err := proc.Expand(map[string]interface{}{
		"@context": map[string]interface{}{"id": "@id"},
		"@id":      "http://example.com/a",
		"id":       "http://example.com/b",
		"http://example.com/p": "x",
	}, nil)
	requireErrorCode(t, err, CollidingKeywords)
}

func TestExpand_SetIsFlattened(t *testing.T) {
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(map[string]interface{}{
		"http://example.com/p": map[string]interface{}{
			"@set": []interface{}{"a", "b"},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"http://example.com/p": []interface{}{
				map[string]interface{}{"@value": "a"},
				map[string]interface{}{"@value": "b"},
			},
		},
	}, expanded)
}
