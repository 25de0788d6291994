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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertJsonLdErrorCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	jsonLdError := new(JsonLdError)
	require.ErrorAs(t, err, &jsonLdError)
	assert.Equal(t, code, jsonLdError.Code)
}

func TestContext_Parse_SimpleTerm(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"name": "http://schema.org/name",
	})
	require.NoError(t, err)

	td := result.GetTermDefinition("name")
	require.NotNil(t, td)
	assert.Equal(t, "http://schema.org/name", td.IRI)
	assert.True(t, td.HasIRI)
	assert.False(t, td.Prefix)
	assert.False(t, td.Reverse)
}

func TestContext_Parse_PrefixTerm(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"schema": "http://schema.org/",
	})
	require.NoError(t, err)

	td := result.GetTermDefinition("schema")
	require.NotNil(t, td)
	// a simple term whose IRI ends in a gen-delim is usable as a prefix
	assert.True(t, td.Prefix)

	iri, err := result.ExpandIri("schema:name", false, true, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://schema.org/name", iri)
}

func TestContext_Parse_TermMappedToNull(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"skipped": nil,
	})
	require.NoError(t, err)

	td := result.GetTermDefinition("skipped")
	require.NotNil(t, td)
	assert.False(t, td.HasIRI)

	iri, err := result.ExpandIri("skipped", false, true, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", iri)
}

func TestContext_Parse_EmptyContext(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, result.termDefinitions)
}

func TestContext_Parse_VocabAndBase(t *testing.T) {
	opts := NewJsonLdOptions("http://example.com/doc")
	ctx := NewContext(opts)

	result, err := ctx.Parse(map[string]interface{}{
		"@vocab": "http://example.com/vocab/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/vocab/", result.Vocab())

	iri, err := result.ExpandIri("name", false, true, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/vocab/name", iri)

	iri, err = result.ExpandIri("relative", true, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/relative", iri)
}

func TestContext_Parse_EmptyVocabUsesBase(t *testing.T) {
	opts := NewJsonLdOptions("http://example.com/doc")
	ctx := NewContext(opts)

	result, err := ctx.Parse(map[string]interface{}{"@vocab": ""})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/doc", result.Vocab())
}

func TestContext_Parse_InvalidVocab(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse(map[string]interface{}{"@vocab": 42})
	assertJsonLdErrorCode(t, err, InvalidVocabMapping)
}

func TestContext_Parse_LanguageCleared(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{"@language": "EN"})
	require.NoError(t, err)
	assert.Equal(t, "en", result.DefaultLanguage())

	result, err = result.Parse(map[string]interface{}{"@language": nil})
	require.NoError(t, err)
	assert.Equal(t, "", result.DefaultLanguage())
}

func TestContext_Parse_InvalidDirection(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse(map[string]interface{}{"@direction": "up"})
	assertJsonLdErrorCode(t, err, InvalidBaseDirection)
}

func TestContext_Parse_KeywordRedefinition(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse(map[string]interface{}{"@id": "http://example.com/id"})
	assertJsonLdErrorCode(t, err, KeywordRedefinition)
}

func TestContext_Parse_TypeRefinementAllowed(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"@type": map[string]interface{}{"@container": "@set"},
	})
	require.NoError(t, err)
	td := result.GetTermDefinition("@type")
	require.NotNil(t, td)
	assert.Equal(t, []string{"@set"}, td.Container)
}

func TestContext_Parse_CyclicIRIMapping(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse(map[string]interface{}{
		"a": "b:suffix",
		"b": "a:suffix",
	})
	assertJsonLdErrorCode(t, err, CyclicIRIMapping)
}

func TestContext_Parse_InvalidTermDefinition(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse(map[string]interface{}{"term": 42})
	assertJsonLdErrorCode(t, err, InvalidTermDefinition)

	_, err = ctx.Parse(map[string]interface{}{
		"term": map[string]interface{}{
			"@id":    "http://example.com/term",
			"@bogus": true,
		},
	})
	assertJsonLdErrorCode(t, err, InvalidTermDefinition)
}

func TestContext_Parse_TermWithoutVocab(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse(map[string]interface{}{
		"term": map[string]interface{}{"@container": "@set"},
	})
	assertJsonLdErrorCode(t, err, InvalidIRIMapping)
}

func TestContext_Parse_ProtectedTermRedefinition(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse([]interface{}{
		map[string]interface{}{
			"name": map[string]interface{}{"@id": "http://example.com/n", "@protected": true},
		},
		map[string]interface{}{
			"name": "http://example.com/other",
		},
	})
	assertJsonLdErrorCode(t, err, ProtectedTermRedefinition)
}

func TestContext_Parse_ProtectedTermEquivalentRedefinition(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse([]interface{}{
		map[string]interface{}{
			"name": map[string]interface{}{"@id": "http://example.com/n", "@protected": true},
		},
		map[string]interface{}{
			"name": map[string]interface{}{"@id": "http://example.com/n"},
		},
	})
	require.NoError(t, err)
	td := result.GetTermDefinition("name")
	require.NotNil(t, td)
	assert.True(t, td.Protected)
}

func TestContext_Parse_NullContextWithProtectedTerms(t *testing.T) {
	ctx := NewContext(nil)
	protected, err := ctx.Parse(map[string]interface{}{
		"@protected": true,
		"name":       "http://example.com/n",
	})
	require.NoError(t, err)
	require.True(t, protected.HasProtectedTerms())

	_, err = protected.Parse(nil)
	assertJsonLdErrorCode(t, err, InvalidContextNullification)
}

func TestContext_Parse_NullContextResets(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{"name": "http://example.com/n"})
	require.NoError(t, err)

	result, err = result.Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, result.GetTermDefinition("name"))
}

func TestContext_Parse_PropagateFalseSavesPreviousContext(t *testing.T) {
	ctx := NewContext(nil)
	base, err := ctx.Parse(map[string]interface{}{"name": "http://example.com/n"})
	require.NoError(t, err)

	scoped, err := base.processContext(map[string]interface{}{
		"other": "http://example.com/o",
	}, "", nil, false, false, true)
	require.NoError(t, err)

	require.NotNil(t, scoped.PreviousContext())
	popped := scoped.RevertToPreviousContext()
	assert.Nil(t, popped.GetTermDefinition("other"))
	assert.NotNil(t, popped.GetTermDefinition("name"))
}

func TestContext_Parse_Version(t *testing.T) {
	t.Run("@version 1.1 conflicts with json-ld-1.0 mode", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.ProcessingMode = JsonLd_1_0
		ctx := NewContext(opts)
		_, err := ctx.Parse(map[string]interface{}{"@version": 1.1})
		assertJsonLdErrorCode(t, err, ProcessingModeConflict)
	})
	t.Run("invalid @version value", func(t *testing.T) {
		ctx := NewContext(nil)
		_, err := ctx.Parse(map[string]interface{}{"@version": 1.0})
		assertJsonLdErrorCode(t, err, InvalidVersionValue)
	})
}

func TestContext_Parse_10ModeRestrictions(t *testing.T) {
	opts := NewJsonLdOptions("")
	opts.ProcessingMode = JsonLd_1_0
	ctx := NewContext(opts)

	_, err := ctx.Parse(map[string]interface{}{"@import": "http://example.com/ctx.jsonld"})
	assertJsonLdErrorCode(t, err, InvalidContextEntry)

	_, err = ctx.Parse(map[string]interface{}{
		"term": map[string]interface{}{"@id": "http://e/t", "@prefix": true},
	})
	assertJsonLdErrorCode(t, err, InvalidTermDefinition)

	_, err = ctx.Parse(map[string]interface{}{
		"term": map[string]interface{}{"@id": "http://e/t", "@container": "@graph"},
	})
	assertJsonLdErrorCode(t, err, InvalidContainerMapping)
}

type errorDocumentLoader struct {
	err error
}

func (l errorDocumentLoader) LoadDocument(u string, opts *LoadDocumentOptions) (*RemoteDocument, error) {
	return nil, l.err
}

func TestContext_Parse_LoaderErrors(t *testing.T) {
	expectedError := errors.New("failed")
	opts := NewJsonLdOptions("")
	opts.DocumentLoader = errorDocumentLoader{err: expectedError}

	t.Run("DocumentLoader can't resolve @context URL", func(t *testing.T) {
		ctx := NewContext(opts)
		_, err := ctx.Parse("http://example.org/foo.ldjson")
		assertJsonLdErrorCode(t, err, LoadingRemoteContextFailed)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
	t.Run("DocumentLoader can't resolve @import", func(t *testing.T) {
		ctx := NewContext(opts)
		_, err := ctx.Parse(map[string]interface{}{
			"@import": "http://example.org/foo.ldjson",
		})
		assertJsonLdErrorCode(t, err, LoadingRemoteContextFailed)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
}

func TestContext_Parse_Import(t *testing.T) {
	loader := NewCachingDocumentLoader(errorDocumentLoader{err: errors.New("offline")})
	loader.AddDocument("http://example.com/imported.jsonld", map[string]interface{}{
		"@context": map[string]interface{}{
			"name":  "http://example.com/name",
			"label": "http://example.com/imported-label",
		},
	})

	opts := NewJsonLdOptions("")
	opts.DocumentLoader = loader
	ctx := NewContext(opts)

	result, err := ctx.Parse(map[string]interface{}{
		"@import": "http://example.com/imported.jsonld",
		"label":   "http://example.com/label",
	})
	require.NoError(t, err)

	// imported entries are merged beneath the importing context
	assert.Equal(t, "http://example.com/name", result.GetTermDefinition("name").IRI)
	assert.Equal(t, "http://example.com/label", result.GetTermDefinition("label").IRI)
}

type countingContextLoader struct {
	count int
}

func (l *countingContextLoader) LoadDocument(u string, opts *LoadDocumentOptions) (*RemoteDocument, error) {
	l.count++
	next := "http://example.com/a.jsonld"
	if u == next {
		next = "http://example.com/b.jsonld"
	}
	return &RemoteDocument{
		DocumentURL: u,
		Document: map[string]interface{}{
			"@context": next,
		},
	}, nil
}

func TestContext_Parse_ContextOverflow(t *testing.T) {
	loader := &countingContextLoader{}
	opts := NewJsonLdOptions("")
	opts.DocumentLoader = loader
	ctx := NewContext(opts)

	_, err := ctx.Parse("http://example.com/a.jsonld")
	assertJsonLdErrorCode(t, err, ContextOverflow)
	assert.LessOrEqual(t, loader.count, 50)
}

func TestContext_CloneMarksInverseStale(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{"name": "http://example.com/n"})
	require.NoError(t, err)

	result.getInverse()
	assert.False(t, result.inverseDirty)

	clone := result.Clone()
	assert.True(t, clone.inverseDirty)
}

func TestContext_InverseIndex(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"plain": "http://example.com/t",
		"set": map[string]interface{}{
			"@id":        "http://example.com/t",
			"@container": "@set",
		},
		"lang": map[string]interface{}{
			"@id":       "http://example.com/l",
			"@language": "en",
		},
		"typed": map[string]interface{}{
			"@id":   "http://example.com/l",
			"@type": "http://example.com/T",
		},
	})
	require.NoError(t, err)

	inv := result.getInverse()
	require.Contains(t, inv, "http://example.com/t")
	require.Contains(t, inv, "http://example.com/l")

	tBranch := inv["http://example.com/t"]
	require.Contains(t, tBranch, "@none")
	require.Contains(t, tBranch, "@set")
	assert.Equal(t, "plain", tBranch["@none"].language["@none"])
	assert.Equal(t, "set", tBranch["@set"].language["@none"])

	lBranch := inv["http://example.com/l"]["@none"]
	assert.Equal(t, "lang", lBranch.language["en"])
	assert.Equal(t, "typed", lBranch.typ["http://example.com/T"])
}

func TestContext_SelectTerm(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"lang": map[string]interface{}{
			"@id":       "http://example.com/l",
			"@language": "en",
		},
		"typed": map[string]interface{}{
			"@id":   "http://example.com/l",
			"@type": "http://example.com/T",
		},
	})
	require.NoError(t, err)

	term := result.SelectTerm("http://example.com/l", []string{"@none"}, "@language", []string{"en", "@none"})
	assert.Equal(t, "lang", term)

	term = result.SelectTerm("http://example.com/l", []string{"@none"}, "@type", []string{"http://example.com/T", "@none"})
	assert.Equal(t, "typed", term)

	term = result.SelectTerm("http://example.com/l", []string{"@list"}, "@language", []string{"@none"})
	assert.Equal(t, "", term)
}

// Any term picked by term selection must compact the same IRI back to itself.
func TestContext_TermSelectionAgreesWithCompactIri(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"lang": map[string]interface{}{
			"@id":       "http://example.com/l",
			"@language": "en",
		},
		"plain": "http://example.com/l",
	})
	require.NoError(t, err)

	value := map[string]interface{}{"@value": "bonjour", "@language": "en"}
	selected := result.SelectTerm("http://example.com/l",
		[]string{"@language", "@language@set", "@set", "@none"}, "@language", []string{"en", "@none", "@any"})
	require.NotEmpty(t, selected)

	compacted, err := result.CompactIri("http://example.com/l", value, true, false)
	require.NoError(t, err)
	assert.Equal(t, selected, compacted)
}

func TestContext_Parse_ReverseTermDefinition(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"children": map[string]interface{}{"@reverse": "http://example.com/parent"},
	})
	require.NoError(t, err)

	td := result.GetTermDefinition("children")
	require.NotNil(t, td)
	assert.True(t, td.Reverse)
	assert.Equal(t, "http://example.com/parent", td.IRI)

	_, err = ctx.Parse(map[string]interface{}{
		"children": map[string]interface{}{
			"@reverse":   "http://example.com/parent",
			"@container": "@list",
		},
	})
	assertJsonLdErrorCode(t, err, InvalidReverseProperty)
}

// The reverse branch commits without sweeping for unrecognized keys; this
// mirrors the reference implementation.
func TestCreateTermDefinition_ReverseIgnoresExtraKeys(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"children": map[string]interface{}{
			"@reverse": "http://example.com/parent",
			"@bogus":   true,
		},
	})
	require.NoError(t, err)
	assert.True(t, result.GetTermDefinition("children").Reverse)
}

func TestContext_Parse_ScopedContextStoredRaw(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"Person": map[string]interface{}{
			"@id": "http://example.com/Person",
			"@context": map[string]interface{}{
				"name": "http://example.com/name",
			},
		},
	})
	require.NoError(t, err)

	td := result.GetTermDefinition("Person")
	require.NotNil(t, td)
	require.True(t, td.HasContext)
	// the scoped context stays unprocessed until the term is in play
	assert.Equal(t, map[string]interface{}{"name": "http://example.com/name"}, td.Context)
	assert.Nil(t, result.GetTermDefinition("name"))
}

func TestContext_Parse_InvalidScopedContext(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.Parse(map[string]interface{}{
		"Person": map[string]interface{}{
			"@id":      "http://example.com/Person",
			"@context": map[string]interface{}{"bad": 42},
		},
	})
	assertJsonLdErrorCode(t, err, InvalidScopedContext)
}

func TestContext_ExpandIri(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"schema": "http://schema.org/",
		"idAlias": "@id",
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		value    string
		vocab    bool
		expected string
	}{
		{"@type", true, "@type"},
		{"idAlias", false, "@id"},
		{"schema:name", false, "http://schema.org/name"},
		{"_:b0", true, "_:b0"},
		{"http://example.com/x", false, "http://example.com/x"},
	} {
		iri, err := result.ExpandIri(tc.value, false, tc.vocab, nil, nil)
		require.NoError(t, err, tc.value)
		assert.Equal(t, tc.expected, iri, fmt.Sprintf("expanding %s", tc.value))
	}
}

func TestContext_CompactIri_SuffixOfVocab(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"@vocab": "http://example.com/vocab/",
	})
	require.NoError(t, err)

	compacted, err := result.CompactIri("http://example.com/vocab/name", nil, true, false)
	require.NoError(t, err)
	assert.Equal(t, "name", compacted)
}

func TestContext_CompactIri_PrefixConstruction(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"schema": "http://schema.org/",
	})
	require.NoError(t, err)

	compacted, err := result.CompactIri("http://schema.org/name", nil, true, false)
	require.NoError(t, err)
	assert.Equal(t, "schema:name", compacted)
}

func TestContext_CompactIri_ConfusedWithPrefix(t *testing.T) {
	ctx := NewContext(nil)
	result, err := ctx.Parse(map[string]interface{}{
		"http": map[string]interface{}{"@id": "http://example.com/http", "@prefix": true},
	})
	require.NoError(t, err)

	_, err = result.CompactIri("http:example", nil, false, false)
	assertJsonLdErrorCode(t, err, IRIConfusedWithPrefix)

	// an IRI with an authority component is safe
	compacted, err := result.CompactIri("http://example.org/x", nil, false, false)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/x", compacted)
}
