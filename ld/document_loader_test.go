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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentFromReader(t *testing.T) {
	doc, err := DocumentFromReader(strings.NewReader(`{"a": 1}`))
	require.NoError(t, err)
	// numbers decode as json.Number so lexical forms survive
	assert.Equal(t, map[string]interface{}{"a": json.Number("1")}, doc)

	_, err = DocumentFromReader(strings.NewReader(`{"a": `))
	assertJsonLdErrorCode(t, err, LoadingDocumentFailed)
}

func TestDefaultDocumentLoader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/context.jsonld":
			w.Header().Set("Content-Type", ApplicationJSONLDType)
			_, _ = w.Write([]byte(`{"@context": {"name": "http://schema.org/name"}}`))
		case "/with-link.json":
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Link", `<`+r.Host+`/context.jsonld>; rel="http://www.w3.org/ns/json-ld#context"`)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	loader := NewDefaultDocumentLoader(ts.Client())

	t.Run("loads a JSON-LD document", func(t *testing.T) {
		rd, err := loader.LoadDocument(ts.URL+"/context.jsonld", nil)
		require.NoError(t, err)
		assert.Equal(t, ts.URL+"/context.jsonld", rd.DocumentURL)
		docMap, isMap := rd.Document.(map[string]interface{})
		require.True(t, isMap)
		assert.Contains(t, docMap, "@context")
	})

	t.Run("reports missing documents", func(t *testing.T) {
		_, err := loader.LoadDocument(ts.URL+"/missing.jsonld", nil)
		assertJsonLdErrorCode(t, err, LoadingDocumentFailed)
	})

	t.Run("discovers context link headers on plain JSON", func(t *testing.T) {
		rd, err := loader.LoadDocument(ts.URL+"/with-link.json", nil)
		require.NoError(t, err)
		assert.NotEmpty(t, rd.ContextURL)
	})
}

type countingDocumentLoader struct {
	count int
	doc   interface{}
}

func (l *countingDocumentLoader) LoadDocument(u string, opts *LoadDocumentOptions) (*RemoteDocument, error) {
	l.count++
	return &RemoteDocument{DocumentURL: u, Document: l.doc}, nil
}

func TestCachingDocumentLoader(t *testing.T) {
	inner := &countingDocumentLoader{doc: map[string]interface{}{}}
	loader := NewCachingDocumentLoader(inner)

	_, err := loader.LoadDocument("http://example.com/doc.jsonld", nil)
	require.NoError(t, err)
	_, err = loader.LoadDocument("http://example.com/doc.jsonld", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.count)

	loader.AddDocument("http://example.com/other.jsonld", map[string]interface{}{"@context": nil})
	rd, err := loader.LoadDocument("http://example.com/other.jsonld", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.count)
	assert.NotNil(t, rd)
}

func TestRFC7234CachingDocumentLoader(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", ApplicationJSONLDType)
		w.Header().Set("Cache-Control", "max-age=3600")
		_, _ = w.Write([]byte(`{"@context": {}}`))
	}))
	defer ts.Close()

	loader := NewRFC7234CachingDocumentLoader(ts.Client())

	_, err := loader.LoadDocument(ts.URL+"/ctx.jsonld", nil)
	require.NoError(t, err)
	_, err = loader.LoadDocument(ts.URL+"/ctx.jsonld", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "second load must come from the cache")
}
