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
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pquerna/cachecontrol"
)

const (
	// An HTTP Accept header that prefers JSON-LD.
	acceptHeader = "application/ld+json, application/json;q=0.9, application/javascript;q=0.5, text/javascript;q=0.5, text/plain;q=0.2, */*;q=0.1"

	// ApplicationJSONLDType is the JSON-LD media type.
	ApplicationJSONLDType = "application/ld+json"

	// ProfileContext is the profile IRI identifying a context document.
	ProfileContext = "http://www.w3.org/ns/json-ld#context"
)

// RemoteDocument is a document retrieved from a remote source. DocumentURL is
// the effective, post-redirect URL.
type RemoteDocument struct {
	DocumentURL string
	Document    interface{}
	ContextURL  string
	Profile     string
}

// LoadDocumentOptions carries the optional parameters of a LoadDocument call.
type LoadDocumentOptions struct {
	// Profile is the profile the caller will use the document as,
	// e.g. ProfileContext when dereferencing a remote context.
	Profile string
	// RequestProfile lists profile IRIs to transmit in the Accept header.
	RequestProfile []string
}

// DocumentLoader knows how to dereference remote documents.
type DocumentLoader interface {
	LoadDocument(u string, opts *LoadDocumentOptions) (*RemoteDocument, error)
}

// DocumentFromReader returns a document containing the contents of the JSON
// resource read from r. Numbers are decoded as json.Number so their original
// representation survives round trips.
func DocumentFromReader(r io.Reader) (interface{}, error) {
	var document interface{}
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(&document); err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	return document, nil
}

// DefaultDocumentLoader is a standard implementation of DocumentLoader which
// retrieves documents via HTTP, falling back to the filesystem for other
// schemes.
type DefaultDocumentLoader struct {
	httpClient *http.Client
}

// NewDefaultDocumentLoader creates a new instance of DefaultDocumentLoader.
func NewDefaultDocumentLoader(httpClient *http.Client) *DefaultDocumentLoader {
	rval := &DefaultDocumentLoader{httpClient: httpClient}
	if rval.httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

func acceptWithProfiles(profiles []string) string {
	if len(profiles) == 0 {
		return acceptHeader
	}
	return fmt.Sprintf("%s;profile=\"%s\", %s", ApplicationJSONLDType, strings.Join(profiles, " "), acceptHeader)
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON
// resource at the given URL.
func (dl *DefaultDocumentLoader) LoadDocument(u string, opts *LoadDocumentOptions) (*RemoteDocument, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	remoteDoc := &RemoteDocument{}

	protocol := parsedURL.Scheme
	if protocol != "http" && protocol != "https" {
		remoteDoc.DocumentURL = u
		var file *os.File
		file, err = os.Open(u)
		if err != nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		defer file.Close()

		remoteDoc.Document, err = DocumentFromReader(file)
		if err != nil {
			return nil, err
		}
		return remoteDoc, nil
	}

	req, err := http.NewRequest(http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	var requestProfile []string
	if opts != nil {
		requestProfile = opts.RequestProfile
	}
	req.Header.Add("Accept", acceptWithProfiles(requestProfile))

	res, err := dl.httpClient.Do(req)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("bad response status code: %d", res.StatusCode))
	}

	remoteDoc.DocumentURL = res.Request.URL.String()

	contentType := res.Header.Get("Content-Type")
	linkHeader := res.Header.Get("Link")

	if len(linkHeader) > 0 {
		parsedLinkHeader := ParseLinkHeader(linkHeader)
		contextLink := parsedLinkHeader[ProfileContext]
		if contextLink != nil && contentType != ApplicationJSONLDType &&
			(contentType == "application/json" || rApplicationJSON.MatchString(contentType)) {

			if len(contextLink) > 1 {
				return nil, NewJsonLdError(MultipleContextLinkHeaders, nil)
			}
			remoteDoc.ContextURL = contextLink[0]["target"]
		}

		// if content type is not JSON-LD and an alternate link with the
		// JSON-LD type is present, follow it
		alternateLink := parsedLinkHeader["alternate"]
		if len(alternateLink) > 0 &&
			alternateLink[0]["type"] == ApplicationJSONLDType &&
			!rApplicationJSON.MatchString(contentType) {

			finalURL := Resolve(u, alternateLink[0]["target"])
			return dl.LoadDocument(finalURL, opts)
		}
	}

	remoteDoc.Document, err = DocumentFromReader(res.Body)
	if err != nil {
		return nil, err
	}
	return remoteDoc, nil
}

// CachingDocumentLoader is an overlay on top of a DocumentLoader which caches
// documents as they are retrieved. It may also be preloaded with documents,
// which is useful for testing.
type CachingDocumentLoader struct {
	nextLoader DocumentLoader
	cache      map[string]*RemoteDocument
}

// NewCachingDocumentLoader creates a new instance of CachingDocumentLoader.
func NewCachingDocumentLoader(nextLoader DocumentLoader) *CachingDocumentLoader {
	return &CachingDocumentLoader{
		nextLoader: nextLoader,
		cache:      make(map[string]*RemoteDocument),
	}
}

// LoadDocument returns a RemoteDocument from the cache, loading and caching
// it on a miss.
func (cdl *CachingDocumentLoader) LoadDocument(u string, opts *LoadDocumentOptions) (*RemoteDocument, error) {
	if doc, cached := cdl.cache[u]; cached {
		return doc, nil
	}
	doc, err := cdl.nextLoader.LoadDocument(u, opts)
	if err != nil {
		return nil, err
	}
	cdl.cache[u] = doc
	return doc, nil
}

// AddDocument populates the cache with the given document for the URL.
func (cdl *CachingDocumentLoader) AddDocument(u string, doc interface{}) {
	cdl.cache[u] = &RemoteDocument{DocumentURL: u, Document: doc}
}

// PreloadWithMapping populates the cache with documents loaded from locations
// different from their original URLs, most commonly local files.
func (cdl *CachingDocumentLoader) PreloadWithMapping(urlMap map[string]string) error {
	for srcURL, mappedURL := range urlMap {
		doc, err := cdl.nextLoader.LoadDocument(mappedURL, nil)
		if err != nil {
			return err
		}
		cdl.cache[srcURL] = doc
	}
	return nil
}

type cachedRemoteDocument struct {
	remoteDocument *RemoteDocument
	expireTime     time.Time
	neverExpires   bool
}

// RFC7234CachingDocumentLoader respects RFC 7234 caching headers.
type RFC7234CachingDocumentLoader struct {
	httpClient *http.Client
	cache      map[string]*cachedRemoteDocument
}

// NewRFC7234CachingDocumentLoader creates a new RFC7234CachingDocumentLoader.
func NewRFC7234CachingDocumentLoader(httpClient *http.Client) *RFC7234CachingDocumentLoader {
	rval := &RFC7234CachingDocumentLoader{
		httpClient: httpClient,
		cache:      make(map[string]*cachedRemoteDocument),
	}
	if httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

// LoadDocument returns a RemoteDocument for the given URL, consulting the
// cache first and caching responses whose headers permit it.
func (rcdl *RFC7234CachingDocumentLoader) LoadDocument(u string, opts *LoadDocumentOptions) (*RemoteDocument, error) {
	if entry, ok := rcdl.cache[u]; ok && (entry.neverExpires || entry.expireTime.After(time.Now())) {
		return entry.remoteDocument, nil
	}

	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	remoteDoc := &RemoteDocument{}
	neverExpires := false
	shouldCache := false
	expireTime := time.Now()

	protocol := parsedURL.Scheme
	if protocol != "http" && protocol != "https" {
		remoteDoc.DocumentURL = u
		file, err := os.Open(u)
		if err != nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		defer file.Close()
		remoteDoc.Document, err = DocumentFromReader(file)
		if err != nil {
			return nil, err
		}
		neverExpires = true
		shouldCache = true
	} else {
		req, err := http.NewRequest(http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		var requestProfile []string
		if opts != nil {
			requestProfile = opts.RequestProfile
		}
		req.Header.Add("Accept", acceptWithProfiles(requestProfile))

		res, err := rcdl.httpClient.Do(req)
		if err != nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return nil, NewJsonLdError(LoadingDocumentFailed,
				fmt.Sprintf("bad response status code: %d", res.StatusCode))
		}

		remoteDoc.DocumentURL = res.Request.URL.String()

		contentType := res.Header.Get("Content-Type")
		linkHeader := res.Header.Get("Link")

		if len(linkHeader) > 0 {
			parsedLinkHeader := ParseLinkHeader(linkHeader)
			contextLink := parsedLinkHeader[ProfileContext]
			if contextLink != nil && contentType != ApplicationJSONLDType {
				if len(contextLink) > 1 {
					return nil, NewJsonLdError(MultipleContextLinkHeaders, nil)
				}
				remoteDoc.ContextURL = contextLink[0]["target"]
			}

			alternateLink := parsedLinkHeader["alternate"]
			if len(alternateLink) > 0 &&
				alternateLink[0]["type"] == ApplicationJSONLDType &&
				!rApplicationJSON.MatchString(contentType) {

				finalURL := Resolve(u, alternateLink[0]["target"])
				remoteDoc, err = rcdl.LoadDocument(finalURL, opts)
				if err != nil {
					return nil, err
				}
			}
		}

		reasons, resExpireTime, err := cachecontrol.CachableResponse(req, res, cachecontrol.Options{})
		if err == nil && len(reasons) == 0 {
			shouldCache = true
			expireTime = resExpireTime
		}

		if remoteDoc.Document == nil {
			remoteDoc.Document, err = DocumentFromReader(res.Body)
			if err != nil {
				return nil, err
			}
		}
	}

	if shouldCache {
		rcdl.cache[u] = &cachedRemoteDocument{
			remoteDocument: remoteDoc,
			expireTime:     expireTime,
			neverExpires:   neverExpires,
		}
	}

	return remoteDoc, nil
}
