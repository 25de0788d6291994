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
)

// maxRemoteContexts bounds the number of remote context dereferences per run.
const maxRemoteContexts = 50

// contextDefinitionKeywords are the context entries handled before term
// definitions are created.
var contextDefinitionKeywords = map[string]bool{
	"@base":      true,
	"@direction": true,
	"@import":    true,
	"@language":  true,
	"@propagate": true,
	"@protected": true,
	"@version":   true,
	"@vocab":     true,
}

var bcp47Pattern = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)

// Parse processes a local context against this active context, retrieving
// remote contexts as necessary, and returns a new active context.
// See https://www.w3.org/TR/json-ld11-api/#context-processing-algorithm
func (c *Context) Parse(localContext interface{}) (*Context, error) {
	return c.processContext(localContext, c.originalBaseURL, nil, false, true, true)
}

// processContext folds a local context (string, map, array or null) into a
// new active context derived from c.
func (c *Context) processContext(localContext interface{}, baseURL string, remoteContexts []string,
	overrideProtected, propagate, validateScopedContext bool) (*Context, error) {

	// 1)
	result := c.Clone()

	// 2) an embedded @propagate overrides the parameter
	if ctxMap, isMap := localContext.(map[string]interface{}); isMap {
		if propagateValue, present := ctxMap["@propagate"]; present {
			if propagateBool, isBool := propagateValue.(bool); isBool {
				propagate = propagateBool
			}
		}
	}

	// 3)
	if !propagate && result.previousContext == nil {
		result.previousContext = c
	}

	// 4+5)
	for _, context := range Arrayify(localContext) {
		// 5.1) null resets the context
		if context == nil {
			if !overrideProtected && result.HasProtectedTerms() {
				return nil, NewJsonLdError(InvalidContextNullification,
					"tried to nullify a context with protected terms")
			}
			previous := result
			result = NewContext(c.options)
			result.originalBaseURL = c.originalBaseURL
			if c.originalBaseURL != "" {
				base := c.originalBaseURL
				result.base = &base
			} else {
				result.base = nil
			}
			if !propagate {
				result.previousContext = previous
			}
			continue
		}

		// 5.2) strings are remote context references
		if contextStr, isString := context.(string); isString {
			uri := Resolve(baseURL, contextStr)
			if !IsAbsoluteIri(uri) {
				return nil, NewJsonLdError(LoadingDocumentFailed,
					fmt.Sprintf("invalid context URL: %s", contextStr))
			}

			if !validateScopedContext && inStringArray(remoteContexts, uri) {
				continue
			}

			if len(remoteContexts) >= maxRemoteContexts {
				return nil, NewJsonLdError(ContextOverflow, uri)
			}
			remoteContexts = append(remoteContexts, uri)

			rd, err := c.options.DocumentLoader.LoadDocument(uri, &LoadDocumentOptions{
				Profile:        ProfileContext,
				RequestProfile: []string{ProfileContext},
			})
			if err != nil {
				return nil, NewJsonLdError(LoadingRemoteContextFailed, err)
			}
			remoteContextMap, isMap := rd.Document.(map[string]interface{})
			loadedContext, hasContextKey := remoteContextMap["@context"]
			if !isMap || !hasContextKey {
				return nil, NewJsonLdError(InvalidRemoteContext, uri)
			}

			result, err = result.processContext(loadedContext, rd.DocumentURL, remoteContexts,
				false, true, validateScopedContext)
			if err != nil {
				return nil, err
			}
			continue
		}

		// 5.3)
		contextMap, isMap := context.(map[string]interface{})
		if !isMap {
			return nil, NewJsonLdError(InvalidLocalContext, context)
		}

		// 5.5) @version
		if versionValue, present := contextMap["@version"]; present {
			if !isVersion11(versionValue) {
				return nil, NewJsonLdError(InvalidVersionValue, versionValue)
			}
			if c.options.ProcessingMode == JsonLd_1_0 {
				return nil, NewJsonLdError(ProcessingModeConflict, versionValue)
			}
			result.processingMode = JsonLd_1_1
		}

		// 5.6) @import
		if importValue, present := contextMap["@import"]; present {
			if !result.allows11() {
				return nil, NewJsonLdError(InvalidContextEntry, "@import")
			}
			importStr, isString := importValue.(string)
			if !isString {
				return nil, NewJsonLdError(InvalidImportValue, importValue)
			}
			uri := Resolve(baseURL, importStr)
			rd, err := c.options.DocumentLoader.LoadDocument(uri, &LoadDocumentOptions{
				Profile:        ProfileContext,
				RequestProfile: []string{ProfileContext},
			})
			if err != nil {
				return nil, NewJsonLdError(LoadingRemoteContextFailed, err)
			}
			remoteMap, isMap := rd.Document.(map[string]interface{})
			importedValue, hasContextKey := remoteMap["@context"]
			if !isMap || !hasContextKey {
				return nil, NewJsonLdError(InvalidRemoteContext, uri)
			}
			importedMap, isMap := importedValue.(map[string]interface{})
			if !isMap {
				return nil, NewJsonLdError(InvalidRemoteContext, uri)
			}
			if _, hasImport := importedMap["@import"]; hasImport {
				return nil, NewJsonLdError(InvalidContextEntry, "@import inside imported context")
			}
			// reverse merge: entries of the importing context win
			merged := make(map[string]interface{}, len(importedMap)+len(contextMap))
			for k, v := range importedMap {
				merged[k] = v
			}
			for k, v := range contextMap {
				if k != "@import" {
					merged[k] = v
				}
			}
			contextMap = merged
		}

		// 5.7) @base is only honored in the top-level context
		if baseValue, present := contextMap["@base"]; present && len(remoteContexts) == 0 {
			if baseValue == nil {
				result.setBase(nil)
			} else if baseStr, isString := baseValue.(string); isString {
				switch {
				case IsAbsoluteIri(baseStr):
					result.setBase(&baseStr)
				case result.base != nil:
					resolved := Resolve(*result.base, baseStr)
					result.setBase(&resolved)
				default:
					return nil, NewJsonLdError(InvalidBaseIRI, baseStr)
				}
			} else {
				return nil, NewJsonLdError(InvalidBaseIRI, "@base must be a string")
			}
		}

		// 5.8) @vocab
		if vocabValue, present := contextMap["@vocab"]; present {
			if vocabValue == nil {
				result.setVocab(nil)
			} else if vocabStr, isString := vocabValue.(string); isString {
				expanded, err := result.ExpandIri(vocabStr, true, true, nil, nil)
				if err != nil {
					return nil, err
				}
				if !IsAbsoluteIri(expanded) && expanded != "" {
					return nil, NewJsonLdError(InvalidVocabMapping,
						"@vocab must be an absolute IRI: "+vocabStr)
				}
				result.setVocab(&expanded)
			} else {
				return nil, NewJsonLdError(InvalidVocabMapping, "@vocab must be a string or null")
			}
		}

		// 5.9) @language
		if languageValue, present := contextMap["@language"]; present {
			if languageValue == nil {
				result.setDefaultLanguage(nil)
			} else if languageStr, isString := languageValue.(string); isString {
				if !bcp47Pattern.MatchString(languageStr) {
					c.options.warn(MalformedLanguageTag, languageStr)
				}
				lower := strings.ToLower(languageStr)
				result.setDefaultLanguage(&lower)
			} else {
				return nil, NewJsonLdError(InvalidDefaultLanguage, languageValue)
			}
		}

		// 5.10) @direction
		if directionValue, present := contextMap["@direction"]; present {
			if !result.allows11() {
				return nil, NewJsonLdError(InvalidContextEntry, "@direction")
			}
			if directionValue == nil {
				result.setDefaultDirection(nil)
			} else if directionStr, isString := directionValue.(string); isString && (directionStr == "ltr" || directionStr == "rtl") {
				result.setDefaultDirection(&directionStr)
			} else {
				return nil, NewJsonLdError(InvalidBaseDirection, directionValue)
			}
		}

		// 5.11) @propagate
		if propagateValue, present := contextMap["@propagate"]; present {
			if !result.allows11() {
				return nil, NewJsonLdError(InvalidContextEntry, "@propagate")
			}
			if _, isBool := propagateValue.(bool); !isBool {
				return nil, NewJsonLdError(InvalidPropagateValue, propagateValue)
			}
		}

		// 5.12) @protected default for this context definition
		protected := false
		if protectedValue, present := contextMap["@protected"]; present {
			if !result.allows11() {
				return nil, NewJsonLdError(InvalidContextEntry, "@protected")
			}
			protectedBool, isBool := protectedValue.(bool)
			if !isBool {
				return nil, NewJsonLdError(InvalidContextEntry, "@protected must be a boolean")
			}
			protected = protectedBool
		}

		// 5.13) create term definitions for the remaining keys
		defined := make(map[string]bool)
		for _, key := range GetOrderedKeys(contextMap) {
			if contextDefinitionKeywords[key] {
				continue
			}
			if err := result.createTermDefinition(contextMap, key, defined, baseURL,
				protected, overrideProtected, remoteContexts, validateScopedContext); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

func inStringArray(array []string, v string) bool {
	for _, x := range array {
		if x == v {
			return true
		}
	}
	return false
}

// isVersion11 accepts the number 1.1 in any of the representations the JSON
// decoder may produce.
func isVersion11(value interface{}) bool {
	switch v := value.(type) {
	case float64:
		return v == 1.1
	case json.Number:
		return v.String() == "1.1"
	default:
		return false
	}
}

// termDefinitionKeys are the entries a term definition map may carry.
var termDefinitionKeys = map[string]bool{
	"@container": true,
	"@context":   true,
	"@direction": true,
	"@id":        true,
	"@index":     true,
	"@language":  true,
	"@nest":      true,
	"@prefix":    true,
	"@protected": true,
	"@reverse":   true,
	"@type":      true,
}

// createTermDefinition creates a term definition in this active context for a
// term being processed in a local context.
// See https://www.w3.org/TR/json-ld11-api/#create-term-definition
func (c *Context) createTermDefinition(local map[string]interface{}, term string, defined map[string]bool,
	baseURL string, protected, overrideProtected bool, remoteContexts []string, validateScopedContext bool) error {

	// 1+2) cycle and re-entry guard
	if definedValue, inDefined := defined[term]; inDefined {
		if definedValue {
			return nil
		}
		return NewJsonLdError(CyclicIRIMapping, term)
	}

	if term == "" {
		return NewJsonLdError(InvalidTermDefinition, term)
	}

	defined[term] = false

	value := local[term]

	// 4+5) keyword handling: @type may be refined in 1.1, other keywords may
	// not be redefined, and reserved tokens are ignored with a warning
	if term == "@type" {
		valueMap, isMap := value.(map[string]interface{})
		if !c.allows11() || !isMap || len(valueMap) == 0 {
			return NewJsonLdError(KeywordRedefinition, term)
		}
		for k, v := range valueMap {
			switch k {
			case "@container":
				if v != "@set" {
					return NewJsonLdError(KeywordRedefinition, term)
				}
			case "@protected":
			default:
				return NewJsonLdError(KeywordRedefinition, term)
			}
		}
	} else if IsKeyword(term) {
		return NewJsonLdError(KeywordRedefinition, term)
	} else if HasKeywordForm(term) {
		c.options.warn(ReservedTermUsed, term)
		delete(defined, term)
		return nil
	}

	// 6)
	previousDefinition := c.termDefinitions[term]
	c.removeTermDefinition(term)

	// 7-9) normalize the value to a map
	simpleTerm := false
	var valueMap map[string]interface{}
	switch v := value.(type) {
	case nil:
		valueMap = map[string]interface{}{"@id": nil}
	case string:
		valueMap = map[string]interface{}{"@id": v}
		simpleTerm = true
	case map[string]interface{}:
		valueMap = v
	default:
		return NewJsonLdError(InvalidTermDefinition, value)
	}

	// 10)
	definition := &TermDefinition{Protected: protected, SimpleTerm: simpleTerm}

	// 11) @protected
	if protectedValue, present := valueMap["@protected"]; present {
		if !c.allows11() {
			return NewJsonLdError(InvalidTermDefinition, "@protected requires JSON-LD 1.1")
		}
		protectedBool, isBool := protectedValue.(bool)
		if !isBool {
			return NewJsonLdError(InvalidTermDefinition, "@protected must be a boolean")
		}
		definition.Protected = protectedBool
	}

	// 12) @type
	if typeValue, present := valueMap["@type"]; present {
		typeStr, isString := typeValue.(string)
		if !isString {
			return NewJsonLdError(InvalidTypeMapping, typeValue)
		}
		typeIri, err := c.ExpandIri(typeStr, false, true, local, defined)
		if err != nil {
			if jsonLdErr, isJsonLdErr := err.(*JsonLdError); isJsonLdErr && jsonLdErr.Code != InvalidIRIMapping {
				return err
			}
			return NewJsonLdError(InvalidTypeMapping, typeStr)
		}
		if (typeIri == "@json" || typeIri == "@none") && !c.allows11() {
			return NewJsonLdError(InvalidTypeMapping, typeIri)
		}
		if typeIri != "@id" && typeIri != "@vocab" && typeIri != "@json" && typeIri != "@none" &&
			(IsBlankNodeIdentifier(typeIri) || !IsAbsoluteIri(typeIri)) {
			return NewJsonLdError(InvalidTypeMapping, typeIri)
		}
		definition.Type = typeIri
	}

	// 13) @reverse commits the definition and returns without sweeping for
	// unrecognized keys, matching the reference behavior
	if reverseValue, present := valueMap["@reverse"]; present {
		if _, idPresent := valueMap["@id"]; idPresent {
			return NewJsonLdError(InvalidReverseProperty, valueMap)
		}
		if _, nestPresent := valueMap["@nest"]; nestPresent {
			return NewJsonLdError(InvalidReverseProperty, valueMap)
		}
		reverseStr, isString := reverseValue.(string)
		if !isString {
			return NewJsonLdError(InvalidIRIMapping,
				fmt.Sprintf("expected string for @reverse value, got %v", reverseValue))
		}
		if IsKeyword(reverseStr) {
			return NewJsonLdError(InvalidIRIMapping, "@reverse value must not be a keyword")
		}
		if HasKeywordForm(reverseStr) {
			c.options.warn(ReservedTermUsed, reverseStr)
			delete(defined, term)
			return nil
		}
		reverse, err := c.ExpandIri(reverseStr, false, true, local, defined)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(reverse) {
			return NewJsonLdError(InvalidIRIMapping, "non-absolute @reverse IRI: "+reverse)
		}
		definition.IRI = reverse
		definition.HasIRI = true

		if containerValue, present := valueMap["@container"]; present {
			switch containerValue {
			case nil:
			case "@set", "@index":
				definition.Container = []string{containerValue.(string)}
			default:
				return NewJsonLdError(InvalidReverseProperty,
					"reverse properties only support set and index containers")
			}
		}
		definition.Reverse = true
		return c.commitTermDefinition(term, definition, previousDefinition, overrideProtected, defined)
	}

	// 14)
	definition.Reverse = false

	// 15-19) establish the IRI mapping
	idValue, hasID := valueMap["@id"]
	switch {
	case hasID && idValue == nil:
		// the term is mapped to null: its uses are dropped during expansion
	case hasID && idValue != term:
		idStr, isString := idValue.(string)
		if !isString {
			return NewJsonLdError(InvalidIRIMapping, "expected value of @id to be a string")
		}
		if !IsKeyword(idStr) && HasKeywordForm(idStr) {
			c.options.warn(ReservedTermUsed, idStr)
			delete(defined, term)
			return nil
		}
		res, err := c.ExpandIri(idStr, false, true, local, defined)
		if err != nil {
			return err
		}
		if !IsKeyword(res) && !IsAbsoluteIri(res) {
			return NewJsonLdError(InvalidIRIMapping,
				"the IRI mapping must be a keyword, absolute IRI or blank node: "+res)
		}
		if res == "@context" {
			return NewJsonLdError(InvalidKeywordAlias, "cannot alias @context")
		}
		definition.IRI = res
		definition.HasIRI = true

		innerColon := strings.Index(term[1:], ":")
		if (innerColon >= 0 && innerColon < len(term)-2) || strings.Contains(term, "/") {
			// the term is compact-IRI- or path-shaped; it must expand to the
			// same IRI through its own parts
			defined[term] = true
			expandedTerm, err := c.ExpandIri(term, false, true, local, defined)
			if err != nil {
				return err
			}
			if expandedTerm != definition.IRI {
				return NewJsonLdError(InvalidIRIMapping,
					"term has a different expansion than its @id: "+term)
			}
		} else if simpleTerm && (endsWithGenDelim(definition.IRI) || IsBlankNodeIdentifier(definition.IRI)) {
			definition.Prefix = true
		}
	case strings.Index(term[1:], ":") >= 0:
		colIndex := strings.Index(term[1:], ":") + 1
		prefix := term[:colIndex]
		suffix := term[colIndex+1:]
		if _, containsPrefix := local[prefix]; containsPrefix {
			if err := c.createTermDefinition(local, prefix, defined, baseURL,
				false, false, remoteContexts, validateScopedContext); err != nil {
				return err
			}
		}
		if prefixDef := c.termDefinitions[prefix]; prefixDef != nil && prefixDef.HasIRI {
			definition.IRI = prefixDef.IRI + suffix
		} else {
			definition.IRI = term
		}
		definition.HasIRI = true
	case strings.Contains(term, "/"):
		res, err := c.ExpandIri(term, false, true, local, defined)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(res) {
			return NewJsonLdError(InvalidIRIMapping, "relative path term: "+term)
		}
		definition.IRI = res
		definition.HasIRI = true
	case term == "@type":
		definition.IRI = "@type"
		definition.HasIRI = true
	default:
		if c.vocab == nil {
			return NewJsonLdError(InvalidIRIMapping,
				"relative term definition without vocab mapping: "+term)
		}
		definition.IRI = *c.vocab + term
		definition.HasIRI = true
	}

	// 20) @container
	if containerValue, hasContainer := valueMap["@container"]; hasContainer {
		if !IsValidContainer(containerValue) {
			return NewJsonLdError(InvalidContainerMapping, containerValue)
		}
		var container []string
		for _, v := range Arrayify(containerValue) {
			container = append(container, v.(string))
		}
		if !c.allows11() {
			if len(container) != 1 {
				return NewJsonLdError(InvalidContainerMapping,
					"@container must be a single value in JSON-LD 1.0")
			}
			switch container[0] {
			case "@list", "@set", "@index", "@language":
			default:
				return NewJsonLdError(InvalidContainerMapping, container[0])
			}
		}
		definition.Container = container

		if definition.HasContainer("@type") {
			if definition.Type == "" {
				definition.Type = "@id"
			} else if definition.Type != "@id" && definition.Type != "@vocab" {
				return NewJsonLdError(InvalidTypeMapping,
					"@container: @type requires @type to be @id or @vocab")
			}
		}
	}

	// 21) @index
	if indexValue, present := valueMap["@index"]; present {
		if !c.allows11() {
			return NewJsonLdError(InvalidTermDefinition, "@index requires JSON-LD 1.1")
		}
		if !definition.HasContainer("@index") {
			return NewJsonLdError(InvalidTermDefinition,
				"@index without @index container mapping")
		}
		indexStr, isString := indexValue.(string)
		if !isString {
			return NewJsonLdError(InvalidTermDefinition, indexValue)
		}
		expandedIndex, err := c.ExpandIri(indexStr, false, true, local, defined)
		if err != nil || !IsAbsoluteIri(expandedIndex) {
			return NewJsonLdError(InvalidTermDefinition, indexStr)
		}
		definition.Index = indexStr
	}

	// 22) @context is stored unprocessed; it is validated here and processed
	// when the term comes into play
	if contextValue, present := valueMap["@context"]; present {
		if !c.allows11() {
			return NewJsonLdError(InvalidTermDefinition, "scoped contexts require JSON-LD 1.1")
		}
		if _, err := c.processContext(contextValue, baseURL,
			copyStrings(remoteContexts), true, true, false); err != nil {
			return NewJsonLdError(InvalidScopedContext, err)
		}
		definition.Context = contextValue
		definition.HasContext = true
		definition.BaseURL = baseURL
	}

	// 23) @language
	_, hasType := valueMap["@type"]
	if languageValue, hasLanguage := valueMap["@language"]; hasLanguage && !hasType {
		switch language := languageValue.(type) {
		case nil:
			definition.HasLanguage = true
		case string:
			if !bcp47Pattern.MatchString(language) {
				c.options.warn(MalformedLanguageTag, language)
			}
			definition.Language = strings.ToLower(language)
			definition.HasLanguage = true
		default:
			return NewJsonLdError(InvalidLanguageMapping, "@language must be a string or null")
		}
	}

	// 24) @direction
	if directionValue, hasDirection := valueMap["@direction"]; hasDirection && !hasType {
		if !c.allows11() {
			return NewJsonLdError(InvalidTermDefinition, "@direction requires JSON-LD 1.1")
		}
		switch direction := directionValue.(type) {
		case nil:
			definition.HasDirection = true
		case string:
			if direction != "ltr" && direction != "rtl" {
				return NewJsonLdError(InvalidBaseDirection, direction)
			}
			definition.Direction = direction
			definition.HasDirection = true
		default:
			return NewJsonLdError(InvalidBaseDirection, directionValue)
		}
	}

	// 25) @nest
	if nestValue, present := valueMap["@nest"]; present {
		if !c.allows11() {
			return NewJsonLdError(InvalidTermDefinition, "@nest requires JSON-LD 1.1")
		}
		nestStr, isString := nestValue.(string)
		if !isString || (IsKeyword(nestStr) && nestStr != "@nest") {
			return NewJsonLdError(InvalidNestValue, nestValue)
		}
		definition.Nest = nestStr
	}

	// 26) @prefix
	if prefixValue, present := valueMap["@prefix"]; present {
		if !c.allows11() {
			return NewJsonLdError(InvalidTermDefinition, "@prefix requires JSON-LD 1.1")
		}
		if strings.Contains(term, ":") || strings.Contains(term, "/") {
			return NewJsonLdError(InvalidTermDefinition,
				"@prefix is not allowed on compact IRI or path terms")
		}
		prefixBool, isBool := prefixValue.(bool)
		if !isBool {
			return NewJsonLdError(InvalidPrefixValue, prefixValue)
		}
		if prefixBool && IsKeyword(definition.IRI) {
			return NewJsonLdError(InvalidTermDefinition,
				"keyword aliases may not be used as prefixes")
		}
		definition.Prefix = prefixBool
	}

	// 27)
	for key := range valueMap {
		if !termDefinitionKeys[key] {
			return NewJsonLdError(InvalidTermDefinition,
				fmt.Sprintf("unknown entry %s in definition of %s", key, term))
		}
	}

	return c.commitTermDefinition(term, definition, previousDefinition, overrideProtected, defined)
}

// commitTermDefinition enforces the protection invariant and installs the
// definition.
func (c *Context) commitTermDefinition(term string, definition, previousDefinition *TermDefinition,
	overrideProtected bool, defined map[string]bool) error {

	if !overrideProtected && previousDefinition != nil && previousDefinition.Protected {
		check := definition.Clone()
		check.Protected = previousDefinition.Protected
		if !check.Equivalent(previousDefinition) {
			return NewJsonLdError(ProtectedTermRedefinition, term)
		}
		definition = previousDefinition
	}

	c.setTermDefinition(term, definition)
	defined[term] = true
	return nil
}

func endsWithGenDelim(iri string) bool {
	if iri == "" {
		return false
	}
	switch iri[len(iri)-1] {
	case ':', '/', '?', '#', '[', ']', '@':
		return true
	}
	return false
}

func copyStrings(values []string) []string {
	clone := make([]string, len(values))
	copy(clone, values)
	return clone
}

// ExpandIri expands a string value to an absolute IRI, keyword, or blank node
// identifier using the active context.
//
// documentRelative resolves relative IRIs against the base IRI; vocab
// concatenates the vocabulary mapping. local and defined are only given
// during context processing, allowing undefined dependencies to be defined on
// demand. An empty result means the value expands to null and its uses are
// dropped.
func (c *Context) ExpandIri(value string, documentRelative bool, vocab bool,
	local map[string]interface{}, defined map[string]bool) (string, error) {

	// 1)
	if IsKeyword(value) {
		return value, nil
	}
	if HasKeywordForm(value) {
		c.options.warn(ReservedTermUsed, value)
		return "", nil
	}

	// 2) define dependencies first when processing a local context
	if local != nil {
		if _, containsKey := local[value]; containsKey && !defined[value] {
			if err := c.createTermDefinition(local, value, defined, "", false, false, nil, true); err != nil {
				return "", err
			}
		}
	}

	// 3) keyword aliases take effect regardless of vocab
	if td := c.termDefinitions[value]; td != nil && IsKeyword(td.IRI) {
		return td.IRI, nil
	}
	// 3.1)
	if td, hasTermDef := c.termDefinitions[value]; vocab && hasTermDef {
		if td == nil || !td.HasIRI {
			return "", nil
		}
		return td.IRI, nil
	}

	// 4) compact IRIs
	if len(value) > 1 {
		colIndex := strings.Index(value[1:], ":")
		if colIndex >= 0 {
			prefix := value[:colIndex+1]
			suffix := value[colIndex+2:]
			// 4.2)
			if prefix == "_" || strings.HasPrefix(suffix, "//") {
				return value, nil
			}
			// 4.3)
			if local != nil {
				if _, containsPrefix := local[prefix]; containsPrefix && !defined[prefix] {
					if err := c.createTermDefinition(local, prefix, defined, "", false, false, nil, true); err != nil {
						return "", err
					}
				}
			}
			// 4.4)
			if td := c.termDefinitions[prefix]; td != nil && td.HasIRI && td.Prefix {
				return td.IRI + suffix, nil
			}
			// 4.5)
			if IsAbsoluteIri(value) {
				return value, nil
			}
		}
	}

	// 5)
	if vocab && c.vocab != nil {
		return *c.vocab + value, nil
	}

	// 6)
	if documentRelative {
		return Resolve(c.Base(), value), nil
	}

	if local != nil && IsRelativeIri(value) {
		return "", NewJsonLdError(InvalidIRIMapping, "not an absolute IRI: "+value)
	}

	// 7)
	return value, nil
}
