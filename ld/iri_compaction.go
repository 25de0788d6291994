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
	"strings"
)

// CompactIri compacts an IRI or keyword into a term, compact IRI or keyword
// alias using the active context. The value the IRI decorates, if any, steers
// term selection through the container preference table.
// See https://www.w3.org/TR/json-ld11-api/#iri-compaction
func (c *Context) CompactIri(iri string, value interface{}, vocab bool, reverse bool) (string, error) {
	// 1)
	if iri == "" {
		return iri, nil
	}

	if vocab {
		if _, containsIRI := c.getInverse()[iri]; containsIRI {
			if term := c.selectCompactionTerm(iri, value, reverse); term != "" {
				return term, nil
			}
		}

		// 3) use the suffix after the vocabulary mapping, unless a term
		// definition hijacks it
		if c.vocab != nil {
			vocabStr := *c.vocab
			if strings.HasPrefix(iri, vocabStr) && iri != vocabStr {
				suffix := iri[len(vocabStr):]
				if _, hasSuffix := c.termDefinitions[suffix]; !hasSuffix {
					return suffix, nil
				}
			}
		}
	}

	// 4) compact IRI construction: shortest-least candidate over prefix terms
	compactIRI := ""
	for term, definition := range c.termDefinitions {
		if definition == nil || !definition.HasIRI || !definition.Prefix {
			continue
		}
		if iri == definition.IRI || !strings.HasPrefix(iri, definition.IRI) {
			continue
		}

		candidate := term + ":" + iri[len(definition.IRI):]
		candidateDef, containsCandidate := c.termDefinitions[candidate]
		ok := !containsCandidate ||
			(candidateDef != nil && candidateDef.IRI == iri && value == nil)
		if ok && (compactIRI == "" || CompareShortestLeast(candidate, compactIRI)) {
			compactIRI = candidate
		}
	}

	if compactIRI != "" {
		return compactIRI, nil
	}

	// 5) an IRI whose scheme collides with a prefix term and that carries no
	// authority would not survive a round trip
	if colIndex := strings.Index(iri, ":"); colIndex > 0 {
		scheme := iri[:colIndex]
		if td := c.termDefinitions[scheme]; td != nil && td.Prefix &&
			!strings.HasPrefix(iri[colIndex+1:], "//") {
			return "", NewJsonLdError(IRIConfusedWithPrefix, iri)
		}
	}

	// 6)
	if !vocab && c.options.CompactToRelative {
		return RemoveBase(c.Base(), iri), nil
	}

	// 7)
	return iri, nil
}

// selectCompactionTerm derives the container preferences and type/language
// preferences for the given value shape and runs Term Selection.
func (c *Context) selectCompactionTerm(iri string, value interface{}, reverse bool) string {
	// 2.1)
	defaultLanguage := "@none"
	if c.defaultDirection != nil && *c.defaultDirection != "" {
		defaultLanguage = strings.ToLower(c.DefaultLanguage() + "_" + *c.defaultDirection)
	} else if c.defaultLanguage != nil {
		defaultLanguage = strings.ToLower(*c.defaultLanguage)
	}

	valueMap, isMap := value.(map[string]interface{})
	if preserveVal, hasPreserve := valueMap["@preserve"]; isMap && hasPreserve {
		value = Arrayify(preserveVal)[0]
		valueMap, isMap = value.(map[string]interface{})
	}

	containers := make([]string, 0, 8)
	typeLanguage := "@language"
	typeLanguageValue := "@null"

	_, hasIndex := valueMap["@index"]
	if isMap && hasIndex && !IsGraph(value) {
		containers = append(containers, "@index", "@index@set")
	}

	switch {
	case reverse:
		typeLanguage = "@type"
		typeLanguageValue = "@reverse"
		containers = append(containers, "@set")

	case IsList(value):
		if !hasIndex {
			containers = append(containers, "@list")
		}
		list := Arrayify(valueMap["@list"])
		commonLanguage := ""
		commonType := ""
		if len(list) == 0 {
			commonLanguage = defaultLanguage
		}
		for _, item := range list {
			itemLanguage := "@none"
			itemType := "@none"
			if IsValue(item) {
				itemMap := item.(map[string]interface{})
				langVal, hasLang := itemMap["@language"]
				dirVal, hasDir := itemMap["@direction"]
				typeVal, hasType := itemMap["@type"]
				switch {
				case hasDir:
					lang := ""
					if hasLang {
						lang = langVal.(string)
					}
					itemLanguage = strings.ToLower(lang + "_" + dirVal.(string))
				case hasLang:
					itemLanguage = strings.ToLower(langVal.(string))
				case hasType:
					itemType = typeVal.(string)
				default:
					itemLanguage = "@null"
				}
			} else {
				itemType = "@id"
			}

			if commonLanguage == "" {
				commonLanguage = itemLanguage
			} else if commonLanguage != itemLanguage && IsValue(item) {
				commonLanguage = "@none"
			}
			if commonType == "" {
				commonType = itemType
			} else if commonType != itemType {
				commonType = "@none"
			}
			if commonLanguage == "@none" && commonType == "@none" {
				break
			}
		}
		if commonLanguage == "" {
			commonLanguage = "@none"
		}
		if commonType == "" {
			commonType = "@none"
		}
		if commonType != "@none" {
			typeLanguage = "@type"
			typeLanguageValue = commonType
		} else {
			typeLanguageValue = commonLanguage
		}

	case IsGraph(value):
		if hasIndex {
			containers = append(containers, "@graph@index", "@graph@index@set")
		}
		if _, hasID := valueMap["@id"]; hasID {
			containers = append(containers, "@graph@id", "@graph@id@set")
		}
		containers = append(containers, "@graph", "@graph@set", "@set")
		if !hasIndex {
			containers = append(containers, "@graph@index", "@graph@index@set")
		}
		if _, hasID := valueMap["@id"]; !hasID {
			containers = append(containers, "@graph@id", "@graph@id@set")
		}
		containers = append(containers, "@index", "@index@set")
		typeLanguage = "@type"
		typeLanguageValue = "@id"

	default:
		if IsValue(value) {
			langVal, hasLang := valueMap["@language"]
			dirVal, hasDir := valueMap["@direction"]
			typeVal, hasType := valueMap["@type"]
			switch {
			case hasLang && !hasIndex:
				containers = append(containers, "@language", "@language@set")
				typeLanguageValue = strings.ToLower(langVal.(string))
				if hasDir {
					typeLanguageValue = strings.ToLower(langVal.(string) + "_" + dirVal.(string))
				}
			case hasDir && !hasIndex:
				typeLanguageValue = "_" + dirVal.(string)
			case hasType:
				typeLanguage = "@type"
				typeLanguageValue = typeVal.(string)
			}
		} else {
			typeLanguage = "@type"
			typeLanguageValue = "@id"
			containers = append(containers, "@id", "@id@set", "@type", "@set@type")
		}
		containers = append(containers, "@set")
	}

	// 2.8)
	containers = append(containers, "@none")
	if c.allows11() && (!isMap || !hasIndex) {
		containers = append(containers, "@index", "@index@set")
	}
	if c.allows11() && isMap && len(valueMap) == 1 && IsValue(value) {
		containers = append(containers, "@language", "@language@set")
	}

	// 2.9)
	if typeLanguageValue == "" {
		typeLanguageValue = "@null"
	}

	// 2.10-2.13)
	preferredValues := make([]string, 0, 4)
	if typeLanguageValue == "@reverse" {
		preferredValues = append(preferredValues, "@reverse")
	}
	idVal, hasID := valueMap["@id"]
	if (typeLanguageValue == "@reverse" || typeLanguageValue == "@id") && isMap && hasID {
		idStr, _ := idVal.(string)
		compacted, err := c.CompactIri(idStr, nil, true, true)
		if err == nil {
			if td := c.termDefinitions[compacted]; td != nil && td.IRI == idStr {
				preferredValues = append(preferredValues, "@vocab", "@id")
			} else {
				preferredValues = append(preferredValues, "@id", "@vocab")
			}
		} else {
			preferredValues = append(preferredValues, "@id", "@vocab")
		}
	} else {
		if IsList(value) && len(Arrayify(valueMap["@list"])) == 0 {
			typeLanguage = "@any"
		}
		preferredValues = append(preferredValues, typeLanguageValue)
	}
	preferredValues = append(preferredValues, "@none")
	preferredValues = append(preferredValues, "@any")

	// a language+direction preference also matches a bare direction entry
	for _, v := range preferredValues {
		if idx := strings.IndexRune(v, '_'); idx > 0 {
			preferredValues = append(preferredValues, v[idx:])
		}
	}

	// 2.14)
	return c.SelectTerm(iri, containers, typeLanguage, preferredValues)
}

// CompactValue performs value compaction on a value object or subject
// reference against the active property's mappings.
// See https://www.w3.org/TR/json-ld11-api/#value-compaction
func (c *Context) CompactValue(activeProperty string, value map[string]interface{}) (interface{}, error) {
	td := c.GetTermDefinition(activeProperty)

	// effective language: term mapping (an explicit null clears the default)
	language := ""
	hasLanguage := false
	if td != nil && td.HasLanguage {
		language = td.Language
		hasLanguage = language != ""
	} else if c.defaultLanguage != nil {
		language = *c.defaultLanguage
		hasLanguage = true
	}

	direction := ""
	hasDirection := false
	if td != nil && td.HasDirection {
		direction = td.Direction
		hasDirection = direction != ""
	} else if c.defaultDirection != nil {
		direction = *c.defaultDirection
		hasDirection = true
	}

	typeMapping := ""
	if td != nil {
		typeMapping = td.Type
	}

	_, hasIndex := value["@index"]
	indexContainer := td.HasContainer("@index")
	preservedIndex := hasIndex && !indexContainer

	// subject references compact to their (possibly vocab-relative) IRI when
	// the term is id- or vocab-coercing
	if idVal, hasID := value["@id"]; hasID && (len(value) == 1 || (len(value) == 2 && hasIndex && !preservedIndex)) {
		idStr, isString := idVal.(string)
		if isString {
			switch typeMapping {
			case "@id":
				return c.CompactIri(idStr, nil, false, false)
			case "@vocab":
				return c.CompactIri(idStr, nil, true, false)
			}
		}
		return c.compactKeywordKeys(value)
	}

	valueValue := value["@value"]
	typeVal, hasType := value["@type"]

	switch {
	case hasType && typeVal == typeMapping && !preservedIndex:
		// 6)
		return valueValue, nil

	case typeMapping == "@none" || (hasType && typeVal != typeMapping):
		// 7) keep the value object, compacting any @type IRIs
		result := make(map[string]interface{}, len(value))
		for k, v := range value {
			result[k] = v
		}
		if hasType {
			compactedTypes := make([]interface{}, 0, 1)
			for _, t := range Arrayify(typeVal) {
				ct, err := c.CompactIri(t.(string), nil, true, false)
				if err != nil {
					return nil, err
				}
				compactedTypes = append(compactedTypes, ct)
			}
			if len(compactedTypes) == 1 {
				result["@type"] = compactedTypes[0]
			} else {
				result["@type"] = compactedTypes
			}
		}
		return c.compactKeywordKeys(result)

	default:
		_, isString := valueValue.(string)
		if !isString {
			// 8)
			if !hasIndex || indexContainer {
				return valueValue, nil
			}
			return c.compactKeywordKeys(value)
		}

		// 9) a string @value unwraps only when the effective language and
		// direction would restore the same tags on expansion
		langVal, hasLangEntry := value["@language"]
		dirVal, hasDirEntry := value["@direction"]

		languageMatches := false
		if hasLangEntry {
			langStr, _ := langVal.(string)
			languageMatches = hasLanguage && strings.EqualFold(langStr, language)
		} else {
			languageMatches = !hasLanguage
		}

		directionMatches := false
		if hasDirEntry {
			dirStr, _ := dirVal.(string)
			directionMatches = hasDirection && dirStr == direction
		} else {
			directionMatches = !hasDirection
		}

		if languageMatches && directionMatches && (!hasIndex || indexContainer) {
			return valueValue, nil
		}
		return c.compactKeywordKeys(value)
	}
}

// compactKeywordKeys rewrites the keys of a value object through their
// keyword aliases. Every entry is kept, @index included.
func (c *Context) compactKeywordKeys(value map[string]interface{}) (interface{}, error) {
	result := make(map[string]interface{}, len(value))
	for _, k := range GetOrderedKeys(value) {
		alias, err := c.CompactIri(k, nil, true, false)
		if err != nil {
			return nil, err
		}
		result[alias] = value[k]
	}
	return result, nil
}
