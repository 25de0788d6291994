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
	"fmt"
	"sort"
	"strings"
)

// Expand transforms element into expanded form.
// See https://www.w3.org/TR/json-ld11-api/#expansion-algorithm
//
// activeProperty is "" at the top level. fromMap is set when expanding values
// of an index map, suppressing the previous-context pop.
func (api *JsonLdApi) Expand(activeCtx *Context, activeProperty string, element interface{},
	opts *JsonLdOptions, fromMap bool) (interface{}, error) {

	// 1)
	if element == nil {
		return nil, nil
	}

	frameExpansion := opts.FrameExpansion
	if activeProperty == "@default" {
		frameExpansion = false
	}

	propertyTd := activeCtx.GetTermDefinition(activeProperty)

	switch elem := element.(type) {
	case []interface{}:
		// 5.1)
		resultList := make([]interface{}, 0, len(elem))
		// 5.2)
		for _, item := range elem {
			v, err := api.Expand(activeCtx, activeProperty, item, opts, fromMap)
			if err != nil {
				return nil, err
			}
			// 5.2.2) nested arrays under a list container become lists
			if activeProperty != "@list" && propertyTd.HasContainer("@list") {
				if vList, isList := v.([]interface{}); isList {
					v = map[string]interface{}{"@list": vList}
				}
			}
			if v == nil {
				continue
			}
			// 5.2.3) flatten one level
			if vList, isList := v.([]interface{}); isList {
				resultList = append(resultList, vList...)
			} else {
				resultList = append(resultList, v)
			}
		}
		// 5.3)
		return resultList, nil

	case map[string]interface{}:
		return api.expandMap(activeCtx, activeProperty, elem, opts, fromMap, frameExpansion)

	default:
		// 4) scalars
		// 4.1)
		if activeProperty == "" || activeProperty == "@graph" {
			return nil, nil
		}
		// 4.2) apply the property-scoped context
		if propertyTd != nil && propertyTd.HasContext {
			newCtx, err := activeCtx.processContext(propertyTd.Context, propertyTd.BaseURL, nil, true, true, true)
			if err != nil {
				return nil, err
			}
			activeCtx = newCtx
		}
		// 4.3)
		return activeCtx.ExpandValue(activeProperty, element)
	}
}

func (api *JsonLdApi) expandMap(activeCtx *Context, activeProperty string, elem map[string]interface{},
	opts *JsonLdOptions, fromMap bool, frameExpansion bool) (interface{}, error) {

	// 6) the property-scoped context comes from the term definition before
	// any type-scoped context is popped
	propertyTd := activeCtx.GetTermDefinition(activeProperty)

	// 7) pop a non-propagating type-scoped context unless it applies here
	if activeCtx.PreviousContext() != nil && !fromMap {
		revert := true
		for key := range elem {
			expandedKey, err := activeCtx.ExpandIri(key, false, true, nil, nil)
			if err != nil {
				return nil, err
			}
			if expandedKey == "@value" || (expandedKey == "@id" && len(elem) == 1) {
				revert = false
				break
			}
		}
		if revert {
			activeCtx = activeCtx.RevertToPreviousContext()
		}
	}

	// 8) apply the property-scoped context
	if propertyTd != nil && propertyTd.HasContext {
		newCtx, err := activeCtx.processContext(propertyTd.Context, propertyTd.BaseURL, nil, true, true, true)
		if err != nil {
			return nil, err
		}
		activeCtx = newCtx
	}

	// 9) apply the local context
	if ctx, hasContext := elem["@context"]; hasContext {
		newCtx, err := activeCtx.Parse(ctx)
		if err != nil {
			return nil, err
		}
		activeCtx = newCtx
	}

	// 10) type-scoped terms resolve against the context established so far
	typeScopedCtx := activeCtx

	// 11) apply type-scoped contexts, keys then values in lexicographic
	// order, without propagation
	inputType := ""
	for _, key := range GetOrderedKeys(elem) {
		expandedKey, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		if expandedKey != "@type" {
			continue
		}
		types := make([]string, 0)
		for _, t := range Arrayify(elem[key]) {
			if typeStr, isString := t.(string); isString {
				types = append(types, typeStr)
			}
		}
		sort.Strings(types)
		for _, tt := range types {
			td := typeScopedCtx.GetTermDefinition(tt)
			if td != nil && td.HasContext {
				newCtx, err := activeCtx.processContext(td.Context, td.BaseURL, nil, false, false, true)
				if err != nil {
					return nil, err
				}
				activeCtx = newCtx
			}
		}
		if len(types) > 0 {
			inputType, err = typeScopedCtx.ExpandIri(types[len(types)-1], false, true, nil, nil)
			if err != nil {
				return nil, err
			}
		}
	}

	expandedActiveProperty, err := activeCtx.ExpandIri(activeProperty, false, true, nil, nil)
	if err != nil {
		return nil, err
	}

	// 12+13)
	resultMap := make(map[string]interface{})
	if err := api.expandEntries(activeCtx, typeScopedCtx, activeProperty, expandedActiveProperty,
		elem, resultMap, inputType, opts, frameExpansion); err != nil {
		return nil, err
	}

	// 15) value object validation
	_, isValueObject := resultMap["@value"]
	if rval, hasValue := resultMap["@value"]; hasValue {
		for key := range resultMap {
			switch key {
			case "@value", "@index", "@language", "@type", "@direction":
			default:
				return nil, NewJsonLdError(InvalidValueObject, "value object has unknown keys")
			}
		}
		typeValue, hasType := resultMap["@type"]
		_, hasLanguage := resultMap["@language"]
		_, hasDirection := resultMap["@direction"]
		if hasType && (hasLanguage || hasDirection) {
			return nil, NewJsonLdError(InvalidValueObject,
				"an element containing @value may not contain both @type and @language or @direction")
		}
		switch {
		case typeValue == "@json":
			// @json literals carry any JSON value
		case rval == nil:
			// 15.3)
			if !frameExpansion {
				return nil, nil
			}
		case hasLanguage:
			for _, v := range Arrayify(rval) {
				if _, isString := v.(string); !(isString || isEmptyObject(v)) {
					return nil, NewJsonLdError(InvalidLanguageTaggedValue,
						"only strings may be language-tagged")
				}
			}
		case hasType:
			for _, v := range Arrayify(typeValue) {
				vStr, isString := v.(string)
				if !(isEmptyObject(v) || (isString && IsAbsoluteIri(vStr) && !IsBlankNodeIdentifier(vStr))) {
					return nil, NewJsonLdError(InvalidTypedValue,
						"@type of a value object must be an absolute IRI")
				}
			}
		default:
			_, isMap := rval.(map[string]interface{})
			_, isList := rval.([]interface{})
			if (isMap || isList) && !frameExpansion {
				return nil, NewJsonLdError(InvalidValueObjectValue,
					"@value must be a scalar or null")
			}
		}
	}

	// 16) @type values of node objects are always arrays
	if rtype, hasType := resultMap["@type"]; hasType && !isValueObject {
		if _, isList := rtype.([]interface{}); !isList {
			resultMap["@type"] = []interface{}{rtype}
		}
	} else if rset, hasSet := resultMap["@set"]; hasSet {
		// 17)
		maxSize := 1
		if _, hasIndex := resultMap["@index"]; hasIndex {
			maxSize = 2
		}
		if len(resultMap) > maxSize {
			return nil, NewJsonLdError(InvalidSetOrListObject, "@set may only be combined with @index")
		}
		return rset, nil
	} else if _, hasList := resultMap["@list"]; hasList {
		maxSize := 1
		if _, hasIndex := resultMap["@index"]; hasIndex {
			maxSize = 2
		}
		if len(resultMap) > maxSize {
			return nil, NewJsonLdError(InvalidSetOrListObject, "@list may only be combined with @index")
		}
	}

	var result interface{} = resultMap
	// 18) maps with only @language are dropped
	if _, hasLanguage := resultMap["@language"]; hasLanguage && len(resultMap) == 1 {
		result = nil
		resultMap = nil
	}
	// 19) free-floating values are dropped
	if activeProperty == "" || activeProperty == "@graph" {
		if resultMap != nil {
			_, hasValue := resultMap["@value"]
			_, hasList := resultMap["@list"]
			_, hasID := resultMap["@id"]
			if !frameExpansion && (len(resultMap) == 0 || hasValue || hasList) {
				result = nil
			} else if !frameExpansion && hasID && len(resultMap) == 1 {
				result = nil
			}
		}
	}
	return result, nil
}

// expandEntries runs the per-entry loop of the expansion algorithm. It is
// shared with @nest processing.
func (api *JsonLdApi) expandEntries(activeCtx, typeScopedCtx *Context, activeProperty, expandedActiveProperty string,
	elem map[string]interface{}, resultMap map[string]interface{}, inputType string,
	opts *JsonLdOptions, frameExpansion bool) error {

	nests := make([]string, 0)

	for _, key := range GetOrderedKeys(elem) {
		value := elem[key]
		// 13.1)
		if key == "@context" {
			continue
		}
		// 13.2)
		expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return err
		}
		// 13.3)
		if expandedProperty == "" || (!strings.Contains(expandedProperty, ":") && !IsKeyword(expandedProperty)) {
			continue
		}

		// 13.4) keywords
		if IsKeyword(expandedProperty) {
			if err := api.expandKeywordEntry(activeCtx, typeScopedCtx, activeProperty, expandedActiveProperty,
				expandedProperty, key, value, elem, resultMap, &nests, inputType, opts, frameExpansion); err != nil {
				return err
			}
			continue
		}

		td := activeCtx.GetTermDefinition(key)

		var expandedValue interface{}
		valueMap, valueIsMap := value.(map[string]interface{})

		switch {
		case td != nil && td.Type == "@json":
			// 13.5) JSON literals are taken verbatim
			expandedValue = map[string]interface{}{"@value": value, "@type": "@json"}
		case td.HasContainer("@language") && valueIsMap:
			// 13.6) language maps
			expandedValue, err = api.expandLanguageMap(activeCtx, key, valueMap, td)
			if err != nil {
				return err
			}
		case (td.HasContainer("@index") || td.HasContainer("@type") || td.HasContainer("@id")) && valueIsMap:
			// 13.7) index maps
			indexKey := "@index"
			switch {
			case td.HasContainer("@id"):
				indexKey = "@id"
			case td.HasContainer("@type"):
				indexKey = "@type"
			}
			asGraph := td.HasContainer("@graph")
			expandedValue, err = api.expandIndexMap(activeCtx, key, valueMap, indexKey, td, asGraph, opts, frameExpansion)
			if err != nil {
				return err
			}
		default:
			// 13.8)
			expandedValue, err = api.Expand(activeCtx, key, value, opts, false)
			if err != nil {
				return err
			}
		}

		// 13.9)
		if expandedValue == nil {
			continue
		}

		// 13.10) list containers wrap values not already list objects
		if td.HasContainer("@list") && !IsList(expandedValue) {
			expandedValue = map[string]interface{}{"@list": Arrayify(expandedValue)}
		}

		// 13.11) graph containers without @id/@index wrap each value
		if td.HasContainer("@graph") && !td.HasContainer("@id") && !td.HasContainer("@index") {
			wrapped := make([]interface{}, 0)
			for _, ev := range Arrayify(expandedValue) {
				if !IsGraph(ev) {
					ev = map[string]interface{}{"@graph": Arrayify(ev)}
				}
				wrapped = append(wrapped, ev)
			}
			expandedValue = wrapped
		}

		// 13.12) reverse properties accumulate under @reverse
		if td != nil && td.Reverse {
			reverseMap, hasReverse := resultMap["@reverse"].(map[string]interface{})
			if !hasReverse {
				reverseMap = make(map[string]interface{})
				resultMap["@reverse"] = reverseMap
			}
			for _, item := range Arrayify(expandedValue) {
				if IsValue(item) || IsList(item) {
					return NewJsonLdError(InvalidReversePropertyValue, expandedProperty)
				}
				AddValue(reverseMap, expandedProperty, item, true, false, true)
			}
		} else {
			// 13.13)
			AddValue(resultMap, expandedProperty, expandedValue, true, false, true)
		}
	}

	// 14) nested entries are processed after the main loop
	sort.Strings(nests)
	for _, nestKey := range nests {
		for _, nv := range Arrayify(elem[nestKey]) {
			nvMap, isMap := nv.(map[string]interface{})
			if !isMap {
				return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
			}
			for k := range nvMap {
				expandedKey, err := activeCtx.ExpandIri(k, false, true, nil, nil)
				if err != nil {
					return err
				}
				if expandedKey == "@value" {
					return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
				}
			}
			if err := api.expandEntries(activeCtx, typeScopedCtx, activeProperty, expandedActiveProperty,
				nvMap, resultMap, inputType, opts, frameExpansion); err != nil {
				return err
			}
		}
	}

	return nil
}

func (api *JsonLdApi) expandKeywordEntry(activeCtx, typeScopedCtx *Context, activeProperty, expandedActiveProperty,
	expandedProperty, key string, value interface{}, elem map[string]interface{}, resultMap map[string]interface{},
	nests *[]string, inputType string, opts *JsonLdOptions, frameExpansion bool) error {

	// 13.4.1)
	if expandedActiveProperty == "@reverse" {
		return NewJsonLdError(InvalidReversePropertyMap, "a keyword cannot be used as a @reverse property")
	}
	// 13.4.2) @included and @type merge rather than collide
	if _, containsKey := resultMap[expandedProperty]; containsKey &&
		expandedProperty != "@included" && expandedProperty != "@type" {
		return NewJsonLdError(CollidingKeywords, expandedProperty+" already exists in result")
	}

	var expandedValue interface{}
	var err error

	switch expandedProperty {
	case "@id":
		// 13.4.3)
		valueStr, isString := value.(string)
		switch {
		case isString:
			expandedValue, err = activeCtx.ExpandIri(valueStr, true, false, nil, nil)
			if err != nil {
				return err
			}
		case frameExpansion:
			switch v := value.(type) {
			case map[string]interface{}:
				if len(v) != 0 {
					return NewJsonLdError(InvalidIDValue, "@id value must be an empty object for framing")
				}
				expandedValue = []interface{}{v}
			case []interface{}:
				ids := make([]interface{}, 0, len(v))
				for _, item := range v {
					itemStr, isString := item.(string)
					if !isString {
						return NewJsonLdError(InvalidIDValue, "@id value must be a string or array of strings")
					}
					id, err := activeCtx.ExpandIri(itemStr, true, false, nil, nil)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
				expandedValue = ids
			default:
				return NewJsonLdError(InvalidIDValue, "value of @id must be a string")
			}
		default:
			return NewJsonLdError(InvalidIDValue, "value of @id must be a string")
		}

	case "@type":
		// 13.4.4) values expand against the type-scoped context
		switch v := value.(type) {
		case string:
			expanded, err := typeScopedCtx.ExpandIri(v, true, true, nil, nil)
			if err != nil {
				return err
			}
			if expanded != "" {
				expandedValue = expanded
			}
		case []interface{}:
			types := make([]interface{}, 0, len(v))
			for _, t := range v {
				tStr, isString := t.(string)
				if !isString {
					return NewJsonLdError(InvalidTypeValue, "@type value must be a string or array of strings")
				}
				tt, err := typeScopedCtx.ExpandIri(tStr, true, true, nil, nil)
				if err != nil {
					return err
				}
				if tt != "" {
					types = append(types, tt)
				}
			}
			expandedValue = types
		case map[string]interface{}:
			if !frameExpansion || len(v) != 0 {
				return NewJsonLdError(InvalidTypeValue, "@type value must be an empty object for framing")
			}
			expandedValue = v
		default:
			return NewJsonLdError(InvalidTypeValue, "@type value must be a string or array of strings")
		}
		if existing, hasType := resultMap["@type"]; hasType {
			expandedValue = append(Arrayify(existing), Arrayify(expandedValue)...)
		}

	case "@graph":
		// 13.4.5)
		expanded, err := api.Expand(activeCtx, "@graph", value, opts, false)
		if err != nil {
			return err
		}
		expandedValue = Arrayify(expanded)

	case "@included":
		// 13.4.6)
		if !activeCtx.allows11() {
			return nil
		}
		expanded, err := api.Expand(activeCtx, activeProperty, value, opts, false)
		if err != nil {
			return err
		}
		includedList := Arrayify(expanded)
		for _, item := range includedList {
			if !IsSubject(item) && !IsSubjectReference(item) {
				return NewJsonLdError(InvalidIncludedValue, "@included values must be node objects")
			}
		}
		if existing, hasIncluded := resultMap["@included"]; hasIncluded {
			includedList = append(Arrayify(existing), includedList...)
		}
		expandedValue = includedList

	case "@value":
		// 13.4.7)
		if inputType == "@json" && activeCtx.allows11() {
			expandedValue = value
		} else {
			_, isMap := value.(map[string]interface{})
			_, isList := value.([]interface{})
			if value != nil && (isMap || isList) && !frameExpansion {
				return NewJsonLdError(InvalidValueObjectValue, "@value must be a scalar or null")
			}
			expandedValue = value
			if expandedValue == nil {
				resultMap["@value"] = nil
				return nil
			}
		}

	case "@language":
		// 13.4.8)
		if frameExpansion {
			langs := make([]interface{}, 0)
			for _, v := range Arrayify(value) {
				if vStr, isString := v.(string); isString {
					langs = append(langs, strings.ToLower(vStr))
				} else {
					langs = append(langs, v)
				}
			}
			expandedValue = langs
		} else {
			vStr, isString := value.(string)
			if !isString {
				return NewJsonLdError(InvalidLanguageTaggedString, "@language value must be a string")
			}
			if !bcp47Pattern.MatchString(vStr) {
				opts.warn(MalformedLanguageTag, vStr)
			}
			expandedValue = strings.ToLower(vStr)
		}

	case "@direction":
		// 13.4.9)
		if !activeCtx.allows11() {
			return nil
		}
		vStr, isString := value.(string)
		if isString && (vStr == "ltr" || vStr == "rtl") {
			expandedValue = vStr
		} else if frameExpansion {
			expandedValue = value
		} else {
			return NewJsonLdError(InvalidBaseDirection, value)
		}

	case "@index":
		// 13.4.10)
		vStr, isString := value.(string)
		if !isString {
			return NewJsonLdError(InvalidIndexValue, fmt.Sprintf("value of @index must be a string: %v", value))
		}
		expandedValue = vStr

	case "@list":
		// 13.4.11)
		if activeProperty == "" || activeProperty == "@graph" {
			return nil
		}
		expanded, err := api.Expand(activeCtx, activeProperty, value, opts, false)
		if err != nil {
			return err
		}
		expandedValue = Arrayify(expanded)

	case "@set":
		// 13.4.12)
		expandedValue, err = api.Expand(activeCtx, activeProperty, value, opts, false)
		if err != nil {
			return err
		}

	case "@reverse":
		// 13.4.13)
		if _, isMap := value.(map[string]interface{}); !isMap {
			return NewJsonLdError(InvalidReverseValue, "@reverse value must be an object")
		}
		expanded, err := api.Expand(activeCtx, "@reverse", value, opts, false)
		if err != nil {
			return err
		}
		expandedMap, isMap := expanded.(map[string]interface{})
		if !isMap {
			return nil
		}
		// 13.4.13.2) forward properties nested under @reverse
		if reverseValue, containsReverse := expandedMap["@reverse"]; containsReverse {
			for property, item := range reverseValue.(map[string]interface{}) {
				AddValue(resultMap, property, item, true, false, true)
			}
		}
		// 13.4.13.3) remaining properties reverse into the result
		hasOwnReverse := false
		for property := range expandedMap {
			if property != "@reverse" {
				hasOwnReverse = true
				break
			}
		}
		if hasOwnReverse {
			reverseMap, hasReverse := resultMap["@reverse"].(map[string]interface{})
			if !hasReverse {
				reverseMap = make(map[string]interface{})
				resultMap["@reverse"] = reverseMap
			}
			for property, propertyValue := range expandedMap {
				if property == "@reverse" {
					continue
				}
				for _, item := range propertyValue.([]interface{}) {
					if IsValue(item) || IsList(item) {
						return NewJsonLdError(InvalidReversePropertyValue, property)
					}
					AddValue(reverseMap, property, item, true, false, true)
				}
			}
		}
		return nil

	case "@nest":
		*nests = append(*nests, key)
		return nil

	case "@default", "@embed", "@explicit", "@omitDefault", "@requireAll":
		// framing keywords pass through under frame expansion only
		if !frameExpansion {
			return nil
		}
		if expandedProperty == "@default" {
			expandedValue, err = api.Expand(activeCtx, expandedProperty, value, opts, false)
			if err != nil {
				return err
			}
		} else {
			expandedValue = []interface{}{value}
		}
	}

	// 13.4.16)
	if expandedValue != nil || expandedProperty == "@value" {
		resultMap[expandedProperty] = expandedValue
	}
	return nil
}

// expandLanguageMap expands a language map per step 13.6 of the expansion
// algorithm.
func (api *JsonLdApi) expandLanguageMap(activeCtx *Context, key string, value map[string]interface{},
	td *TermDefinition) (interface{}, error) {

	direction := activeCtx.DefaultDirection()
	if td != nil && td.HasDirection {
		direction = td.Direction
	}

	expandedValueList := make([]interface{}, 0)
	for _, language := range GetOrderedKeys(value) {
		expandedLanguage, err := activeCtx.ExpandIri(language, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		for _, item := range Arrayify(value[language]) {
			if item == nil {
				continue
			}
			if _, isString := item.(string); !isString {
				return nil, NewJsonLdError(InvalidLanguageMapValue,
					fmt.Sprintf("expected %v to be a string", item))
			}
			v := map[string]interface{}{"@value": item}
			if expandedLanguage != "@none" {
				if !bcp47Pattern.MatchString(language) {
					activeCtx.options.warn(MalformedLanguageTag, language)
				}
				v["@language"] = strings.ToLower(language)
			}
			if direction != "" {
				v["@direction"] = direction
			}
			expandedValueList = append(expandedValueList, v)
		}
	}
	return expandedValueList, nil
}

// expandIndexMap expands an index, id or type map per step 13.7 of the
// expansion algorithm.
func (api *JsonLdApi) expandIndexMap(activeCtx *Context, key string, value map[string]interface{},
	indexKey string, td *TermDefinition, asGraph bool, opts *JsonLdOptions, frameExpansion bool) (interface{}, error) {

	propertyIndexKey := "@index"
	if indexKey == "@index" && td != nil && td.Index != "" {
		propertyIndexKey = td.Index
	}

	expandedValueList := make([]interface{}, 0)
	for _, index := range GetOrderedKeys(value) {
		indexValue := value[index]

		// for type maps, an index's scoped context applies to its values
		mapCtx := activeCtx
		if indexKey == "@id" || indexKey == "@type" {
			mapCtx = activeCtx.RevertToPreviousContext()
		}
		if indexKey == "@type" {
			if indexTd := mapCtx.GetTermDefinition(index); indexTd != nil && indexTd.HasContext {
				newCtx, err := mapCtx.processContext(indexTd.Context, indexTd.BaseURL, nil, false, true, true)
				if err != nil {
					return nil, err
				}
				mapCtx = newCtx
			}
		}
		if indexKey == "@index" {
			mapCtx = activeCtx
		}

		expandedIndex, err := activeCtx.ExpandIri(index, false, true, nil, nil)
		if err != nil {
			return nil, err
		}

		expanded, err := api.Expand(mapCtx, key, Arrayify(indexValue), opts, true)
		if err != nil {
			return nil, err
		}

		for _, itemValue := range Arrayify(expanded) {
			if asGraph && !IsGraph(itemValue) {
				itemValue = map[string]interface{}{"@graph": Arrayify(itemValue)}
			}
			item, isMap := itemValue.(map[string]interface{})
			if !isMap {
				continue
			}

			switch {
			case indexKey == "@index" && propertyIndexKey != "@index" && expandedIndex != "@none":
				// property-valued index: the key re-expands as a value of the
				// index property
				if IsValue(item) {
					return nil, NewJsonLdError(InvalidValueObject,
						"a value object may not carry a property-based index")
				}
				reExpanded, err := activeCtx.ExpandValue(propertyIndexKey, index)
				if err != nil {
					return nil, err
				}
				expandedIndexKey, err := activeCtx.ExpandIri(propertyIndexKey, false, true, nil, nil)
				if err != nil {
					return nil, err
				}
				values := []interface{}{reExpanded}
				if existing, present := item[expandedIndexKey]; present {
					values = append(values, Arrayify(existing)...)
				}
				item[expandedIndexKey] = values
			case indexKey == "@index":
				if _, hasIndex := item["@index"]; !hasIndex && expandedIndex != "@none" {
					item["@index"] = index
				}
			case indexKey == "@id":
				if _, hasID := item["@id"]; !hasID && expandedIndex != "@none" {
					expandedID, err := activeCtx.ExpandIri(index, true, false, nil, nil)
					if err != nil {
						return nil, err
					}
					item["@id"] = expandedID
				}
			case indexKey == "@type":
				if expandedIndex != "@none" {
					types := []interface{}{expandedIndex}
					if existing, hasType := item["@type"]; hasType {
						types = append(types, Arrayify(existing)...)
					}
					item["@type"] = types
				}
			}

			expandedValueList = append(expandedValueList, item)
		}
	}
	return expandedValueList, nil
}

// ExpandValue expands value to a value object, or to a subject reference when
// the active property is id- or vocab-coercing.
// See https://www.w3.org/TR/json-ld11-api/#value-expansion
func (c *Context) ExpandValue(activeProperty string, value interface{}) (interface{}, error) {
	td := c.GetTermDefinition(activeProperty)

	// 1+2) coercion to a subject reference
	if td != nil && (td.Type == "@id" || td.Type == "@vocab") {
		if strVal, isString := value.(string); isString {
			id, err := c.ExpandIri(strVal, true, td.Type == "@vocab", nil, nil)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"@id": id}, nil
		}
	}

	// 3)
	rval := map[string]interface{}{"@value": value}

	// 4)
	if td != nil && td.Type != "" && td.Type != "@id" && td.Type != "@vocab" && td.Type != "@none" {
		rval["@type"] = td.Type
		return rval, nil
	}

	// 5) strings pick up the effective language and direction
	if _, isString := value.(string); isString {
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

		if hasLanguage {
			rval["@language"] = language
		}
		if hasDirection {
			rval["@direction"] = direction
		}
	}

	return rval, nil
}
