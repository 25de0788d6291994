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
	"sort"
)

// Compact transforms an expanded element into compact form using the active
// context.
// See https://www.w3.org/TR/json-ld11-api/#compaction-algorithm
func (api *JsonLdApi) Compact(activeCtx *Context, activeProperty string, element interface{},
	opts *JsonLdOptions) (interface{}, error) {

	switch elem := element.(type) {
	case []interface{}:
		// 3)
		result := make([]interface{}, 0, len(elem))
		for _, item := range elem {
			compactedItem, err := api.Compact(activeCtx, activeProperty, item, opts)
			if err != nil {
				return nil, err
			}
			if compactedItem != nil {
				result = append(result, compactedItem)
			}
		}
		if opts.CompactArrays && len(result) == 1 && len(activeCtx.GetContainer(activeProperty)) == 0 {
			return result[0], nil
		}
		return result, nil

	case map[string]interface{}:
		return api.compactMap(activeCtx, activeProperty, elem, opts)

	default:
		// 2) scalars pass through
		return element, nil
	}
}

func (api *JsonLdApi) compactMap(activeCtx *Context, activeProperty string, elem map[string]interface{},
	opts *JsonLdOptions) (interface{}, error) {

	// 1) terms of any previous type-scoped context still resolve via the
	// incoming context
	typeScopedCtx := activeCtx

	// 5) pop the type-scoped context unless it applies to this element
	if !IsValue(elem) && !IsSubjectReference(elem) {
		activeCtx = activeCtx.RevertToPreviousContext()
	}

	// 6) apply the property-scoped context
	if td := typeScopedCtx.GetTermDefinition(activeProperty); td != nil && td.HasContext {
		newCtx, err := activeCtx.processContext(td.Context, td.BaseURL, nil, true, true, true)
		if err != nil {
			return nil, err
		}
		activeCtx = newCtx
	}

	// 7) value objects and subject references compact to scalars where the
	// context allows
	if IsValue(elem) || IsSubjectReference(elem) {
		compactedValue, err := activeCtx.CompactValue(activeProperty, elem)
		if err != nil {
			return nil, err
		}
		_, isMap := compactedValue.(map[string]interface{})
		if !isMap || typeScopedCtx.GetTypeMapping(activeProperty) == "@json" {
			return compactedValue, nil
		}
	}

	// 8) inline lists under a list container
	if list, containsList := elem["@list"]; containsList && activeCtx.HasContainerMapping(activeProperty, "@list") {
		return api.Compact(activeCtx, activeProperty, list, opts)
	}

	insideReverse := activeProperty == "@reverse"
	result := make(map[string]interface{})

	// 11) apply type-scoped contexts in lexicographic order of the compacted
	// type terms, without propagation
	if typeVal, hasType := elem["@type"]; hasType {
		compactedTypes := make([]string, 0)
		for _, t := range Arrayify(typeVal) {
			if typeStr, isString := t.(string); isString {
				ct, err := typeScopedCtx.CompactIri(typeStr, nil, true, false)
				if err != nil {
					return nil, err
				}
				compactedTypes = append(compactedTypes, ct)
			}
		}
		sort.Strings(compactedTypes)
		for _, term := range compactedTypes {
			if td := typeScopedCtx.GetTermDefinition(term); td != nil && td.HasContext {
				newCtx, err := activeCtx.processContext(td.Context, td.BaseURL, nil, false, false, true)
				if err != nil {
					return nil, err
				}
				activeCtx = newCtx
			}
		}
	}

	// 12)
	for _, expandedProperty := range GetOrderedKeys(elem) {
		expandedValue := elem[expandedProperty]

		switch expandedProperty {
		case "@id":
			alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
			if err != nil {
				return nil, err
			}
			compactedValues := make([]interface{}, 0, 1)
			for _, v := range Arrayify(expandedValue) {
				cv, err := activeCtx.CompactIri(v.(string), nil, false, false)
				if err != nil {
					return nil, err
				}
				compactedValues = append(compactedValues, cv)
			}
			if len(compactedValues) == 1 {
				result[alias] = compactedValues[0]
			} else {
				result[alias] = compactedValues
			}
			continue

		case "@type":
			alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
			if err != nil {
				return nil, err
			}
			compactedValues := make([]interface{}, 0, 1)
			for _, v := range Arrayify(expandedValue) {
				cv, err := typeScopedCtx.CompactIri(v.(string), nil, true, false)
				if err != nil {
					return nil, err
				}
				compactedValues = append(compactedValues, cv)
			}

			// a @container: @set on the @type alias keeps the array form
			isTypeContainer := activeCtx.allows11() && activeCtx.HasContainerMapping(alias, "@set")
			var compactedValue interface{}
			if len(compactedValues) == 1 && !isTypeContainer {
				compactedValue = compactedValues[0]
			} else {
				compactedValue = compactedValues
			}
			compValArray, isArray := compactedValue.([]interface{})
			asArray := isArray && (len(compValArray) == 0 || isTypeContainer)
			AddValue(result, alias, compactedValue, asArray, false, true)
			continue

		case "@reverse":
			compactedObject, err := api.Compact(activeCtx, "@reverse", expandedValue, opts)
			if err != nil {
				return nil, err
			}
			compactedMap, _ := compactedObject.(map[string]interface{})
			for _, property := range GetKeys(compactedMap) {
				if !activeCtx.IsReverseProperty(property) {
					continue
				}
				// reverse terms pull their entries out of @reverse
				useArray := activeCtx.HasContainerMapping(property, "@set") || !opts.CompactArrays
				AddValue(result, property, compactedMap[property], useArray, false, true)
				delete(compactedMap, property)
			}
			if len(compactedMap) > 0 {
				alias, err := activeCtx.CompactIri("@reverse", nil, true, false)
				if err != nil {
					return nil, err
				}
				AddValue(result, alias, compactedMap, false, false, true)
			}
			continue

		case "@preserve":
			compactedValue, err := api.Compact(activeCtx, activeProperty, expandedValue, opts)
			if err != nil {
				return nil, err
			}
			if cva, isArray := compactedValue.([]interface{}); !(isArray && len(cva) == 0) {
				AddValue(result, expandedProperty, compactedValue, false, false, true)
			}
			continue

		case "@index":
			// folded into the map key under an index container
			if activeCtx.HasContainerMapping(activeProperty, "@index") {
				continue
			}
			alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
			if err != nil {
				return nil, err
			}
			AddValue(result, alias, expandedValue, false, false, true)
			continue

		case "@value", "@language", "@direction":
			alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
			if err != nil {
				return nil, err
			}
			AddValue(result, alias, expandedValue, false, false, true)
			continue
		}

		// keywords other than @graph, @list and @included take their
		// expanded value as is
		if IsKeyword(expandedProperty) && expandedProperty != "@graph" &&
			expandedProperty != "@list" && expandedProperty != "@included" {
			alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
			if err != nil {
				return nil, err
			}
			AddValue(result, alias, expandedValue, false, false, true)
			continue
		}

		expandedValueList, isList := expandedValue.([]interface{})
		if !isList {
			expandedValueList = []interface{}{expandedValue}
		}

		// 12.7) preserve empty arrays
		if len(expandedValueList) == 0 {
			itemActiveProperty, err := activeCtx.CompactIri(expandedProperty, expandedValue, true, insideReverse)
			if err != nil {
				return nil, err
			}
			nestResult, err := api.nestTarget(activeCtx, result, itemActiveProperty)
			if err != nil {
				return nil, err
			}
			AddValue(nestResult, itemActiveProperty, make([]interface{}, 0), true, false, true)
		}

		// 12.8)
		for _, expandedItem := range expandedValueList {
			itemActiveProperty, err := activeCtx.CompactIri(expandedProperty, expandedItem, true, insideReverse)
			if err != nil {
				return nil, err
			}
			nestResult, err := api.nestTarget(activeCtx, result, itemActiveProperty)
			if err != nil {
				return nil, err
			}

			td := activeCtx.GetTermDefinition(itemActiveProperty)
			isListContainer := td.HasContainer("@list")
			isGraphContainer := td.HasContainer("@graph")
			isSetContainer := td.HasContainer("@set")
			isLanguageContainer := td.HasContainer("@language")
			isIndexContainer := td.HasContainer("@index")
			isIDContainer := td.HasContainer("@id")
			isTypeContainer := td.HasContainer("@type")

			expandedItemMap, _ := expandedItem.(map[string]interface{})
			isGraph := IsGraph(expandedItem)
			list, containsList := expandedItemMap["@list"]
			isListObject := containsList

			var elementToCompact interface{} = expandedItem
			if isListObject {
				elementToCompact = list
			} else if isGraph {
				elementToCompact = expandedItemMap["@graph"]
			}

			compactedItem, err := api.Compact(activeCtx, itemActiveProperty, elementToCompact, opts)
			if err != nil {
				return nil, err
			}

			// 12.8.7) list objects
			if isListObject {
				compactedItem = Arrayify(compactedItem)
				if isListContainer {
					AddValue(nestResult, itemActiveProperty, compactedItem, true, true, true)
					continue
				}
				listAlias, err := activeCtx.CompactIri("@list", nil, true, false)
				if err != nil {
					return nil, err
				}
				wrapper := map[string]interface{}{listAlias: compactedItem}
				if indexVal, containsIndex := expandedItemMap["@index"]; containsIndex {
					indexAlias, err := activeCtx.CompactIri("@index", nil, true, false)
					if err != nil {
						return nil, err
					}
					wrapper[indexAlias] = indexVal
				}
				compactedItem = wrapper
			}

			// 12.8.8) graph objects
			if isGraph {
				compactedItem, err = api.compactGraphItem(activeCtx, nestResult, itemActiveProperty,
					expandedItemMap, compactedItem, isGraphContainer, isIDContainer, isIndexContainer,
					isSetContainer, opts)
				if err != nil {
					return nil, err
				}
				if compactedItem == nil {
					continue
				}
				asArray := !opts.CompactArrays || isSetContainer
				AddValue(nestResult, itemActiveProperty, compactedItem, asArray, false, true)
				continue
			}

			// 12.8.9) language, index, id and type maps
			if isLanguageContainer || isIndexContainer || isIDContainer || isTypeContainer {
				mapObject, _ := nestResult[itemActiveProperty].(map[string]interface{})
				if mapObject == nil {
					mapObject = make(map[string]interface{})
					nestResult[itemActiveProperty] = mapObject
				}

				var mapKey string
				switch {
				case isLanguageContainer:
					if compactedItemMap, isMap := compactedItem.(map[string]interface{}); isMap && IsValue(expandedItem) {
						if v, containsValue := compactedItemMap["@value"]; containsValue {
							compactedItem = v
						}
					}
					if v, found := expandedItemMap["@language"]; found {
						mapKey, _ = v.(string)
					}

				case isIndexContainer:
					indexKey := "@index"
					if td != nil && td.Index != "" {
						indexKey = td.Index
					}
					if indexKey == "@index" {
						mapKey, _ = expandedItemMap["@index"].(string)
					} else {
						// property-based index: the first value of the index
						// property becomes the key, the rest stay in place
						containerKey, err := activeCtx.CompactIri(indexKey, nil, true, false)
						if err != nil {
							return nil, err
						}
						compactedItemMap, isMap := compactedItem.(map[string]interface{})
						var propsArray []interface{}
						if isMap {
							if props, found := compactedItemMap[containerKey]; found {
								propsArray = Arrayify(props)
							}
						}
						if len(propsArray) > 0 {
							if keyStr, isString := propsArray[0].(string); isString {
								mapKey = keyStr
								switch rest := propsArray[1:]; len(rest) {
								case 0:
									delete(compactedItemMap, containerKey)
								case 1:
									compactedItemMap[containerKey] = rest[0]
								default:
									compactedItemMap[containerKey] = rest
								}
							}
						}
					}

				case isIDContainer:
					idAlias, err := activeCtx.CompactIri("@id", nil, true, false)
					if err != nil {
						return nil, err
					}
					if compactedItemMap, isMap := compactedItem.(map[string]interface{}); isMap {
						if idVal, containsID := compactedItemMap[idAlias]; containsID {
							mapKey, _ = idVal.(string)
							delete(compactedItemMap, idAlias)
						}
					}

				case isTypeContainer:
					typeAlias, err := activeCtx.CompactIri("@type", nil, true, false)
					if err != nil {
						return nil, err
					}
					compactedItemMap, isMap := compactedItem.(map[string]interface{})
					var types []interface{}
					if isMap {
						if typeVal, containsType := compactedItemMap[typeAlias]; containsType {
							types = Arrayify(typeVal)
							delete(compactedItemMap, typeAlias)
							if len(types) > 0 {
								mapKey, _ = types[0].(string)
								types = types[1:]
							}
						}
					}

					// a lone @id entry re-compacts without the type-scoped
					// term definitions in the way
					if isMap && len(compactedItemMap) == 1 {
						if idVal, hasID := expandedItemMap["@id"]; hasID {
							compactedItem, err = api.Compact(activeCtx, itemActiveProperty,
								map[string]interface{}{"@id": idVal}, opts)
							if err != nil {
								return nil, err
							}
						}
					}
					if len(types) > 0 {
						if m, isMap := compactedItem.(map[string]interface{}); isMap {
							AddValue(m, typeAlias, types, false, false, false)
						}
					}
				}

				if mapKey == "" {
					noneAlias, err := activeCtx.CompactIri("@none", nil, true, false)
					if err != nil {
						return nil, err
					}
					mapKey = noneAlias
				}
				AddValue(mapObject, mapKey, compactedItem, isSetContainer, false, true)
				continue
			}

			// 12.8.10)
			compactedItemArray, isArray := compactedItem.([]interface{})
			asArray := !opts.CompactArrays || isSetContainer || isListContainer ||
				(isArray && len(compactedItemArray) == 0) ||
				expandedProperty == "@list" || expandedProperty == "@graph"
			AddValue(nestResult, itemActiveProperty, compactedItem, asArray, false, true)
		}
	}

	return result, nil
}

// compactGraphItem handles graph objects in the compaction entry loop. A nil
// result with nil error signals the caller that the value was already placed.
func (api *JsonLdApi) compactGraphItem(activeCtx *Context, nestResult map[string]interface{},
	itemActiveProperty string, expandedItemMap map[string]interface{}, compactedItem interface{},
	isGraphContainer, isIDContainer, isIndexContainer, isSetContainer bool,
	opts *JsonLdOptions) (interface{}, error) {

	asArray := !opts.CompactArrays || isSetContainer

	// graph maps keyed by @id or @index
	if isGraphContainer && (isIDContainer || (isIndexContainer && IsSimpleGraph(expandedItemMap))) {
		mapObject, _ := nestResult[itemActiveProperty].(map[string]interface{})
		if mapObject == nil {
			mapObject = make(map[string]interface{})
			nestResult[itemActiveProperty] = mapObject
		}

		var mapKey string
		if isIDContainer {
			if v, found := expandedItemMap["@id"]; found {
				key, err := activeCtx.CompactIri(v.(string), nil, false, false)
				if err != nil {
					return nil, err
				}
				mapKey = key
			}
		} else if v, found := expandedItemMap["@index"]; found {
			mapKey, _ = v.(string)
		}
		if mapKey == "" {
			noneAlias, err := activeCtx.CompactIri("@none", nil, true, false)
			if err != nil {
				return nil, err
			}
			mapKey = noneAlias
		}
		AddValue(mapObject, mapKey, compactedItem, asArray, false, true)
		return nil, nil
	}

	// simple graphs under a plain @graph container
	if isGraphContainer && IsSimpleGraph(expandedItemMap) {
		if compactedItemArray, isArray := compactedItem.([]interface{}); isArray && len(compactedItemArray) > 1 {
			// multiple nodes in one simple graph would read as several
			// graphs; hide them under @included
			includedAlias, err := activeCtx.CompactIri("@included", nil, true, false)
			if err != nil {
				return nil, err
			}
			compactedItem = map[string]interface{}{includedAlias: compactedItem}
		}
		return compactedItem, nil
	}

	// otherwise wrap in a @graph object, restoring @id and @index
	if compactedItemArray, isArray := compactedItem.([]interface{}); isArray && len(compactedItemArray) == 1 && opts.CompactArrays {
		compactedItem = compactedItemArray[0]
	}
	graphAlias, err := activeCtx.CompactIri("@graph", nil, true, false)
	if err != nil {
		return nil, err
	}
	wrapper := map[string]interface{}{graphAlias: compactedItem}

	if idVal, hasID := expandedItemMap["@id"]; hasID {
		idAlias, err := activeCtx.CompactIri("@id", nil, true, false)
		if err != nil {
			return nil, err
		}
		compactedID, err := activeCtx.CompactIri(idVal.(string), nil, false, false)
		if err != nil {
			return nil, err
		}
		wrapper[idAlias] = compactedID
	}
	if indexVal, hasIndex := expandedItemMap["@index"]; hasIndex {
		indexAlias, err := activeCtx.CompactIri("@index", nil, true, false)
		if err != nil {
			return nil, err
		}
		wrapper[indexAlias] = indexVal
	}
	return wrapper, nil
}

// nestTarget resolves the map a term's values land in, honoring the term's
// @nest mapping.
func (api *JsonLdApi) nestTarget(activeCtx *Context, result map[string]interface{},
	itemActiveProperty string) (map[string]interface{}, error) {

	td := activeCtx.GetTermDefinition(itemActiveProperty)
	if td == nil || td.Nest == "" {
		return result, nil
	}
	nestProperty := td.Nest
	if expanded, _ := activeCtx.ExpandIri(nestProperty, false, true, nil, nil); expanded != "@nest" {
		return nil, NewJsonLdError(InvalidNestValue,
			"nested property must have an @nest value resolving to @nest")
	}
	nested, isMap := result[nestProperty].(map[string]interface{})
	if !isMap {
		nested = make(map[string]interface{})
		result[nestProperty] = nested
	}
	return nested, nil
}
