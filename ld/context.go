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

// Context is an active context: the accumulated interpretation state used
// while processing a document. Mutation happens only while a context is
// being built by the context processor; callers receiving a Context must
// clone before mutating.
type Context struct {
	options *JsonLdOptions

	termDefinitions map[string]*TermDefinition

	base            *string
	originalBaseURL string
	vocab           *string
	defaultLanguage *string
	defaultDirection *string

	previousContext *Context

	processingMode string

	// inverse is the lazily materialized inverse index; inverseDirty marks
	// it stale. Every mutation of term definitions or of the base, vocab,
	// language or direction settings sets inverseDirty.
	inverse      map[string]map[string]*inverseTypeLanguage
	inverseDirty bool
}

// inverseTypeLanguage is the leaf of the inverse index: term lookups keyed by
// language tag, type mapping, or @any.
type inverseTypeLanguage struct {
	language map[string]string
	typ      map[string]string
	any      map[string]string
}

// NewContext creates and returns a new active context.
func NewContext(options *JsonLdOptions) *Context {
	if options == nil {
		options = NewJsonLdOptions("")
	}

	ctx := &Context{
		options:         options,
		termDefinitions: make(map[string]*TermDefinition),
		processingMode:  options.ProcessingMode,
		inverseDirty:    true,
	}

	if options.Base != "" {
		base := options.Base
		ctx.base = &base
		ctx.originalBaseURL = options.Base
	}

	return ctx
}

// Clone returns a copy of this context with a stale inverse index. Term
// definitions are shared; they are replaced, never mutated in place.
func (c *Context) Clone() *Context {
	clone := &Context{
		options:          c.options,
		termDefinitions:  make(map[string]*TermDefinition, len(c.termDefinitions)),
		base:             c.base,
		originalBaseURL:  c.originalBaseURL,
		vocab:            c.vocab,
		defaultLanguage:  c.defaultLanguage,
		defaultDirection: c.defaultDirection,
		previousContext:  c.previousContext,
		processingMode:   c.processingMode,
		inverseDirty:     true,
	}
	for term, def := range c.termDefinitions {
		clone.termDefinitions[term] = def
	}
	return clone
}

func (c *Context) invalidateInverse() {
	c.inverse = nil
	c.inverseDirty = true
}

// Base returns the base IRI, or an empty string if there is none.
func (c *Context) Base() string {
	if c.base == nil {
		return ""
	}
	return *c.base
}

func (c *Context) setBase(base *string) {
	c.base = base
	c.invalidateInverse()
}

// Vocab returns the vocabulary mapping, or an empty string if there is none.
func (c *Context) Vocab() string {
	if c.vocab == nil {
		return ""
	}
	return *c.vocab
}

func (c *Context) setVocab(vocab *string) {
	c.vocab = vocab
	c.invalidateInverse()
}

// DefaultLanguage returns the default language, or an empty string.
func (c *Context) DefaultLanguage() string {
	if c.defaultLanguage == nil {
		return ""
	}
	return *c.defaultLanguage
}

func (c *Context) setDefaultLanguage(language *string) {
	c.defaultLanguage = language
	c.invalidateInverse()
}

// DefaultDirection returns the default base direction, or an empty string.
func (c *Context) DefaultDirection() string {
	if c.defaultDirection == nil {
		return ""
	}
	return *c.defaultDirection
}

func (c *Context) setDefaultDirection(direction *string) {
	c.defaultDirection = direction
	c.invalidateInverse()
}

// GetTermDefinition returns the definition for the given term, or nil.
func (c *Context) GetTermDefinition(term string) *TermDefinition {
	return c.termDefinitions[term]
}

func (c *Context) setTermDefinition(term string, def *TermDefinition) {
	c.termDefinitions[term] = def
	c.invalidateInverse()
}

func (c *Context) removeTermDefinition(term string) {
	delete(c.termDefinitions, term)
	c.invalidateInverse()
}

// HasProtectedTerms returns true if any term definition is protected.
func (c *Context) HasProtectedTerms() bool {
	for _, def := range c.termDefinitions {
		if def != nil && def.Protected {
			return true
		}
	}
	return false
}

// PreviousContext returns the context saved before a non-propagating context
// was applied, or nil.
func (c *Context) PreviousContext() *Context {
	return c.previousContext
}

// RevertToPreviousContext pops to the previous context if one is set. The
// previous-context pointer is used at most once; the result carries no
// predecessor of its own.
func (c *Context) RevertToPreviousContext() *Context {
	if c.previousContext == nil {
		return c
	}
	return c.previousContext
}

// allows11 reports whether the active processing mode permits a 1.1 feature.
func (c *Context) allows11() bool {
	return c.processingMode != JsonLd_1_0
}

// ProcessingMode returns the active processing mode.
func (c *Context) ProcessingMode() string {
	return c.processingMode
}

// GetContainer returns the container mapping for the given property.
func (c *Context) GetContainer(property string) []string {
	if property == "@graph" {
		return []string{"@set"}
	}
	if IsKeyword(property) {
		return []string{property}
	}
	if td := c.termDefinitions[property]; td != nil {
		return td.Container
	}
	return nil
}

// HasContainerMapping returns true if the given property has a container
// mapping including the given keyword.
func (c *Context) HasContainerMapping(property string, keyword string) bool {
	return c.termDefinitions[property].HasContainer(keyword)
}

// IsReverseProperty returns true if the given property is a reverse property.
func (c *Context) IsReverseProperty(property string) bool {
	td := c.termDefinitions[property]
	return td != nil && td.Reverse
}

// GetTypeMapping returns the type mapping for the given property, or "".
func (c *Context) GetTypeMapping(property string) string {
	if td := c.termDefinitions[property]; td != nil {
		return td.Type
	}
	return ""
}

// GetLanguageMapping returns the language mapping for the given property.
// The second result is false when the property has no language mapping; an
// explicit null mapping returns ("", true).
func (c *Context) GetLanguageMapping(property string) (string, bool) {
	if td := c.termDefinitions[property]; td != nil && td.HasLanguage {
		return td.Language, true
	}
	return "", false
}

// GetDirectionMapping returns the direction mapping for the given property.
// The second result is false when the property has no direction mapping; an
// explicit null mapping returns ("", true).
func (c *Context) GetDirectionMapping(property string) (string, bool) {
	if td := c.termDefinitions[property]; td != nil && td.HasDirection {
		return td.Direction, true
	}
	return "", false
}

// getInverse returns the inverse index, building it if stale.
//
// The index is a three-level nested map: IRI to container key to
// type/language maps. Terms are inserted by ascending length, ties broken
// lexicographically, and the first writer wins per cell.
func (c *Context) getInverse() map[string]map[string]*inverseTypeLanguage {
	if !c.inverseDirty && c.inverse != nil {
		return c.inverse
	}

	c.inverse = make(map[string]map[string]*inverseTypeLanguage)
	c.inverseDirty = false

	defaultLanguage := "@none"
	if c.defaultLanguage != nil {
		defaultLanguage = strings.ToLower(*c.defaultLanguage)
	}

	terms := make([]string, 0, len(c.termDefinitions))
	for term := range c.termDefinitions {
		terms = append(terms, term)
	}
	sortShortestLeast(terms)

	for _, term := range terms {
		definition := c.termDefinitions[term]
		if definition == nil || !definition.HasIRI {
			continue
		}

		container := definition.containerKey()

		containerMap, present := c.inverse[definition.IRI]
		if !present {
			containerMap = make(map[string]*inverseTypeLanguage)
			c.inverse[definition.IRI] = containerMap
		}

		entry, present := containerMap[container]
		if !present {
			entry = &inverseTypeLanguage{
				language: make(map[string]string),
				typ:      make(map[string]string),
				any:      map[string]string{"@none": term},
			}
			containerMap[container] = entry
		}

		switch {
		case definition.Reverse:
			setIfAbsent(entry.typ, "@reverse", term)
		case definition.Type == "@none":
			setIfAbsent(entry.language, "@any", term)
			setIfAbsent(entry.typ, "@any", term)
		case definition.Type != "":
			setIfAbsent(entry.typ, definition.Type, term)
		case definition.HasLanguage && definition.HasDirection:
			key := "@null"
			if definition.Language != "" || definition.Direction != "" {
				key = strings.ToLower(definition.Language + "_" + definition.Direction)
			}
			setIfAbsent(entry.language, key, term)
		case definition.HasLanguage:
			key := "@null"
			if definition.Language != "" {
				key = strings.ToLower(definition.Language)
			}
			setIfAbsent(entry.language, key, term)
		case definition.HasDirection:
			key := "@none"
			if definition.Direction != "" {
				key = "_" + definition.Direction
			}
			setIfAbsent(entry.language, key, term)
		case c.defaultDirection != nil && *c.defaultDirection != "":
			langDir := strings.ToLower(c.DefaultLanguage() + "_" + *c.defaultDirection)
			setIfAbsent(entry.language, langDir, term)
			setIfAbsent(entry.language, "@none", term)
			setIfAbsent(entry.typ, "@none", term)
		default:
			setIfAbsent(entry.language, defaultLanguage, term)
			setIfAbsent(entry.language, "@none", term)
			setIfAbsent(entry.typ, "@none", term)
		}
	}

	return c.inverse
}

func setIfAbsent(m map[string]string, key, term string) {
	if _, present := m[key]; !present {
		m[key] = term
	}
}

// SelectTerm picks the preferred compaction term from the inverse index.
// Containers are scanned in order, then preferred values in order; the first
// hit wins. Returns "" if no term matches.
func (c *Context) SelectTerm(iri string, containers []string, typeLanguage string, preferredValues []string) string {
	containerMap := c.getInverse()[iri]

	for _, container := range containers {
		entry, hasContainer := containerMap[container]
		if !hasContainer {
			continue
		}

		var valueMap map[string]string
		switch typeLanguage {
		case "@language":
			valueMap = entry.language
		case "@type":
			valueMap = entry.typ
		default:
			valueMap = entry.any
		}

		for _, item := range preferredValues {
			if term, containsItem := valueMap[item]; containsItem {
				return term
			}
		}
	}
	return ""
}
