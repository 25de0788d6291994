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
	"strings"
)

// TermDefinition is the record a term maps to in an active context.
//
// The IRI mapping may be null (HasIRI false): such terms decorate keys that
// are dropped during expansion. Language and direction mappings are
// tri-state; their Has* flag distinguishes "not set" from an explicit null
// (represented by the empty string).
type TermDefinition struct {
	IRI    string
	HasIRI bool

	Prefix    bool
	Protected bool
	Reverse   bool
	SimpleTerm bool

	BaseURL string

	// Context is the unprocessed local context attached to the term. It is
	// stored raw and processed when the term comes into play as an active
	// property or type.
	Context    interface{}
	HasContext bool

	Container []string

	Language    string
	HasLanguage bool

	Direction    string
	HasDirection bool

	Index string

	Nest string

	Type string
}

// HasContainer returns true if the container mapping includes the given
// keyword.
func (td *TermDefinition) HasContainer(keyword string) bool {
	if td == nil {
		return false
	}
	for _, c := range td.Container {
		if c == keyword {
			return true
		}
	}
	return false
}

// containerKey returns the inverse index key for the container mapping: the
// concatenation of its keywords sorted lexicographically, or @none when the
// mapping is empty.
func (td *TermDefinition) containerKey() string {
	if len(td.Container) == 0 {
		return "@none"
	}
	sorted := make([]string, len(td.Container))
	copy(sorted, td.Container)
	sort.Strings(sorted)
	return strings.Join(sorted, "")
}

// Clone returns a copy of the definition. The unprocessed scoped context is
// shared; it is never mutated.
func (td *TermDefinition) Clone() *TermDefinition {
	if td == nil {
		return nil
	}
	clone := *td
	if td.Container != nil {
		clone.Container = make([]string, len(td.Container))
		copy(clone.Container, td.Container)
	}
	return &clone
}

// Equivalent reports structural equality with another definition, ignoring
// the protected flag. A protected definition may only be replaced by an
// equivalent one.
func (td *TermDefinition) Equivalent(other *TermDefinition) bool {
	if td == nil || other == nil {
		return td == other
	}
	if td.IRI != other.IRI || td.HasIRI != other.HasIRI ||
		td.Prefix != other.Prefix || td.Reverse != other.Reverse ||
		td.BaseURL != other.BaseURL ||
		td.HasContext != other.HasContext ||
		td.Language != other.Language || td.HasLanguage != other.HasLanguage ||
		td.Direction != other.Direction || td.HasDirection != other.HasDirection ||
		td.Index != other.Index || td.Nest != other.Nest || td.Type != other.Type {
		return false
	}
	if len(td.Container) != len(other.Container) {
		return false
	}
	for i := range td.Container {
		if td.Container[i] != other.Container[i] {
			return false
		}
	}
	if td.HasContext && !DeepCompare(td.Context, other.Context, true) {
		return false
	}
	return true
}
