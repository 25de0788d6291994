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
	"strconv"
)

// IdentifierIssuer allocates blank node identifiers from a counter, keeping a
// map from source identifier to allocated identifier so relabeling stays
// consistent within a run. A fresh issuer is created at the start of each
// top-level flatten.
type IdentifierIssuer struct {
	prefix        string
	counter       int
	existing      map[string]string
	existingOrder []string
}

// NewIdentifierIssuer creates a new IdentifierIssuer with the given prefix.
func NewIdentifierIssuer(prefix string) *IdentifierIssuer {
	return &IdentifierIssuer{
		prefix:   prefix,
		existing: make(map[string]string),
	}
}

// Clone copies this IdentifierIssuer.
func (ii *IdentifierIssuer) Clone() *IdentifierIssuer {
	clone := &IdentifierIssuer{
		prefix:        ii.prefix,
		counter:       ii.counter,
		existing:      make(map[string]string, len(ii.existing)),
		existingOrder: make([]string, len(ii.existingOrder)),
	}
	for k, v := range ii.existing {
		clone.existing[k] = v
	}
	copy(clone.existingOrder, ii.existingOrder)
	return clone
}

// GetId returns the identifier allocated for oldID, allocating one if
// necessary. An empty oldID allocates an unrelated fresh identifier.
func (ii *IdentifierIssuer) GetId(oldID string) string { //nolint:stylecheck
	if oldID != "" {
		if id, present := ii.existing[oldID]; present {
			return id
		}
	}

	id := ii.prefix + strconv.Itoa(ii.counter)
	ii.counter++

	if oldID != "" {
		ii.existing[oldID] = id
		ii.existingOrder = append(ii.existingOrder, oldID)
	}

	return id
}

// HasId returns true if oldID has already been assigned an identifier.
func (ii *IdentifierIssuer) HasId(oldID string) bool { //nolint:stylecheck
	_, present := ii.existing[oldID]
	return present
}
