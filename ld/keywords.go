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
	"regexp"
)

// keywords is the closed set of reserved JSON-LD tokens, including the
// framing vocabulary.
var keywords = map[string]bool{
	"@any":         true,
	"@base":        true,
	"@container":   true,
	"@context":     true,
	"@default":     true,
	"@direction":   true,
	"@embed":       true,
	"@explicit":    true,
	"@graph":       true,
	"@id":          true,
	"@import":      true,
	"@included":    true,
	"@index":       true,
	"@json":        true,
	"@language":    true,
	"@list":        true,
	"@nest":        true,
	"@none":        true,
	"@null":        true,
	"@omitDefault": true,
	"@prefix":      true,
	"@preserve":    true,
	"@propagate":   true,
	"@protected":   true,
	"@requireAll":  true,
	"@reverse":     true,
	"@set":         true,
	"@type":        true,
	"@value":       true,
	"@version":     true,
	"@vocab":       true,
}

// IsKeyword returns whether or not the given value is a JSON-LD keyword.
func IsKeyword(key interface{}) bool {
	keyStr, isString := key.(string)
	if !isString {
		return false
	}
	return keywords[keyStr]
}

var keywordForm = regexp.MustCompile(`^@[A-Za-z]+$`)

// HasKeywordForm returns true for tokens of the form @[A-Za-z]+ that are not
// keywords. Such reserved tokens are ignored with a warning and must never be
// treated as IRIs.
func HasKeywordForm(value string) bool {
	return keywordForm.MatchString(value) && !keywords[value]
}
