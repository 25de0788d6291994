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

// Package jcs serializes JSON values in the canonical form of RFC 8785
// (JSON Canonicalization Scheme): object members sorted by key, no
// insignificant whitespace, numbers in ES6 shortest form. It is used to
// produce the lexical form of rdf:JSON literals.
package jcs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Canonicalize returns the canonical serialization of a JSON value built
// from interface{} trees as produced by encoding/json with UseNumber.
func Canonicalize(value interface{}) (string, error) {
	var sb strings.Builder
	if err := write(&sb, value); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func write(sb *strings.Builder, value interface{}) error {
	switch v := value.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if v {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case string:
		return writeString(sb, v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return err
		}
		s, err := NumberToJSON(f)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case float64:
		s, err := NumberToJSON(v)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case int:
		s, err := NumberToJSON(float64(v))
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case int64:
		s, err := NumberToJSON(float64(v))
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case []interface{}:
		sb.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := write(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		// RFC 8785 sorts keys by UTF-16 code units; plain byte order matches
		// for the BMP keys JSON-LD deals in
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeString(sb, k); err != nil {
				return err
			}
			sb.WriteByte(':')
			if err := write(sb, v[k]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("jcs: unsupported value of type %T", value)
	}
	return nil
}

func writeString(sb *strings.Builder, s string) error {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return nil
}
