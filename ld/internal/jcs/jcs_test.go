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

package jcs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"null", nil, "null"},
		{"booleans", []interface{}{true, false}, "[true,false]"},
		{"sorted keys", map[string]interface{}{"b": "x", "a": "y"}, `{"a":"y","b":"x"}`},
		{"nested", map[string]interface{}{
			"z": []interface{}{map[string]interface{}{"k": "v"}},
		}, `{"z":[{"k":"v"}]}`},
		{"escapes", "a\"b\n", `"a\"b\n"`},
		{"integer number", json.Number("42"), "42"},
		{"fractional number", json.Number("1.50"), "1.5"},
		{"float64", 0.5, "0.5"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Canonicalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestNumberToJSON(t *testing.T) {
	for _, tc := range []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{1.5, "1.5"},
		{1e21, "1e+21"},
		{0.000001, "0.000001"},
	} {
		out, err := NumberToJSON(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, out)
	}
}
