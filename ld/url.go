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
	"net/url"
	"regexp"
	"strings"
)

// parsedIRI is an IRI split into components for relativization. The splitter
// accepts anything; invalid IRIs simply relativize poorly.
type parsedIRI struct {
	href           string
	protocol       string
	host           string
	auth           string
	path           string
	query          string
	fragment       string
	authority      string
	normalizedPath string
}

var iriParser = regexp.MustCompile(`^(?:([^:/?#]+):)?(?://(((?:[^:@]*(?::[^:@]*)?)?@)?[^:/?#]*(?::\d*)?))?([^?#]*)(?:\?([^#]*))?(?:#(.*))?`)

func parseIRI(iri string) *parsedIRI {
	rval := &parsedIRI{href: iri}

	matches := iriParser.FindStringSubmatch(iri)
	rval.protocol = matches[1]
	rval.host = matches[2]
	rval.auth = strings.TrimSuffix(matches[3], "@")
	rval.path = matches[4]
	rval.query = matches[5]
	rval.fragment = matches[6]

	if rval.host != "" && rval.path == "" {
		rval.path = "/"
	}

	rval.authority = rval.host
	if !strings.Contains(iri, ":") && strings.HasPrefix(iri, "//") && rval.host == "" {
		// relative network-path reference, authority lives in the path
		p := rval.path[2:]
		if idx := strings.Index(p, "/"); idx == -1 {
			rval.authority = p
			rval.path = ""
		} else {
			rval.authority = p[:idx]
			rval.path = p[idx:]
		}
	}

	rval.normalizedPath = removeDotSegments(rval.path, rval.authority != "")
	if rval.protocol != "" {
		rval.protocol += ":"
	}

	return rval
}

// removeDotSegments applies RFC 3986 section 5.2.4 to a path.
func removeDotSegments(path string, hasAuthority bool) string {
	var rval strings.Builder
	if strings.HasPrefix(path, "/") {
		rval.WriteByte('/')
	}

	input := strings.Split(path, "/")
	output := make([]string, 0, len(input))
	for i := 0; i < len(input); i++ {
		if input[i] == "." || (input[i] == "" && len(input)-i > 1) {
			continue
		}
		if input[i] == ".." {
			if hasAuthority || (len(output) > 0 && output[len(output)-1] != "..") {
				if len(output) > 0 {
					output = output[:len(output)-1]
				}
			} else {
				output = append(output, "..")
			}
			continue
		}
		output = append(output, input[i])
	}

	rval.WriteString(strings.Join(output, "/"))
	return rval.String()
}

// Resolve resolves the given path against the given base IRI and returns the
// resulting IRI.
func Resolve(baseURI string, pathToResolve string) string {
	if baseURI == "" {
		return pathToResolve
	}
	if strings.TrimSpace(pathToResolve) == "" {
		return baseURI
	}

	base, err := url.Parse(baseURI)
	if err != nil {
		return pathToResolve
	}

	if strings.HasPrefix(pathToResolve, "?") {
		// a query-only reference keeps the base path, drops the fragment
		base.Fragment = ""
		base.RawQuery = pathToResolve[1:]
		return base.String()
	}

	ref, err := url.Parse(pathToResolve)
	if err != nil {
		return pathToResolve
	}
	resolved := base.ResolveReference(ref)
	if resolved.Path != "" {
		resolved.Path = removeDotSegments(resolved.Path, true)
	}
	return resolved.String()
}

// RemoveBase relativizes the given IRI against the base. Used by IRI
// compaction when compactToRelative is enabled.
func RemoveBase(base interface{}, iri string) string {
	if base == nil {
		return iri
	}
	baseStr, isString := base.(string)
	if !isString || baseStr == "" {
		return iri
	}

	b := parseIRI(baseStr)

	// establish the root: scheme plus authority
	root := ""
	if b.href != "" {
		root = b.protocol + "//" + b.authority
	} else if !strings.HasPrefix(iri, "//") {
		root = "//"
	}

	if !strings.HasPrefix(iri, root) {
		return iri
	}

	rel := parseIRI(iri[len(root):])

	baseSegments := strings.Split(b.normalizedPath, "/")
	iriSegments := strings.Split(rel.normalizedPath, "/")

	// keep the last IRI segment unless the reference carries only a query or
	// fragment
	last := 1
	if rel.fragment != "" || rel.query != "" {
		last = 0
	}

	for len(baseSegments) > 0 && len(iriSegments) > last && baseSegments[0] == iriSegments[0] {
		baseSegments = baseSegments[1:]
		iriSegments = iriSegments[1:]
	}

	var rval strings.Builder
	if len(baseSegments) > 0 {
		// the last base segment is not a directory unless it ends in '/'
		if !strings.HasSuffix(b.normalizedPath, "/") || baseSegments[0] == "" {
			baseSegments = baseSegments[:len(baseSegments)-1]
		}
		for range baseSegments {
			rval.WriteString("../")
		}
	}
	rval.WriteString(strings.Join(iriSegments, "/"))

	if rel.query != "" {
		rval.WriteString("?" + rel.query)
	}
	if rel.fragment != "" {
		rval.WriteString("#" + rel.fragment)
	}

	if rval.Len() == 0 {
		return "./"
	}
	return rval.String()
}

var rSplitOnComma = regexp.MustCompile(`(?:<[^>]*?>|"[^"]*?"|[^,])+`)
var rLinkHeader = regexp.MustCompile(`\s*<([^>]*?)>\s*(?:;\s*(.*))?`)
var rApplicationJSON = regexp.MustCompile(`^application/(\w*\+)?json$`)
var rLinkParams = regexp.MustCompile(`(.*?)=(?:(?:"([^"]*?)")|([^"]*?))\s*(?:(?:;\s*)|$)`)

// ParseLinkHeader parses an HTTP Link header into entries keyed by their
// "rel" value. Each entry records at least a "target".
func ParseLinkHeader(header string) map[string][]map[string]string {
	rval := make(map[string][]map[string]string)

	for _, entry := range rSplitOnComma.FindAllString(header, -1) {
		match := rLinkHeader.FindStringSubmatch(entry)
		if match == nil {
			continue
		}

		result := map[string]string{"target": match[1]}
		for _, param := range rLinkParams.FindAllStringSubmatch(match[2], -1) {
			if param[2] != "" {
				result[param[1]] = param[2]
			} else {
				result[param[1]] = param[3]
			}
		}
		rel := result["rel"]
		rval[rel] = append(rval[rel], result)
	}
	return rval
}
