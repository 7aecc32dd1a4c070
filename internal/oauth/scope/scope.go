/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package scope provides the scope set used by authorization requests and grants.
package scope

import (
	"sort"
	"strings"
)

// Scope is an unordered set of scope tokens.
type Scope struct {
	tokens map[string]struct{}
}

// New builds a scope from the given tokens. Empty tokens are dropped.
func New(tokens ...string) Scope {
	s := Scope{tokens: make(map[string]struct{}, len(tokens))}
	for _, token := range tokens {
		if token != "" {
			s.tokens[token] = struct{}{}
		}
	}
	return s
}

// Parse builds a scope from a space delimited string.
func Parse(value string) Scope {
	return New(strings.Fields(value)...)
}

// Tokens returns the scope tokens sorted lexically.
func (s Scope) Tokens() []string {
	tokens := make([]string, 0, len(s.tokens))
	for token := range s.tokens {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// String returns the sorted, space joined form of the scope.
func (s Scope) String() string {
	return strings.Join(s.Tokens(), " ")
}

// IsEmpty reports whether the scope has no tokens.
func (s Scope) IsEmpty() bool {
	return len(s.tokens) == 0
}

// Has reports whether the scope contains the token.
func (s Scope) Has(token string) bool {
	_, ok := s.tokens[token]
	return ok
}

// IsSubsetOf reports whether every token of s is contained in other.
func (s Scope) IsSubsetOf(other Scope) bool {
	for token := range s.tokens {
		if !other.Has(token) {
			return false
		}
	}
	return true
}

// Equal reports whether both scopes hold the same tokens.
func (s Scope) Equal(other Scope) bool {
	return len(s.tokens) == len(other.tokens) && s.IsSubsetOf(other)
}
