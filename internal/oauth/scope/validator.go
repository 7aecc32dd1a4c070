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

package scope

// ValidatorInterface resolves the scope of an authorization request.
type ValidatorInterface interface {
	ValidateScope(requested string, defaultScope Scope) (Scope, bool)
}

// Validator checks requested scopes against the scopes the server provides.
type Validator struct {
	supported Scope
}

// NewValidator creates a validator for the supported scope tokens.
func NewValidator(supported []string) *Validator {
	return &Validator{supported: New(supported...)}
}

// ValidateScope returns the effective scope of a request.
// An absent scope resolves to the default scope. A scope with unsupported tokens is rejected.
func (v *Validator) ValidateScope(requested string, defaultScope Scope) (Scope, bool) {
	requestedScope := Parse(requested)
	if requestedScope.IsEmpty() {
		return defaultScope, true
	}
	if !requestedScope.IsSubsetOf(v.supported) {
		return Scope{}, false
	}
	return requestedScope, true
}
