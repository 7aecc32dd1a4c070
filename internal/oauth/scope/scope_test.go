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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ScopeTestSuite struct {
	suite.Suite
}

func TestScopeSuite(t *testing.T) {
	suite.Run(t, new(ScopeTestSuite))
}

func (suite *ScopeTestSuite) TestParse() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Whitespace", input: "   ", expected: ""},
		{name: "Single", input: "read_mail", expected: "read_mail"},
		{name: "Sorted", input: "write_contacts read_contacts", expected: "read_contacts write_contacts"},
		{name: "Deduplicated", input: "a b a  b\tc", expected: "a b c"},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parse(tc.input).String())
		})
	}
}

func (suite *ScopeTestSuite) TestRoundTrip() {
	original := New("read_calendar", "read_mail", "write_contacts")
	assert.True(suite.T(), Parse(original.String()).Equal(original))
}

func (suite *ScopeTestSuite) TestSetOperations() {
	s := Parse("a b")

	assert.True(suite.T(), s.Has("a"))
	assert.False(suite.T(), s.Has("c"))
	assert.True(suite.T(), s.IsSubsetOf(Parse("a b c")))
	assert.False(suite.T(), s.IsSubsetOf(Parse("a c")))
	assert.True(suite.T(), s.Equal(Parse("b a")))
	assert.False(suite.T(), s.Equal(Parse("a")))
	assert.True(suite.T(), Scope{}.IsEmpty())
	assert.Empty(suite.T(), Scope{}.String())
}

func (suite *ScopeTestSuite) TestValidateScope() {
	validator := NewValidator([]string{"read_mail", "read_contacts", "write_contacts"})
	defaultScope := Parse("read_mail")

	effective, ok := validator.ValidateScope("", defaultScope)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "read_mail", effective.String())

	effective, ok = validator.ValidateScope("write_contacts read_contacts", defaultScope)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "read_contacts write_contacts", effective.String())

	_, ok = validator.ValidateScope("read_mail delete_everything", defaultScope)
	assert.False(suite.T(), ok)
}
