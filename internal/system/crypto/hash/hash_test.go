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

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type HashUtilTestSuite struct {
	suite.Suite
}

func TestHashSuite(t *testing.T) {
	suite.Run(t, new(HashUtilTestSuite))
}

func (suite *HashUtilTestSuite) TestHashString() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "EmptyString",
			input:    "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "NormalString",
			input:    "password",
			expected: "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HashString(tc.input))
		})
	}
}

func (suite *HashUtilTestSuite) TestVerifyHashedString() {
	stored := HashString("client-secret")

	assert.True(suite.T(), VerifyHashedString("client-secret", stored))
	assert.False(suite.T(), VerifyHashedString("client-secret2", stored))
	assert.False(suite.T(), VerifyHashedString("client-secret", ""))
}

func (suite *HashUtilTestSuite) TestVerifyHashedStringIgnoresHexCase() {
	upper := "5E884898DA28047151D0E56F8DC6292773603D0D6AABBDD62A11EF721D1542D8"
	assert.True(suite.T(), VerifyHashedString("password", upper))
}

func (suite *HashUtilTestSuite) TestVerifyPassword() {
	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	suite.Require().NoError(err)

	ok, err := VerifyPassword("s3cret", string(hashed))
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	ok, err = VerifyPassword("wrong", string(hashed))
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
}

func (suite *HashUtilTestSuite) TestVerifyPasswordMalformedHash() {
	ok, err := VerifyPassword("s3cret", "not-a-bcrypt-hash")

	assert.Error(suite.T(), err)
	assert.False(suite.T(), ok)
}
