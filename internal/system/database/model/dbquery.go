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

package model

// DBTypeMySQL identifies a MySQL data source.
const DBTypeMySQL = "mysql"

// DBQuery represents a named database query.
// Query uses positional ($n) placeholders; MySQLQuery carries the '?' form when the two differ.
type DBQuery struct {
	ID         string
	Query      string
	MySQLQuery string
}

// GetID returns the identifier of the query.
func (d DBQuery) GetID() string {
	return d.ID
}

// GetQuery returns the statement to run against the given database type.
func (d DBQuery) GetQuery(dbType string) string {
	if dbType == DBTypeMySQL && d.MySQLQuery != "" {
		return d.MySQLQuery
	}
	return d.Query
}
