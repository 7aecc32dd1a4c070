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

package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/appsuite/oauthd/internal/system/config"
)

type DBProviderTestSuite struct {
	suite.Suite
}

func TestDBProviderSuite(t *testing.T) {
	suite.Run(t, new(DBProviderTestSuite))
}

func (suite *DBProviderTestSuite) TestGetDBConfigPostgres() {
	cfg, err := getDBConfig(config.DataSource{
		Type:     "postgres",
		Hostname: "db.example.com",
		Port:     5432,
		Name:     "oauth",
		Username: "oauth",
		Password: "pw",
		SSLMode:  "disable",
	}, "/opt/oauthd")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "postgres", cfg.driverName)
	assert.Equal(suite.T(),
		"host=db.example.com port=5432 user=oauth password=pw dbname=oauth sslmode=disable", cfg.dsn)
}

func (suite *DBProviderTestSuite) TestGetDBConfigSQLiteRelativePath() {
	cfg, err := getDBConfig(config.DataSource{
		Type:    "sqlite",
		Path:    "repository/database/runtime.db",
		Options: "_pragma=journal_mode(WAL)",
	}, "/opt/oauthd")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "sqlite", cfg.driverName)
	assert.Equal(suite.T(), "/opt/oauthd/repository/database/runtime.db?_pragma=journal_mode(WAL)", cfg.dsn)
}

func (suite *DBProviderTestSuite) TestGetDBConfigSQLiteAbsolutePath() {
	cfg, err := getDBConfig(config.DataSource{Type: "sqlite", Path: "/var/lib/oauthd/runtime.db"}, "/opt/oauthd")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/var/lib/oauthd/runtime.db", cfg.dsn)
}

func (suite *DBProviderTestSuite) TestGetDBConfigMySQL() {
	cfg, err := getDBConfig(config.DataSource{
		Type:     "mysql",
		Hostname: "127.0.0.1",
		Port:     3306,
		Name:     "oxdb",
		Username: "ox",
		Password: "secret",
	}, "")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "mysql", cfg.driverName)
	assert.Contains(suite.T(), cfg.dsn, "ox:secret@tcp(127.0.0.1:3306)/oxdb")
	assert.Contains(suite.T(), cfg.dsn, "parseTime=true")
}

func (suite *DBProviderTestSuite) TestGetDBConfigUnsupported() {
	_, err := getDBConfig(config.DataSource{Type: "oracle"}, "")
	assert.Error(suite.T(), err)
}
