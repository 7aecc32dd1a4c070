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

// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path"
	"sync"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/constants"
	"github.com/appsuite/oauthd/internal/system/database/client"
	"github.com/appsuite/oauthd/internal/system/database/model"
	"github.com/appsuite/oauthd/internal/system/log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	dataSourceTypePostgres = "postgres"
	dataSourceTypeSQLite   = "sqlite"
	dataSourceTypeMySQL    = model.DBTypeMySQL
)

// dbConfig represents the local database configuration.
type dbConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient(dbName string) (client.DBClientInterface, error)
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct {
	runtimeClient client.DBClientInterface
	runtimeMutex  sync.RWMutex
}

var (
	instance *DBProvider
	once     sync.Once
)

// GetDBProvider returns the instance of DBProvider.
func GetDBProvider() DBProviderInterface {
	once.Do(func() {
		instance = &DBProvider{}
		instance.closeOnInterrupt()
	})
	return instance
}

// GetDBClient returns a database client based on the provided database name.
// Not required to close the returned client manually since it manages its own connection pool.
func (d *DBProvider) GetDBClient(dbName string) (client.DBClientInterface, error) {
	switch dbName {
	case constants.DBNameRuntime:
		runtimeDBConfig := config.GetServerRuntime().Config.Database.Runtime
		return d.getOrInitClient(runtimeDBConfig)
	default:
		return nil, fmt.Errorf("unsupported database name: %s", dbName)
	}
}

// getOrInitClient gets or initializes the runtime DB client with locking.
func (d *DBProvider) getOrInitClient(dataSource config.DataSource) (client.DBClientInterface, error) {
	d.runtimeMutex.RLock()
	if d.runtimeClient != nil {
		dbClient := d.runtimeClient
		d.runtimeMutex.RUnlock()
		return dbClient, nil
	}
	d.runtimeMutex.RUnlock()

	d.runtimeMutex.Lock()
	defer d.runtimeMutex.Unlock()

	if d.runtimeClient != nil {
		return d.runtimeClient, nil
	}

	dbClient, err := openClient(dataSource)
	if err != nil {
		return nil, err
	}
	d.runtimeClient = dbClient
	return dbClient, nil
}

// openClient opens a pooled connection for the data source and verifies it.
func openClient(dataSource config.DataSource) (client.DBClientInterface, error) {
	dbConfig, err := getDBConfig(dataSource, config.GetServerRuntime().ServerHome)
	if err != nil {
		return nil, err
	}
	dbName := dataSource.Name

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}

	db.SetMaxOpenConns(dataSource.MaxOpenConns)
	db.SetMaxIdleConns(dataSource.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(dataSource.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database %s: %w (close error: %w)", dbName, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database %s: %w", dbName, err)
	}

	return client.NewDBClient(model.NewDB(db), dbConfig.driverName), nil
}

// getDBConfig returns the database configuration based on the provided data source.
func getDBConfig(dataSource config.DataSource, serverHome string) (dbConfig, error) {
	var cfg dbConfig

	switch dataSource.Type {
	case dataSourceTypePostgres:
		cfg.driverName = dataSourceTypePostgres
		cfg.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
			dataSource.Name, dataSource.SSLMode)
	case dataSourceTypeSQLite:
		cfg.driverName = dataSourceTypeSQLite
		options := dataSource.Options
		if options != "" && options[0] != '?' {
			options = "?" + options
		}
		dbPath := dataSource.Path
		if !path.IsAbs(dbPath) {
			dbPath = path.Join(serverHome, dbPath)
		}
		cfg.dsn = dbPath + options
	case dataSourceTypeMySQL:
		mysqlConfig := mysql.NewConfig()
		mysqlConfig.User = dataSource.Username
		mysqlConfig.Passwd = dataSource.Password
		mysqlConfig.Net = "tcp"
		mysqlConfig.Addr = fmt.Sprintf("%s:%d", dataSource.Hostname, dataSource.Port)
		mysqlConfig.DBName = dataSource.Name
		mysqlConfig.ParseTime = true
		cfg.driverName = dataSourceTypeMySQL
		cfg.dsn = mysqlConfig.FormatDSN()
	default:
		return cfg, fmt.Errorf("unsupported data source type: %s", dataSource.Type)
	}

	return cfg, nil
}

// closeOnInterrupt sets up signal handling for graceful shutdown
func (d *DBProvider) closeOnInterrupt() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger := log.GetLogger()
		if err := d.close(); err != nil {
			logger.Error("Error closing database connections", log.Error(err))
		} else {
			logger.Debug("Database connections closed successfully")
		}
	}()
}

// close closes the database connections
func (d *DBProvider) close() error {
	d.runtimeMutex.Lock()
	defer d.runtimeMutex.Unlock()
	if d.runtimeClient != nil {
		if err := d.runtimeClient.Close(); err != nil {
			return fmt.Errorf("failed to close runtime client: %w", err)
		}
		d.runtimeClient = nil
	}
	return nil
}
