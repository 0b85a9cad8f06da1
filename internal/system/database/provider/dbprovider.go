/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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
	"database/sql"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/client"
)

const driverName = "postgres"

var (
	dbClient client.DBClientInterface
	dbMutex  sync.Mutex
)

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct{}

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// GetDBClient returns the shared database client, opening the connection pool on first use.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	dbMutex.Lock()
	defer dbMutex.Unlock()

	if dbClient != nil {
		return dbClient, nil
	}

	dataSource := config.GetCRSRuntime().Config.DataSource
	db, err := sqlx.Open(driverName, BuildDSN(dataSource))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if dataSource.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dataSource.MaxOpenConns)
	}
	if dataSource.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dataSource.MaxIdleConns)
	}
	if dataSource.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(dataSource.ConnMaxLifetime)
	}

	// Test the database connection.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbClient = client.NewDBClient(db)
	return dbClient, nil
}

// SetTestDB makes the provider hand out the given connection instead of opening one from config.
func SetTestDB(db *sql.DB) {

	dbMutex.Lock()
	defer dbMutex.Unlock()
	dbClient = client.NewDBClient(sqlx.NewDb(db, driverName))
}

// CloseDBClient closes the shared pool, if one was opened.
func CloseDBClient() error {

	dbMutex.Lock()
	defer dbMutex.Unlock()
	if dbClient == nil {
		return nil
	}
	err := dbClient.Close()
	dbClient = nil
	return err
}

// BuildDSN returns the lib/pq connection string for the configured data source.
func BuildDSN(dataSource config.DataSourceConfig) string {

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
		dataSource.Name, dataSource.SSLMode)
}
