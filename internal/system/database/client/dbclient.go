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

package client

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	GetDB() *sqlx.DB
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Ping(ctx context.Context) error
	Close() error
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db *sqlx.DB
}

// NewDBClient creates a new instance of DBClient with the provided database connection.
func NewDBClient(db *sqlx.DB) DBClientInterface {

	return &DBClient{
		db: db,
	}
}

// GetDB returns the pooled database handle.
func (client *DBClient) GetDB() *sqlx.DB {

	return client.db
}

// ExecuteQuery executes a SELECT query and returns the result as a slice of maps.
func (client *DBClient) ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := client.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}

		result := make(map[string]interface{}, len(row))
		for col, value := range row {
			// Normalize column names to lowercase for consistency.
			result[strings.ToLower(col)] = value
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {

	return client.db.BeginTxx(ctx, opts)
}

// Ping verifies the database is reachable.
func (client *DBClient) Ping(ctx context.Context) error {

	return client.db.PingContext(ctx)
}

// Close closes the database connection pool.
func (client *DBClient) Close() error {
	return client.db.Close()
}
