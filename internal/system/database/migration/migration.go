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

package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	cerrors "github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
)

//go:embed scripts/*.sql
var migrationFiles embed.FS

// migrationLogger adapts the service logger to migrate.Logger.
type migrationLogger struct {
	logger *log.Logger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l migrationLogger) Verbose() bool {
	return false
}

// Run applies all pending schema migrations to the database behind dsn. It opens and closes its own
// connection so the shared pool is left untouched.
func Run(dsn string) error {

	logger := log.GetLogger()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return migrationError("Failed to open database connection for migrations.", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return migrationError("Failed to create migration driver.", err)
	}

	source, err := iofs.New(migrationFiles, "scripts")
	if err != nil {
		_ = driver.Close()
		return migrationError("Failed to load embedded migration scripts.", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return migrationError("Failed to create migrate instance.", err)
	}
	defer func() {
		_, _ = m.Close()
	}()
	m.Log = migrationLogger{logger: logger}

	startTime := time.Now()
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply")
		return nil
	}
	if err != nil {
		version, dirty, _ := m.Version()
		logger.Error(fmt.Sprintf("Failed to apply migrations. Database version is dirty=%t at version %d",
			dirty, version), log.Error(err))
		return migrationError("Failed to apply schema migrations.", err)
	}
	logger.Info(fmt.Sprintf("Database migrations completed in %v", time.Since(startTime)))
	return nil
}

func migrationError(description string, err error) error {

	return cerrors.NewServerError(cerrors.ErrorMessage{
		Code:        cerrors.DB_MIGRATION.Code,
		Message:     cerrors.DB_MIGRATION.Message,
		Description: description,
	}, err)
}
