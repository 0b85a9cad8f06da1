//go:build integration

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

package benchmark

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/wso2/identity-contact-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
	"github.com/wso2/identity-contact-reconciliation-service/test/setup"
)

var benchDB *sql.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	conf := config.Config{
		Log: config.LogConfig{
			LogLevel: "ERROR", // Use ERROR for benchmarks to reduce noise
		},
		Identify: config.IdentifyConfig{
			LockTimeout:  5 * time.Second,
			MaxAttempts:  10,
			RetryBackoff: 5 * time.Millisecond,
		},
	}
	config.OverrideCRSRuntime(conf)
	_ = log.Init("ERROR")

	pg, err := setup.SetupTestDB(ctx)
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}
	benchDB = pg.DB
	provider.SetTestDB(pg.DB)

	code := m.Run()

	pg.Terminate()
	os.Exit(code)
}
