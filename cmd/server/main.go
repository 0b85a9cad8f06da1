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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/constants"
	syscontext "github.com/wso2/identity-contact-reconciliation-service/internal/system/context"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/migration"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/managers"
)

const shutdownTimeout = 15 * time.Second

func main() {
	crsHome := getCRSHome()

	envFiles, err := filepath.Glob(filepath.Join(crsHome, "config", "*.env"))
	if err != nil || len(envFiles) == 0 {
		log.GetLogger().Warn("No .env files found in config directory")
	} else if err := godotenv.Load(envFiles...); err != nil {
		log.GetLogger().Warn("Failed to load .env files", log.Error(err))
	}

	// Load the configuration file
	crsConfig, err := config.LoadConfig(crsHome, constants.DeploymentConfigFile)
	if err != nil {
		log.GetLogger().Fatal("Failed to load configuration", log.Error(err))
	}

	// Initialize runtime configurations.
	if err := config.InitializeCRSRuntime(crsHome, crsConfig); err != nil {
		log.GetLogger().Fatal("Failed to initialize runtime", log.Error(err))
	}

	// Initialize logger
	if err := log.InitWithFormat(crsConfig.Log.LogLevel, crsConfig.Log.Format); err != nil {
		log.GetLogger().Fatal("Failed to initialize logger", log.Error(err))
	}
	logger := log.GetLogger()

	// Apply schema migrations before serving.
	if err := migration.Run(provider.BuildDSN(crsConfig.DataSource)); err != nil {
		logger.Fatal("Failed to migrate the database", log.Error(err))
	}
	if _, err := provider.NewDBProvider().GetDBClient(); err != nil {
		logger.Fatal("Failed to connect to the database", log.Error(err))
	}
	defer func() {
		if err := provider.CloseDBClient(); err != nil {
			logger.Warn("Failed to close the database pool", log.Error(err))
		}
	}()

	serverAddr := fmt.Sprintf("%s:%d", crsConfig.Addr.Host, crsConfig.Addr.Port)
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.Error(err))
	}

	server := &http.Server{
		Handler:           syscontext.TraceMiddleware(initMultiplexer(crsConfig)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("%s started in: %s", constants.ServiceName, serverAddr))
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve requests", log.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", log.Error(err))
		}
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer(crsConfig *config.Config) *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux, crsConfig.Metrics)

	// Register the services.
	if err := serviceManager.RegisterServices(""); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}

	return mux
}

func getCRSHome() string {

	// Parse project directory from command line arguments.
	projectHomeFlag := flag.String("crsHome", "", "Path to contact reconciliation service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		log.GetLogger().Info(fmt.Sprintf("Using %s from command line argument", *projectHomeFlag))
		return *projectHomeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		log.GetLogger().Fatal("Failed to get current working directory", log.Error(err))
	}
	return dir
}
