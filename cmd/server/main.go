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

// Package main is the entry point for starting the OAuth provider.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/appsuite/oauthd/internal/application"
	"github.com/appsuite/oauthd/internal/cert"
	"github.com/appsuite/oauthd/internal/managers"
	"github.com/appsuite/oauthd/internal/notification"
	"github.com/appsuite/oauthd/internal/oauth/grant"
	grantstore "github.com/appsuite/oauthd/internal/oauth/grant/store"
	sessionstore "github.com/appsuite/oauthd/internal/oauth/session/store"
	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/constants"
	"github.com/appsuite/oauthd/internal/system/database/provider"
	"github.com/appsuite/oauthd/internal/system/log"
	"github.com/appsuite/oauthd/internal/system/metrics"
	"github.com/appsuite/oauthd/internal/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := log.GetLogger()
	defer logger.Sync()

	serverHome := getServerHome(logger)

	cfg := initConfigurations(logger, serverHome)
	if cfg == nil {
		logger.Fatal("Failed to initialize configurations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components := initComponents(ctx, logger, cfg)

	mux := initMultiplexer(logger, cfg, components)
	if mux == nil {
		logger.Fatal("Failed to initialize multiplexer")
	}

	cleanerDone := grant.NewCleaner(components.GrantManager,
		time.Duration(cfg.OAuth.CleanupInterval)*time.Second, components.SessionStore).Start(ctx)

	server, serverAddr := createHTTPServer(logger, cfg, mux)
	serveErr := make(chan error, 1)
	go func() {
		if cfg.Server.HTTPOnly {
			logger.Info("TLS is not enabled, starting server without TLS")
			serveErr <- startHTTPServer(logger, server, serverAddr)
			return
		}
		serveErr <- startTLSServer(logger, cfg, server, serverAddr, serverHome)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve requests", log.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutting down OAuth provider")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down server gracefully", log.Error(err))
		}
	}

	stop()
	<-cleanerDone
}

// getServerHome retrieves and returns the server home directory.
func getServerHome(logger *log.Logger) string {
	serverHomeFlag := flag.String("serverHome", "", "Path to the OAuth provider home directory")
	flag.Parse()

	if *serverHomeFlag != "" {
		logger.Info("Using serverHome from command line argument", log.String("serverHome", *serverHomeFlag))
		return *serverHomeFlag
	}

	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		logger.Fatal("Failed to get current working directory", log.Error(err))
	}
	return dir
}

// initConfigurations loads the deployment configuration and initializes the server runtime.
func initConfigurations(logger *log.Logger, serverHome string) *config.Config {
	configFilePath := path.Join(serverHome, "repository/conf/deployment.yaml")
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.Error(err))
	}

	if err := config.InitializeServerRuntime(serverHome, cfg); err != nil {
		logger.Fatal("Failed to initialize server runtime", log.Error(err))
	}

	return cfg
}

// initComponents builds the long lived components shared by the services.
func initComponents(ctx context.Context, logger *log.Logger, cfg *config.Config) managers.Components {
	clientRegistry, err := application.NewClientRegistry(cfg.OAuth.Clients)
	if err != nil {
		logger.Fatal("Failed to load OAuth clients", log.Error(err))
	}

	store, err := initGrantStore(ctx, cfg.OAuth.GrantStore)
	if err != nil {
		logger.Fatal("Failed to initialize grant store", log.Error(err))
	}

	sessionStore, err := sessionstore.NewSessionStore(cfg.Session)
	if err != nil {
		logger.Fatal("Failed to initialize session store", log.Error(err))
	}

	var oauthMetrics *metrics.OAuthMetrics
	if cfg.Metrics.Enabled {
		oauthMetrics = metrics.OAuth()
	}

	return managers.Components{
		ClientRegistry: clientRegistry,
		GrantManager:   grant.NewGrantManager(store, cfg.OAuth, oauthMetrics),
		UserService:    user.NewUserService(cfg.Users),
		SessionStore:   sessionStore,
		Notifier:       notification.NewNotifier(cfg.Notification),
		Metrics:        oauthMetrics,
	}
}

// initGrantStore creates the configured grant store, preparing the runtime schema when it is database backed.
func initGrantStore(ctx context.Context, storeConfig config.GrantStoreConfig) (grantstore.GrantStoreInterface,
	error) {
	switch storeConfig.Type {
	case config.GrantStoreTypeMemory:
		return grantstore.NewMemoryGrantStore(), nil
	case config.GrantStoreTypeDatabase:
		dbProvider := provider.GetDBProvider()
		dbClient, err := dbProvider.GetDBClient(constants.DBNameRuntime)
		if err != nil {
			return nil, err
		}
		if err := grantstore.InitializeSchema(ctx, dbClient); err != nil {
			return nil, err
		}
		return grantstore.NewDBGrantStore(dbProvider), nil
	default:
		return nil, fmt.Errorf("unsupported grant store type: %s", storeConfig.Type)
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer(logger *log.Logger, cfg *config.Config, components managers.Components) *http.ServeMux {
	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux, cfg, components)

	if err := serviceManager.RegisterServices(); err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}

	return mux
}

// startTLSServer starts the HTTPS server with TLS configuration.
func startTLSServer(logger *log.Logger, cfg *config.Config, server *http.Server, serverAddr,
	serverHome string) error {
	tlsConfig, err := cert.GetTLSConfig(cfg.Security, serverHome)
	if err != nil {
		logger.Fatal("Failed to load TLS configuration", log.Error(err))
	}

	ln, err := tls.Listen("tcp", serverAddr, tlsConfig)
	if err != nil {
		logger.Fatal("Failed to start TLS listener", log.Error(err))
	}

	logger.Info("OAuth provider started (HTTPS)...", log.String("address", serverAddr))
	return server.Serve(ln)
}

// startHTTPServer starts the HTTP server without TLS.
func startHTTPServer(logger *log.Logger, server *http.Server, serverAddr string) error {
	logger.Info("OAuth provider started (HTTP)...", log.String("address", serverAddr))
	return server.ListenAndServe()
}

// createHTTPServer creates and configures an HTTP server with common settings.
func createHTTPServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux) (*http.Server, string) {
	wrappedMux := log.AccessLogHandler(logger, mux)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           wrappedMux,
		ReadHeaderTimeout: 10 * time.Second, // Mitigate Slowloris attacks
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return server, serverAddr
}
