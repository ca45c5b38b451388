/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// Process-wide connection state with an explicit init/shutdown lifecycle.
// Managers remain directly constructable via NewManager for callers that
// prefer dependency injection over the global.
var (
	globalManager Manager
	globalConfig  *Config
)

// Init connects the global database using the provided configuration.
func Init(cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if err := cfg.ConnectionConfig.Validate(); err != nil {
		return nil, err
	}
	OverrideFromEnv(&cfg.ConnectionConfig)

	manager := NewManager(&cfg.ConnectionConfig)
	manager.SetLogger(GetLogger())

	if err := manager.Connect(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	globalManager = manager
	globalConfig = cfg
	return manager.GetDB(), nil
}

// Close shuts down the global database connection.
func Close() error {
	if globalManager != nil {
		return globalManager.Disconnect()
	}
	return nil
}

// GetDB returns the global Bun database instance, or nil before Init.
func GetDB() *bun.DB {
	if globalManager != nil {
		return globalManager.GetDB()
	}
	return nil
}

// GetSQLDB returns the global database/sql pool, or nil before Init.
func GetSQLDB() *sql.DB {
	if globalManager != nil {
		return globalManager.GetSQLDB()
	}
	return nil
}

// GetManager returns the global database manager, or nil before Init.
func GetManager() Manager {
	return globalManager
}

// DriverType returns the normalized configured driver type ("postgres",
// "mysql", or "sqlite"), or an empty string before Init.
func DriverType() string {
	if globalConfig == nil {
		return ""
	}
	switch globalConfig.ConnectionConfig.Type {
	case "postgres", "postgresql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return globalConfig.ConnectionConfig.Type
	}
}

// GetHealthStatus returns the current database health status.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	if globalManager != nil {
		return globalManager.HealthCheck(ctx)
	}
	return &HealthStatus{
		Healthy:   false,
		Connected: false,
		LastError: "Database not initialized",
	}
}

// GetStats returns global database pool statistics.
func GetStats() *DBStats {
	if globalManager != nil {
		return globalManager.GetStats()
	}
	return &DBStats{}
}
