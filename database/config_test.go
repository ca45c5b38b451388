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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.yaml")
	content := `
connection_config:
  type: postgres
  host: db.internal
  port: 5432
  username: app
  dbname: app
  sslmode: disable
  max_open_conns: 20
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file error: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config error: %v", err)
	}
	c := cfg.ConnectionConfig
	if c.Type != "postgres" || c.Host != "db.internal" || c.Port != 5432 {
		t.Fatalf("unexpected connection settings: %+v", c)
	}
	if c.MaxOpenConns != 20 {
		t.Fatalf("max_open_conns = %d, want 20", c.MaxOpenConns)
	}
	// unset pool settings keep their defaults
	if c.MaxIdleConns != 10 || c.ConnMaxLifetime != time.Hour {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "10.0.0.9")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := DefaultConnectionConfig()
	cfg.Host = "localhost"
	OverrideFromEnv(cfg)

	if cfg.Host != "10.0.0.9" || cfg.Port != 5433 || cfg.Password != "secret" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if !cfg.EnableQueryLog {
		t.Fatal("DB_ENABLE_QUERY_LOG not applied")
	}
}

func TestValidate(t *testing.T) {
	for _, dbType := range []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"} {
		cfg := ConnectionConfig{Type: dbType}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate(%q) error: %v", dbType, err)
		}
	}
	cfg := ConnectionConfig{Type: "oracle"}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate(oracle) expected error")
	}
}
