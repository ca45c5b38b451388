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

package upload

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var keyPattern = regexp.MustCompile(`^media/2025/06/15/[0-9a-f-]{36}\.png$`)

func TestBuildKey(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	key := buildKey("media", "Portrait.PNG", now)
	if !keyPattern.MatchString(key) {
		t.Errorf("key = %q, want media/2025/06/15/<uuid>.png", key)
	}

	other := buildKey("media", "Portrait.PNG", now)
	if key == other {
		t.Error("two keys for the same filename must differ")
	}

	if got := buildKey("", "report.pdf", now); !strings.HasPrefix(got, "2025/06/15/") {
		t.Errorf("empty prefix key = %q", got)
	}
	if got := buildKey("backups", "archive", now); strings.Contains(got, ".") {
		t.Errorf("extensionless filename produced %q", got)
	}
}

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000000000")
	if got := detectContentType(png, "whatever.bin"); got != "image/png" {
		t.Errorf("png sniff = %q", got)
	}

	// Unrecognizable payload falls back to the filename extension.
	blob := []byte{0x00, 0x01, 0x02, 0x03}
	if got := detectContentType(blob, "style.css"); !strings.HasPrefix(got, "text/css") {
		t.Errorf("extension fallback = %q", got)
	}

	if got := detectContentType(nil, "unknown"); got != defaultContentType {
		t.Errorf("empty payload = %q", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Endpoint: "minio.local:9000", Bucket: "files", KeyPrefix: "/media/"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.KeyPrefix != "media" {
		t.Errorf("prefix = %q, want trimmed", cfg.KeyPrefix)
	}

	if err := (&Config{Bucket: "files"}).Validate(); err == nil {
		t.Error("missing endpoint must fail")
	}
	if err := (&Config{Endpoint: "minio.local:9000"}).Validate(); err == nil {
		t.Error("missing bucket must fail")
	}
}
