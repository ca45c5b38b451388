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
	"fmt"
	"os"
	"strings"
)

// Config describes the target S3-compatible store. Credentials may be left
// empty and provided through the standard environment variables instead.
type Config struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	KeyPrefix       string `json:"key_prefix" yaml:"key_prefix"`
	UseSSL          bool   `json:"use_ssl" yaml:"use_ssl"`
	PartSize        uint64 `json:"part_size" yaml:"part_size"` // bytes, 0 keeps the SDK default
}

// Validate checks the required fields and normalizes the key prefix.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("upload: endpoint is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("upload: bucket is required")
	}
	c.KeyPrefix = strings.Trim(c.KeyPrefix, "/")
	if c.AccessKeyID == "" {
		c.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		c.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	}
	return nil
}
