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
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how many leading bytes feed the content type detector.
const sniffLen = 3072

const defaultContentType = "application/octet-stream"

// buildKey derives the object key: <prefix>/<yyyy/mm/dd>/<uuid><ext>.
// The original filename only contributes its extension; the uuid keeps keys
// collision-free without consulting the store.
func buildKey(prefix, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	return path.Join(prefix, now.Format("2006/01/02"), name)
}

// detectContentType sniffs the payload head and falls back to the filename
// extension when sniffing only yields the generic binary type.
func detectContentType(head []byte, filename string) string {
	detected := defaultContentType
	if len(head) > 0 {
		detected = mimetype.Detect(head).String()
	}
	if strings.HasPrefix(detected, defaultContentType) {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			return byExt
		}
		return defaultContentType
	}
	return detected
}
