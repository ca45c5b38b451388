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

// Package upload handles object uploads to an S3-compatible store.
//
// The Uploader wraps a MinIO client with explicit configuration (endpoint,
// bucket, key prefix, part size) and adds the conveniences the raw SDK does
// not: date/uuid object keys derived from the original filename, content
// type sniffing, and a SHA-256 digest of the payload computed while
// streaming. Multipart switching, retries, and authentication stay inside
// the SDK; errors from it propagate unchanged.
package upload
