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
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tomoncle/sparrow/utils"
)

var logger = utils.NewLogger("UPLOAD")

// Object describes a stored object after a successful upload.
type Object struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	ETag        string `json:"etag"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	SHA256      string `json:"sha256"`
	Location    string `json:"location,omitempty"`
}

// Uploader stores files in one bucket of an S3-compatible object store.
type Uploader struct {
	client *minio.Client
	config Config
}

// New builds an Uploader from the configuration. No network call is made
// until the first operation.
func New(cfg Config) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Uploader{client: client, config: cfg}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.config.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", u.config.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.config.Bucket, minio.MakeBucketOptions{Region: u.config.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", u.config.Bucket, err)
	}
	logger.Infof("Bucket created: %s", u.config.Bucket)
	return nil
}

// Upload streams the reader into the store under a generated key. The
// content type is sniffed from the leading bytes with a fallback to the
// filename extension, and a SHA-256 digest is computed while streaming.
// Pass size -1 when the length is unknown; the SDK then uploads in parts.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader, size int64) (*Object, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read upload payload: %w", err)
	}
	head = head[:n]
	contentType := detectContentType(head, filename)

	digest := sha256.New()
	body := io.TeeReader(io.MultiReader(bytes.NewReader(head), r), digest)

	key := buildKey(u.config.KeyPrefix, filename, time.Now().UTC())
	info, err := u.client.PutObject(ctx, u.config.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    u.config.PartSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	obj := &Object{
		Bucket:      info.Bucket,
		Key:         info.Key,
		ETag:        info.ETag,
		Size:        info.Size,
		ContentType: contentType,
		SHA256:      hex.EncodeToString(digest.Sum(nil)),
		Location:    info.Location,
	}
	logger.Debugf("Object uploaded: %s (%d bytes, %s)", obj.Key, obj.Size, obj.ContentType)
	return obj, nil
}

// UploadFile uploads a local file by path.
func (u *Uploader) UploadFile(ctx context.Context, path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return u.Upload(ctx, stat.Name(), f, stat.Size())
}

// Remove deletes an object by key.
func (u *Uploader) Remove(ctx context.Context, key string) error {
	if err := u.client.RemoveObject(ctx, u.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}

// PresignedURL returns a time-limited download URL for an object.
func (u *Uploader) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := u.client.PresignedGetObject(ctx, u.config.Bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %q: %w", key, err)
	}
	return url.String(), nil
}
