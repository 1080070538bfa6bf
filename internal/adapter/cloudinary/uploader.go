// Package cloudinary implements the avatar uploader port against the
// Cloudinary signed upload API.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/contactd/contactd/internal/config"
)

const uploadTimeout = 30 * time.Second

// Uploader stores avatar images in a Cloudinary media library. Uploads use a
// fixed per-username public ID with overwrite enabled, so a new avatar
// replaces the previous one.
type Uploader struct {
	client    *http.Client
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	now       func() time.Time
}

// New creates an Uploader from Cloudinary credentials.
func New(cfg config.Cloudinary) *Uploader {
	return &Uploader{
		client:    &http.Client{Timeout: uploadTimeout},
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   "https://api.cloudinary.com/v1_1/" + cfg.CloudName + "/image/upload",
		now:       time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, username string, file io.Reader) (string, error) {
	publicID := "avatars/" + username
	timestamp := strconv.FormatInt(u.now().Unix(), 10)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
		"overwrite": "true",
		"api_key":   u.apiKey,
		"signature": u.sign(publicID, timestamp),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	fw, err := mw.CreateFormFile("file", "avatar")
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, parsed.Error.Message)
	}
	return parsed.SecureURL, nil
}

// sign builds the request signature: the SHA-1 of the alphabetically ordered
// signed parameters with the API secret appended. api_key and file are not
// part of the signed string.
func (u *Uploader) sign(publicID, timestamp string) string {
	toSign := "overwrite=true&public_id=" + publicID + "&timestamp=" + timestamp + u.apiSecret
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
