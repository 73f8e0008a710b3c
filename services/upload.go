package services

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/travel-journal-backend/config"
)

// uploadFolder is the logical folder every journal image lands in at the
// media host.
const uploadFolder = "travel-journal"

// Uploader sends an in-memory image buffer to the external media host and
// returns the durable public URL the host assigns. The host keeps the only
// copy; nothing is persisted locally. A failed attempt is terminal — there is
// no retry policy, and size/type limits are delegated entirely to the host.
type Uploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	uploadURL string
	client    *http.Client
	logger    zerolog.Logger
}

// NewUploader builds an Uploader from the config snapshot. Requires
// MEDIA_CLOUD_NAME, MEDIA_API_KEY and MEDIA_API_SECRET; MEDIA_UPLOAD_URL
// overrides the default endpoint derived from the cloud name.
func NewUploader(cfg map[string]string) *Uploader {
	cloudName := config.GetString(cfg, "MEDIA_CLOUD_NAME", "")
	uploadURL := config.GetString(cfg, "MEDIA_UPLOAD_URL",
		fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName))

	return &Uploader{
		cloudName: cloudName,
		apiKey:    config.GetString(cfg, "MEDIA_API_KEY", ""),
		apiSecret: config.GetString(cfg, "MEDIA_API_SECRET", ""),
		uploadURL: uploadURL,
		client:    &http.Client{},
		logger:    log.With().Str("serviceName", "uploader").Logger(),
	}
}

// uploadResponse represents the success response from the media host
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// uploadErrorResponse represents an error response from the media host
type uploadErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload submits the image bytes to the media host and returns the public
// URL on success. The buffer is base64-encoded into a data URI; the request
// is signed with the account secret over the alphabetically ordered params.
func (u *Uploader) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	if u.cloudName == "" || u.apiKey == "" || u.apiSecret == "" {
		return "", fmt.Errorf("media host credentials are not configured")
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	form := url.Values{}
	form.Set("file", dataURI)
	form.Set("api_key", u.apiKey)
	form.Set("timestamp", timestamp)
	form.Set("folder", uploadFolder)
	form.Set("signature", u.sign(map[string]string{
		"folder":    uploadFolder,
		"timestamp": timestamp,
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create media host request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach media host: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read media host response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var hostErr uploadErrorResponse
		if err := json.Unmarshal(body, &hostErr); err == nil && hostErr.Error.Message != "" {
			return "", fmt.Errorf("media host rejected upload (status %d): %s", resp.StatusCode, hostErr.Error.Message)
		}
		return "", fmt.Errorf("media host rejected upload (status %d)", resp.StatusCode)
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return "", fmt.Errorf("failed to decode media host response: %w", err)
	}
	if uploaded.SecureURL == "" {
		return "", fmt.Errorf("media host response missing secure_url")
	}

	u.logger.Debug().
		Str("url", uploaded.SecureURL).
		Int("bytes", len(data)).
		Msg("Uploaded image to media host")

	return uploaded.SecureURL, nil
}

// sign produces the hex-encoded sha1 of the alphabetically ordered
// key=value pairs joined by & with the API secret appended, which is the
// signature scheme the media host verifies.
func (u *Uploader) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + u.apiSecret))
	return hex.EncodeToString(sum[:])
}
