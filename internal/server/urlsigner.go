package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

const defaultURLTTL = 168 * time.Hour

// URLSigner mints and verifies time-limited attachment URLs. Signatures
// are HMAC-SHA256 over the storage key and the expiry timestamp.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewURLSigner creates a signer. When secret is empty a random per-process
// secret is generated, which invalidates outstanding URLs on restart.
func NewURLSigner(secret string, ttl time.Duration, logger *slog.Logger) *URLSigner {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("generate signing secret: %v", err))
		}
		if logger != nil {
			logger.Warn("no sign_secret configured, signed urls will not survive restarts")
		}
	}
	if ttl <= 0 {
		ttl = defaultURLTTL
	}
	return &URLSigner{secret: key, ttl: ttl, now: time.Now}
}

// Sign returns a relative signed URL for the given storage key.
func (s *URLSigner) Sign(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key is required")
	}

	expires := s.now().Add(s.ttl).Unix()
	sig := s.signature(key, expires)

	query := url.Values{}
	query.Set("expires", strconv.FormatInt(expires, 10))
	query.Set("sig", sig)

	return "/v1/attachments/" + url.PathEscape(key) + "?" + query.Encode(), nil
}

// Verify checks the signature and expiry for a storage key.
func (s *URLSigner) Verify(key, expiresRaw, sig string) error {
	expires, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry")
	}
	if s.now().Unix() > expires {
		return fmt.Errorf("url expired")
	}

	expected := s.signature(key, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

func (s *URLSigner) signature(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
