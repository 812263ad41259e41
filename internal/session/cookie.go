package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// CookieName is the cookie carrying the signed session id.
const CookieName = "session_id"

// Sign returns the cookie value for sid: the id followed by an HMAC-SHA256
// tag over it, so a client cannot mint or alter ids.
func (s *Store) Sign(sid string) string {
	return sid + "." + s.tag(sid)
}

// Verify extracts the session id from a cookie value, rejecting values with
// a missing or forged signature.
func (s *Store) Verify(value string) (string, bool) {
	sid, tag, ok := strings.Cut(value, ".")
	if !ok || sid == "" {
		return "", false
	}
	if !hmac.Equal([]byte(tag), []byte(s.tag(sid))) {
		return "", false
	}
	return sid, true
}

func (s *Store) tag(sid string) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(sid))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
