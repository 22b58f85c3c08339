package threecommas

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the hex-encoded HMAC-SHA256 digest the platform expects in
// the Signature header, keyed by the API secret and taken over the relative
// request path concatenated with the serialized payload (the query string for
// GET requests, the JSON body otherwise; either may be empty).
//
// Sign is pure and deterministic. An empty secret yields an empty signature,
// which is what anonymous endpoints such as ping and time are called with.
func Sign(secret, path, payload string) string {
	if secret == "" {
		return ""
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(path))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
