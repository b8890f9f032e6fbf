// Package webhookhttp delivers signed webhook payloads over HTTP. It is the
// outbound adapter behind the dispatch engine's transport port.
package webhookhttp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// Sign computes the delivery signature: HMAC-SHA256 over
// "{timestampMillis}.{payloadJSON}", hex encoded.
//
// The payload is serialized with encoding/json, which writes map keys in
// sorted order, so the same payload map always signs to the same value for a
// given timestamp. Receivers verify by serializing the body they received and
// recomputing the HMAC with their secret.
func Sign(secret string, timestampMillis int64, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal webhook payload: %w", err)
	}
	return SignBody(secret, timestampMillis, body), nil
}

// SignBody signs an already-serialized payload body.
func SignBody(secret string, timestampMillis int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestampMillis, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the body and timestamp
// under the secret. Comparison is constant time.
func VerifySignature(secret string, timestampMillis int64, body []byte, signature string) bool {
	expected := SignBody(secret, timestampMillis, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
