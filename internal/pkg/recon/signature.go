package recon

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the hex HMAC-SHA256 of the raw notification body
// against the signature header value.
func VerifySignature(payload []byte, signatureHeader, secret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	sec := strings.TrimSpace(secret)
	if sig == "" || sec == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(sec))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
