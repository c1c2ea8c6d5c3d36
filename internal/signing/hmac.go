// Package signing signs report responses so clients can check they were not
// altered in transit.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	HeaderSignature = "X-Entregas-Signature"
	HeaderTimestamp = "X-Entregas-Timestamp"
)

func Sign(secret string, payload []byte, at time.Time) (signature string, timestamp int64) {
	timestamp = at.Unix()
	return compute(secret, payload, timestamp), timestamp
}

func Verify(secret string, payload []byte, timestamp int64, signature string) bool {
	expected := compute(secret, payload, timestamp)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SetHeaders signs payload and writes the signature headers on h. It does
// nothing when secret is empty.
func SetHeaders(h http.Header, secret string, payload []byte) {
	if secret == "" {
		return
	}
	sig, ts := Sign(secret, payload, time.Now())
	h.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	h.Set(HeaderSignature, sig)
}

func compute(secret string, payload []byte, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return "v1=" + hex.EncodeToString(mac.Sum(nil))
}
