package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHash computes the evidentiary digest recorded alongside a contract
// signature: SHA-256 over the exact concatenation of the signature image
// data, the RFC 3339 signing timestamp, and the origin IP, in that order.
// The concatenation order is part of the audit contract and must not change.
func SignatureHash(signatureData, timestamp, originIP string) string {
	sum := sha256.Sum256([]byte(signatureData + timestamp + originIP))
	return hex.EncodeToString(sum[:])
}
