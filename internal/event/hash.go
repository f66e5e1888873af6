package event

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRecord prefixes record hashes. The version suffix leaves room for
// changing the encoding later.
const DomainRecord = "iwpsync/event/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content hash of a record. Identical writes on the same
// entity produce the same hash, which lets the host spot duplicates.
func Hash(r Record) (string, error) {
	canonical, err := r.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("hash record: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}
