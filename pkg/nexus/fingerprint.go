package nexus

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint computes a deterministic hash of a resource state. The fields
// are serialized with sorted keys before hashing, so two states with the same
// content always produce the same fingerprint regardless of field order.
// Fingerprints are compared to detect no-op updates before any write is sent.
func Fingerprint(fields map[string]interface{}) (string, error) {
	// encoding/json sorts map keys, which makes the serialization canonical.
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("serializing resource for fingerprint: %w", err)
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}

// FingerprintResource is a convenience wrapper over Fingerprint for a Resource.
func FingerprintResource(res *Resource) (string, error) {
	return Fingerprint(res.ToMap())
}
