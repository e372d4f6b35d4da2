package util

import (
	"crypto/sha256"
	"encoding/hex"
)

const ownerKeyPrefix = "resume-owner:"

// OwnerDirectory maps a user ID to the directory holding their uploads, so
// student identifiers never appear on disk.
func OwnerDirectory(userID string) string {
	sum := sha256.Sum256([]byte(ownerKeyPrefix + userID))
	return hex.EncodeToString(sum[:16])
}
