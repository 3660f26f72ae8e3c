package llm

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// batchIDLen is the hex length of a batch ID: 4 bytes of unix time + 8 random bytes.
const batchIDLen = 24

func generateBatchID(now time.Time) string {
	id := make([]byte, batchIDLen/2)
	binary.BigEndian.PutUint32(id[:4], uint32(now.Unix()))
	rand.Read(id[4:])

	return hex.EncodeToString(id)
}

func isValidBatchID(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil && len(s) == batchIDLen
}

// EnsureBatchID returns s when it is already a batch ID, or a fresh one.
func EnsureBatchID(s string) string {
	if !isValidBatchID(s) {
		return generateBatchID(time.Now())
	}
	return s
}
