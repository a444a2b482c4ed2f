package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"sync/atomic"
	"time"
)

// IDLength is the number of hexadecimal characters in an identifier.
const IDLength = 24

// An identifier is 12 bytes rendered as hex: a 4-byte big-endian creation
// timestamp in seconds, 5 bytes fixed per process, and a 3-byte counter.
// Identifiers therefore sort roughly by creation time.
var (
	processUnique [5]byte
	idCounter     atomic.Uint32
)

func init() {
	var seed [4]byte
	if _, err := rand.Read(processUnique[:]); err != nil {
		// ALLOW-PANIC: the process cannot mint identifiers without entropy
		panic("domain: failed to seed identifier generator: " + err.Error())
	}
	if _, err := rand.Read(seed[:]); err != nil {
		// ALLOW-PANIC: the process cannot mint identifiers without entropy
		panic("domain: failed to seed identifier counter: " + err.Error())
	}
	idCounter.Store(binary.BigEndian.Uint32(seed[:]))
}

// NewID returns a fresh 24-character lowercase hex identifier.
func NewID() string {
	return newIDAt(time.Now())
}

func newIDAt(t time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(t.Unix()))
	copy(b[4:9], processUnique[:])
	c := idCounter.Add(1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return hex.EncodeToString(b[:])
}

// IsValidID reports whether id is exactly 24 hexadecimal characters.
func IsValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// NormalizeID lower-cases id. Identifiers are hex, so "AB12..." and "ab12..."
// name the same document; stores keep only the lowercase form.
func NormalizeID(id string) string {
	return strings.ToLower(id)
}

// IDTime returns the creation second encoded in a valid identifier.
func IDTime(id string) (time.Time, error) {
	if !IsValidID(id) {
		return time.Time{}, ErrInvalidID
	}
	b, _ := hex.DecodeString(id[:8])
	return time.Unix(int64(binary.BigEndian.Uint32(b)), 0).UTC(), nil
}
