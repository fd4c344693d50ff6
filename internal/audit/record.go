// Package audit implements the append-only, hash-chained record of every
// score computation.
package audit

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/danielpatrickdp/endochain/go-core/internal/algebra"
)

// #region record
// GenesisHash is the previous_hash of the first record.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// TimestampLayout is the canonical millisecond UTC form used in hashing and storage.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

const schemaVersion = "1"

// Record is one immutable audit entry.
type Record struct {
	Sequence         uint64    `json:"sequence"`
	Timestamp        time.Time `json:"timestamp"`
	InputFingerprint string    `json:"input_fingerprint"`
	Score            string    `json:"score"`
	Stage            string    `json:"stage"`
	PreviousHash     string    `json:"previous_hash"`
	RecordHash       string    `json:"record_hash"`
}

// FormatTimestamp renders t in the canonical layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// #endregion record

// #region canonical
// CanonicalBytes serializes every hashed field of r: sorted keys, no
// whitespace, strings byte for byte. Chain stores strings in NFC, so the
// hashed bytes are exactly the stored bytes. RecordHash is excluded.
func CanonicalBytes(r Record) []byte {
	fields := map[string]any{
		"_schema":           schemaVersion,
		"sequence":          r.Sequence,
		"timestamp":         FormatTimestamp(r.Timestamp),
		"input_fingerprint": r.InputFingerprint,
		"score":             r.Score,
		"stage":             r.Stage,
		"previous_hash":     r.PreviousHash,
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// strings, a uint64 and a map with string keys always encode
	_ = enc.Encode(fields)
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// #endregion canonical

// #region hasher
// Hasher digests canonical records. The zero value is plain SHA-256.
type Hasher struct {
	key []byte
}

// SHA256 returns an unkeyed hasher.
func SHA256() Hasher { return Hasher{} }

// NewHMACHasher returns a hasher keyed with HMAC-SHA256. An empty key yields
// the unkeyed hasher.
func NewHMACHasher(key []byte) Hasher {
	if len(key) == 0 {
		return Hasher{}
	}
	k := make([]byte, len(key))
	copy(k, key)
	return Hasher{key: k}
}

// Keyed reports whether the hasher uses HMAC.
func (h Hasher) Keyed() bool { return len(h.key) > 0 }

// Hash returns the lowercase hex digest of r's canonical form.
func (h Hasher) Hash(r Record) string {
	var d hash.Hash
	if h.Keyed() {
		d = hmac.New(sha256.New, h.key)
	} else {
		d = sha256.New()
	}
	d.Write(CanonicalBytes(r))
	return hex.EncodeToString(d.Sum(nil))
}

// #endregion hasher

// #region fingerprint
// Fingerprint identifies an input set by the canonical symbolic form of each
// distance, plus an optional subject identifier.
func Fingerprint(values []algebra.Value, subject string) string {
	parts := make([]string, 0, len(values)+1)
	for _, v := range values {
		parts = append(parts, v.String())
	}
	if subject != "" {
		parts = append(parts, "subject="+norm.NFC.String(subject))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// #endregion fingerprint
