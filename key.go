package lingocache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
// Used to identify translatable text units independently of languages or model.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// DeriveKey computes the cache fingerprint for a translation request.
// The same (text, sourceLang, targetLang, model) tuple always derives the
// same key; a change in any field derives a different one. Each field is
// length-prefixed before hashing so adjacent fields cannot collide
// (text="ab",src="c" vs text="a",src="bc").
//
// The text is whitespace-trimmed first, matching HashText. Model defaulting
// is the Manager's job: callers that allow an empty model must resolve it to
// the default model string before deriving, or lookups and stores will
// disagree on the fingerprint.
func DeriveKey(text, sourceLang, targetLang, model string) string {
	h := sha256.New()
	for _, field := range [4]string{strings.TrimSpace(text), sourceLang, targetLang, model} {
		var prefix [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(prefix[:], uint64(len(field)))
		h.Write(prefix[:n])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
