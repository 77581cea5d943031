package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"math/bits"
	"regexp"
	"strings"
)

var (
	reNonWord    = regexp.MustCompile(`[^a-z0-9\s]+`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, strips punctuation and collapses whitespace so
// that two scans of the same physical page normalize identically. Idempotent.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TextHash returns the hex SHA-256 of the normalized text. Equal normalized
// text yields equal hashes; this is the exact-duplicate test.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// Fingerprint computes a 64-bit simhash over the normalized text: each word
// hashes to 64 bits (FNV-1a), each bit position keeps a signed counter
// incremented when set and decremented otherwise, and the final bit is 1
// where the counter is positive. Small edits flip few bits; unrelated texts
// land near random Hamming distance. Empty input yields zero.
func Fingerprint(text string) uint64 {
	words := strings.Fields(Normalize(text))
	if len(words) == 0 {
		return 0
	}

	var counters [64]int
	for _, w := range words {
		h := hashWord(w)
		for bit := 0; bit < 64; bit++ {
			if h&(uint64(1)<<bit) != 0 {
				counters[bit]++
			} else {
				counters[bit]--
			}
		}
	}

	var fp uint64
	for bit := 0; bit < 64; bit++ {
		if counters[bit] > 0 {
			fp |= uint64(1) << bit
		}
	}
	return fp
}

// Similarity maps Hamming distance onto [0,1]: identical fingerprints score
// 1.0, maximally distant ones 0.0. Symmetric.
func Similarity(a, b uint64) float64 {
	return 1.0 - float64(bits.OnesCount64(a^b))/64.0
}

func hashWord(w string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(w))
	return h.Sum64()
}
