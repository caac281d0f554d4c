package common

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

func CalculateHash(key string, inputs ...interface{}) string {
	if len(inputs) == 0 {
		return ""
	}
	h := hmac.New(sha256.New, []byte(key))
	for _, val := range inputs {
		switch v := val.(type) {
		case []byte:
			h.Write(v)
		default:
			h.Write([]byte(fmt.Sprintf("%v", v)))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHash compares a client supplied hash prefix with the expected one in constant time.
func VerifyHash(expected, given string) bool {
	if len(given) == 0 || len(given) > len(expected) {
		return false
	}
	return hmac.Equal([]byte(expected[:len(given)]), []byte(given))
}

func RandomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("failed to generate random bytes: %w", err))
	}
	return hex.EncodeToString(b)
}
