// Package utils provides utility functions for the application.
package utils

import (
	"fmt"
	"math/rand"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

const userIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUserID builds an application user id of the form
// USER-YYYYMMDDHHMMSS_xxxx where the suffix is a short random tag.
func GenerateUserID() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = userIDAlphabet[rand.Intn(len(userIDAlphabet))]
	}
	return fmt.Sprintf("USER-%s_%s", UTCNow().Format("20060102150405"), string(suffix))
}
