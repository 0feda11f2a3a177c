// Package objectid produces and validates the 24-hex-character identifiers
// used for every stored record.
package objectid

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func New() string {
	return primitive.NewObjectID().Hex()
}

// Valid reports whether value is a 12-byte identifier in hex form.
func Valid(value string) bool {
	if len(value) != 24 {
		return false
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

// Normalize lowercases and trims an identifier. It does not validate.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
