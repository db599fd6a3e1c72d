package checkout

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNumberPrefix = "SSW"

// newOrderNumber builds a globally unique, human-readable order reference:
// prefix, millisecond timestamp, random suffix.
func newOrderNumber() (string, error) {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%X", orderNumberPrefix, time.Now().UnixMilli(), b), nil
}
