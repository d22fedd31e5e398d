package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewOrderReference returns a merchant order reference such as
// "FP-20250311T142530-9F3A2C". The UTC timestamp keeps references sortable;
// the random suffix makes reuse overwhelmingly improbable. The store's unique
// constraint on the reference is the backstop for the collision case.
func NewOrderReference() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)

	return fmt.Sprintf(
		"FP-%s-%s",
		time.Now().UTC().Format("20060102T150405"),
		strings.ToUpper(hex.EncodeToString(b)),
	)
}
