package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateAmount validates and parses a monetary amount
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}

// GenerateUniqueID builds a member unique identifier: a gender letter
// ("A" for M, "B" for F) followed by 11 random digits. Uniqueness is
// probabilistic, not guaranteed.
func GenerateUniqueID(gender string) string {
	prefix := "A"
	if strings.EqualFold(gender, "F") {
		prefix = "B"
	}

	digits := make([]byte, 11)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return prefix + string(digits)
}

// GenerateReceiptNumber issues a receipt reference for an income transaction.
func GenerateReceiptNumber() string {
	return fmt.Sprintf("REC-%s-%s", time.Now().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// GenerateSignature issues the signature token attached to every transaction.
func GenerateSignature() string {
	return uuid.NewString()
}

// GeneratePlaceholderID issues a local identifier for an entity created
// before the remote store has assigned one.
func GeneratePlaceholderID() string {
	return uuid.NewString()
}
