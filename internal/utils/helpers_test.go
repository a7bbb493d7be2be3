package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0))
	assert.NoError(t, ValidateAmount(150.5))
	assert.Error(t, ValidateAmount(-1))
}

func TestGenerateUniqueID(t *testing.T) {
	tests := []struct {
		gender string
		prefix string
	}{
		{"M", "A"},
		{"m", "A"},
		{"F", "B"},
		{"f", "B"},
		{"", "A"},
	}

	for _, tt := range tests {
		id := GenerateUniqueID(tt.gender)
		assert.Len(t, id, 12)
		assert.Equal(t, tt.prefix, id[:1])
		for _, c := range id[1:] {
			assert.True(t, c >= '0' && c <= '9', "expected digit, got %q in %s", c, id)
		}
	}
}

func TestGenerateReceiptNumber(t *testing.T) {
	r := GenerateReceiptNumber()
	assert.NotEmpty(t, r)
	assert.Contains(t, r, "REC-")
}

func TestGenerateSignature_Distinct(t *testing.T) {
	assert.NotEqual(t, GenerateSignature(), GenerateSignature())
}
