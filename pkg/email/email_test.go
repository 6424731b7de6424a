package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameFromEmail(t *testing.T) {
	first, last := DeriveNameFromEmail("jane.doe@example.com")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Doe", last)

	first, last = DeriveNameFromEmail("@example.com")
	assert.Equal(t, "User", first)
	assert.Equal(t, "User", last)
}

func TestSuggestUsername(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"Jane.Doe@example.com", "jane.doe"},
		{"jane_doe+hr@example.com", "jane.doe"},
		{"r!ck@example.com", "rck"},
		{"", ""},
		{"+tag@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestUsername(tt.email))
		})
	}
}
