package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare ten digits assumes US", "5551234567", "+15551234567"},
		{"eleven digits with leading one", "15551234567", "+15551234567"},
		{"already e164", "+15551234567", "+15551234567"},
		{"formatted with punctuation", "(555) 123-4567", "+15551234567"},
		{"dots and spaces", " 555.123.4567 ", "+15551234567"},
		{"international length", "447911123456", "+447911123456"},
		{"fifteen digits", "123456789012345", "+123456789012345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"too short", "12345"},
		{"too long", "1234567890123456"},
		{"letters", "555-CALL-NOW"},
		{"empty", ""},
		{"only punctuation", "()"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizePhone(tc.input)
			assert.Error(t, err)
		})
	}
}
