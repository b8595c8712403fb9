// internal/service/client/service_test.go
package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"local format", "0700111222", false},
		{"international with plus", "+254700111222", false},
		{"spaces and dashes stripped", "+254 700-111-222", false},
		{"parentheses stripped", "(0700) 111 222", false},
		{"too short", "12345678", true},
		{"too long", "12345678901234", true},
		{"letters rejected", "07001112ab", true},
		{"plus not at start", "0700+111222", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePhoneNumber(tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
