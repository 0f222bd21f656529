package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"password", []byte("secret1")},
		{"empty", []byte{}},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.in)
			WipeByteArray(tt.in)
			assert.Len(t, tt.in, n)
			assert.Empty(t, bytes.Trim(tt.in, "\x00"))
		})
	}
}
