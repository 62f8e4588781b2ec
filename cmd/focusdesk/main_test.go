package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origins []string
		want    []string
	}{
		{"strips scheme", []string{"http://localhost:5173", "https://desk.example.com"}, []string{"localhost:5173", "desk.example.com"}},
		{"wildcard wins", []string{"http://a.test", "*"}, []string{"*"}},
		{"bare host kept", []string{"desk.example.com"}, []string{"desk.example.com"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, originPatterns(tt.origins))
		})
	}
}
