package server_test

import (
	"testing"

	"shoplist/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
		dev  bool
	}{
		{"Development", server.EnvironmentDevelopment, true, true},
		{"Production", server.EnvironmentProduction, true, false},
		{"Invalid", "staging", false, false},
		{"Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Environment: tt.env}
			assert.Equal(t, tt.want, c.IsValidEnvironment())
			assert.Equal(t, tt.dev, c.IsDevelopment())
		})
	}
}
