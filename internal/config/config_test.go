package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reforged/reforged/internal/config"
)

const validKeyHex = "3031323334353637383961626364656630313233343536373839616263646566"

func TestNewRequiresSecrets(t *testing.T) {
	t.Setenv("PASETO_SYMMETRIC_KEY", "")
	t.Setenv("SESSION_SECRET", "")

	_, err := config.New()
	require.Error(t, err)

	t.Setenv("SESSION_SECRET", "a-session-secret")
	_, err = config.New()
	require.Error(t, err)

	t.Setenv("PASETO_SYMMETRIC_KEY", validKeyHex)
	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, "a-session-secret", cfg.GetSessionSecret())
}

func TestTokenKeyValidation(t *testing.T) {
	t.Setenv("SESSION_SECRET", "a-session-secret")

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid 32-byte key", validKeyHex, false},
		{"not hex", "zz", true},
		{"too short", "3031323334", true},
		{"empty", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PASETO_SYMMETRIC_KEY", tc.key)
			_, err := config.New()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPortDefaultsAndPrefix(t *testing.T) {
	t.Setenv("PASETO_SYMMETRIC_KEY", validKeyHex)
	t.Setenv("SESSION_SECRET", "a-session-secret")

	t.Setenv("PORT", "")
	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.GetPort())

	t.Setenv("PORT", "9000")
	assert.Equal(t, ":9000", cfg.GetPort())

	t.Setenv("PORT", ":9001")
	assert.Equal(t, ":9001", cfg.GetPort())
}
