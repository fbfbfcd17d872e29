package cmd

import (
	"os"
	"strings"
	"testing"

	internalApp "github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/pkg/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath_WritesDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	configDefault = "security:\n  auth-token-key: \"" + internalApp.PlaceholderAuthTokenKey + "\"\n"

	p, err := resolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfigPath, p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), internalApp.PlaceholderAuthTokenKey))

	// 已存在时不覆盖
	again, err := resolveConfigPath("")
	require.NoError(t, err)
	second, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(second))

	explicit, err := resolveConfigPath("custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", explicit)
}

func TestMintToken(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("config.yaml", []byte("security:\n  auth-token-key: \"mint-key\"\n"), 0o644))

	_, err := mintToken(&tokenFlags{})
	assert.Error(t, err)

	_, err = mintToken(&tokenFlags{uid: "owner-1", expiry: "soon"})
	assert.Error(t, err)

	token, err := mintToken(&tokenFlags{uid: "owner-1", expiry: "2h"})
	require.NoError(t, err)

	user, err := app.ParseTokenWithKey(token, "mint-key")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", user.UID)
	assert.Equal(t, app.DefaultTokenIssuer, user.Issuer)
}
