// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dario.cat/mergo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCipherKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func validTestConfig() *StructuredConfig {
	cfg := defaultConfig()
	cfg.App.TokenSignKey = "sign-key"
	cfg.App.FieldCipherKey = testCipherKey
	cfg.Storage.DB.DSN = "postgres://localhost:5432/signcore"
	return cfg
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validTestConfig().validate())
}

func TestValidate_RequiresDSN(t *testing.T) {
	cfg := validTestConfig()
	cfg.Storage.DB.DSN = ""

	assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)
}

func TestValidate_RequiresTokenSignKey(t *testing.T) {
	cfg := validTestConfig()
	cfg.App.TokenSignKey = ""

	assert.ErrorIs(t, cfg.validate(), ErrInvalidAppConfigs)
}

func TestValidate_RejectsShortCipherKey(t *testing.T) {
	cfg := validTestConfig()
	cfg.App.FieldCipherKey = "abcd"

	assert.ErrorIs(t, cfg.validate(), ErrInvalidAppConfigs)
}

func TestValidate_RejectsInvertedFontBounds(t *testing.T) {
	cfg := validTestConfig()
	cfg.Render.MinFontSize = 20
	cfg.Render.MaxFontSize = 10

	assert.ErrorIs(t, cfg.validate(), ErrInvalidRenderConfigs)
}

func TestCipherKeyBytes(t *testing.T) {
	key, err := App{FieldCipherKey: testCipherKey}.CipherKeyBytes()
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.Equal(t, byte(0x1f), key[31])
}

func TestMergePriority_ExplicitValueWinsOverDefault(t *testing.T) {
	explicit := &StructuredConfig{
		Server: Server{HTTPAddress: "0.0.0.0:9999"},
	}

	merged := new(StructuredConfig)
	require.NoError(t, mergo.Merge(merged, explicit))
	require.NoError(t, mergo.Merge(merged, defaultConfig()))

	assert.Equal(t, "0.0.0.0:9999", merged.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, merged.Server.RequestTimeout)
	assert.Equal(t, 4, merged.Workers.AssemblyConcurrency)
}

func TestParseJSON(t *testing.T) {
	raw := `{
		"app": {"token_sign_key": "json-key", "short_lived_token_ttl": "20m"},
		"storage": {"db": {"dsn": "postgres://json"}, "files": {"blob_dir": "/var/blobs"}},
		"server": {"http_address": "localhost:7070", "request_timeout": "45s"},
		"render": {"max_font_size": 16, "min_font_size": 8},
		"workers": {"assembly_concurrency": 8}
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "json-key", cfg.App.TokenSignKey)
	assert.Equal(t, 20*time.Minute, cfg.App.ShortLivedTokenTTL)
	assert.Equal(t, "postgres://json", cfg.Storage.DB.DSN)
	assert.Equal(t, "/var/blobs", cfg.Storage.Files.BlobDir)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 16.0, cfg.Render.MaxFontSize)
	assert.Equal(t, 8, cfg.Workers.AssemblyConcurrency)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{`"1h"`, time.Hour},
		{`"90s"`, 90 * time.Second},
		{`60000000000`, time.Minute},
	}

	for _, tt := range tests {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &d), tt.raw)
		assert.Equal(t, tt.want, time.Duration(d), tt.raw)
	}
}

func TestNetAddressSet(t *testing.T) {
	var a NetAddress
	require.NoError(t, a.Set("localhost:8080"))
	assert.Equal(t, "localhost:8080", a.String())

	for _, bad := range []string{"no-port", "localhost:0", "localhost:abc", "not-an-ip:80"} {
		var b NetAddress
		assert.Error(t, b.Set(bad), bad)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("APP_TOKEN_SIGN_KEY", "env-key")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://env")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "12s")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "env-key", cfg.App.TokenSignKey)
	assert.Equal(t, "postgres://env", cfg.Storage.DB.DSN)
	assert.Equal(t, 12*time.Second, cfg.Server.RequestTimeout)
	assert.True(t, strings.HasPrefix(cfg.Storage.DB.DSN, "postgres://"))
}
