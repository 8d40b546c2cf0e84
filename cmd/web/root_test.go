package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerayy/fithub-backend/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "migrate")
	assert.Contains(t, out, "token")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fithub-backend dev"))
}

func TestTokenIsVerifiable(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	secret := filepath.Join(dir, "config.secret.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  host: localhost\n  user: fithub\n  dbname: fithub\n"), 0o600))
	require.NoError(t, os.WriteFile(secret, []byte("auth:\n  jwt_secret: cli-test-secret\n"), 0o600))
	t.Setenv("JWT_SECRET", "")

	out, err := run(t, "token", "--config", cfgPath, "--secret", secret, "--user", "36", "--ttl", "1h")
	require.NoError(t, err)

	id, err := auth.New("cli-test-secret", nil, time.Second).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, int64(36), id)
}

func TestTokenNeedsUser(t *testing.T) {
	_, err := run(t, "token", "--user", "0")
	assert.Error(t, err)
}
