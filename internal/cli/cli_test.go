package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/concreto/internal/auth"
	"github.com/mamadbah2/concreto/internal/domain/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestBalanceCommand(t *testing.T) {
	out, err := run(t, "balance", "30", "40", "20")
	require.NoError(t, err)
	assert.Equal(t, "cement 33%  sand 44%  water 23%\n", out)
}

func TestBalanceCommand_JSON(t *testing.T) {
	out, err := run(t, "balance", "35", "45", "20", "--format", "json")
	require.NoError(t, err)

	var m models.MixComposition
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, models.MixComposition{Cement: 35, Sand: 45, Water: 20}, m)
}

func TestBalanceCommand_Errors(t *testing.T) {
	_, err := run(t, "balance", "0", "0", "0")
	require.Error(t, err)

	_, err = run(t, "balance", "a", "1", "2")
	require.Error(t, err)

	_, err = run(t, "balance", "-1", "1", "2")
	require.Error(t, err)

	_, err = run(t, "balance", "1", "2", "3", "--format", "yaml")
	require.Error(t, err)
}

func TestRecommendCommand(t *testing.T) {
	out, err := run(t, "recommend")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "recommended: cement 35%  sand 45%  water 20%\n"))

	out, err = run(t, "recommend", "--cement", "45", "--water", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "recommended: cement 40%  sand 45%  water 15%")
}

func TestDeviceCommand_Mock(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("DEVICE_MODE", "mock")

	out, err := run(t, "device", "ping")
	require.NoError(t, err)
	assert.Equal(t, "connected\n", out)

	out, err = run(t, "device", "send", "start_mixing")
	require.NoError(t, err)
	assert.Equal(t, "START_MIXING accepted\n", out)

	out, err = run(t, "device", "sensors")
	require.NoError(t, err)
	assert.Contains(t, out, "moisture ")

	_, err = run(t, "device", "send", "jump")
	require.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	out, err := run(t, "token", "--owner", "owner-7")
	require.NoError(t, err)

	owner, err := auth.NewTokenService("secret", 0).OwnerFromToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "owner-7", owner)

	_, err = run(t, "token")
	require.Error(t, err)
}
