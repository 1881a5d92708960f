package commands

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zebra/internal/crypto"
	"zebra/internal/services/vault"
	"zebra/internal/state"
)

const testPhrase = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func run(t *testing.T, homeDir string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--home", homeDir, "--log-level", "error"}, args...))
	err := root.Execute()
	require.NoError(t, closeWire())
	return out.String(), err
}

func TestVaultLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "init", "-p", "password", "--mnemonic", testPhrase, "--email", "me@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Vault created.")
	assert.NotContains(t, out, "Recovery mnemonic")

	_, err = run(t, dir, "init", "-p", "password", "--mnemonic", testPhrase)
	assert.ErrorIs(t, err, vault.ErrAlreadyInited)

	out, err = run(t, dir, "address")
	require.NoError(t, err)
	addr := regexp.MustCompile(`[0-9a-f]{64}`).FindString(out)
	require.NotEmpty(t, addr)

	out, err = run(t, dir, "address", "--short")
	require.NoError(t, err)
	assert.Equal(t, "Address: "+crypto.Fingerprint([]byte(addr))+"\n", out)

	out, err = run(t, dir, "add", "-p", "password", "--title", "mail", "--login", "me", "--secret", "hunter2")
	require.NoError(t, err)
	id := regexp.MustCompile(`[0-9a-f-]{36}`).FindString(out)
	require.NotEmpty(t, id)

	out, err = run(t, dir, "list", "-p", "password", "--show-secrets")
	require.NoError(t, err)
	assert.Contains(t, out, "mail")
	assert.Contains(t, out, "hunter2")

	out, err = run(t, dir, "list", "-p", "password")
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")

	_, err = run(t, dir, "unlock", "-p", "wrong")
	assert.ErrorIs(t, err, vault.ErrGuardInvalidPassword)

	_, err = run(t, dir, "passwd", "-p", "password", "--new", "S3cond-Password!")
	require.NoError(t, err)
	out, err = run(t, dir, "unlock", "-p", "S3cond-Password!")
	require.NoError(t, err)
	assert.Contains(t, out, "Elements: 1")
	assert.Contains(t, out, addr)

	_, err = run(t, dir, "recover", "--mnemonic", testPhrase, "--new", "third")
	require.NoError(t, err)

	_, err = run(t, dir, "remove", "-p", "third", id)
	require.NoError(t, err)
	out, err = run(t, dir, "list", "-p", "third")
	require.NoError(t, err)
	assert.Contains(t, out, "No elements.")

	out, err = run(t, dir, "settings", "--appearance", "dark", "--locale", "fr")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")
	assert.Contains(t, out, "fr")

	_, err = run(t, dir, "reset")
	assert.Error(t, err)
	_, err = run(t, dir, "reset", "--yes")
	require.NoError(t, err)
	_, err = run(t, dir, "address")
	assert.ErrorIs(t, err, state.ErrStateNotInited)
}

func TestMnemonicCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "mnemonic", "generate", "--words", "15")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 15)

	out, err = run(t, dir, append([]string{"mnemonic", "validate"}, strings.Fields(testPhrase)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Valid 12 word english mnemonic.")

	_, err = run(t, dir, "mnemonic", "validate", "abandon", "abandon")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "driver: bolt")
	assert.Contains(t, out, "PostQuantum1277")

	out, err = run(t, dir, "config", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "config.yaml")
	assert.FileExists(t, dir+"/config.yaml")
}
