package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyConfig(t *testing.T) string {
	dir, err := ioutil.TempDir("", "nulldot-cli")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "config")
	require.NoError(t, ioutil.WriteFile(path, nil, 0600))
	return path
}

func runCmd(t *testing.T, in io.Reader, args ...string) (string, error) {
	out := bytes.NewBufferString("")

	root := newRootCommand("test", "test")
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(ioutil.Discard)
	if in != nil {
		root.SetIn(in)
	}

	err := root.Execute()
	return strings.TrimRight(out.String(), "\n"), err
}

func TestEncodeDecode(t *testing.T) {
	cfg := emptyConfig(t)

	for _, variant := range []string{"classic7", "rotor7", "wide16"} {
		encoded, err := runCmd(t, nil, "--config", cfg, "-k", "mySecretKey", "-V", variant, "encode", "Hello", "World!")
		require.NoError(t, err)

		decoded, err := runCmd(t, strings.NewReader(encoded+"\n"), "--config", cfg, "-k", "mySecretKey", "-V", variant, "decode")
		require.NoError(t, err)
		assert.Equal(t, "Hello World!", decoded, variant)
	}
}

func TestEncodeLegacy(t *testing.T) {
	encoded, err := runCmd(t, strings.NewReader("Hello World!"), "--config", emptyConfig(t), "--legacy", "--key", "mySecretKey", "encode")
	require.NoError(t, err)
	assert.Equal(t, ".,,,,,._.,,,..,_.,.,,,._,...,.._,,....,___.,...,,_.,,.,.,_.,,..,._,..,.,._,,.,..._,.,..,,_", encoded)
}

func TestEncodeJSON(t *testing.T) {
	cfg := emptyConfig(t)
	encoded, err := runCmd(t, strings.NewReader(`{ "a": [1, 2] }`), "--config", cfg, "-k", "k", "encode", "--json")
	require.NoError(t, err)

	decoded, err := runCmd(t, nil, "--config", cfg, "-k", "k", "decode", encoded)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, decoded)

	_, err = runCmd(t, strings.NewReader(`{ nope`), "--config", cfg, "-k", "k", "encode", "--json")
	assert.Error(t, err)
}

func TestCustomSymbols(t *testing.T) {
	cfg := emptyConfig(t)
	args := []string{"--config", cfg, "-k", "k", "--zero", "0", "--one", "1", "--char-delimiter", "|", "--word-delimiter", "/"}

	encoded, err := runCmd(t, nil, append(args, "encode", "a b")...)
	require.NoError(t, err)
	assert.Empty(t, strings.Trim(encoded, "01|/"))

	decoded, err := runCmd(t, nil, append(args, "decode", encoded)...)
	require.NoError(t, err)
	assert.Equal(t, "a b", decoded)

	_, err = runCmd(t, nil, "--config", cfg, "-k", "k", "--zero", ".", "encode", "x")
	assert.Error(t, err)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := runCmd(t, nil, "--config", emptyConfig(t), "-k", "k", "decode", ",,,_")
	assert.Error(t, err)
}

func TestMissingKey(t *testing.T) {
	old, ok := os.LookupEnv(keyEnv)
	os.Unsetenv(keyEnv)
	if ok {
		defer os.Setenv(keyEnv, old)
	}

	_, err := runCmd(t, nil, "--config", emptyConfig(t), "encode", "x")
	assert.Error(t, err)
}

func TestKeyFromEnv(t *testing.T) {
	old, ok := os.LookupEnv(keyEnv)
	os.Setenv(keyEnv, "mySecretKey")
	defer func() {
		if ok {
			os.Setenv(keyEnv, old)
		} else {
			os.Unsetenv(keyEnv)
		}
	}()

	out, err := runCmd(t, nil, "--config", emptyConfig(t), "--legacy", "keystream", "-n", "4")
	require.NoError(t, err)
	assert.Equal(t, "0923bdd7", out)
}

func TestKeystream(t *testing.T) {
	cfg := emptyConfig(t)

	a, err := runCmd(t, nil, "--config", cfg, "-k", "k", "keystream", "-n", "16")
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := runCmd(t, nil, "--config", cfg, "-k", "k", "--hash", "blake2b", "keystream", "-n", "16")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = runCmd(t, nil, "--config", cfg, "-k", "k", "keystream", "-n", "-1")
	assert.Error(t, err)
}

func TestVariants(t *testing.T) {
	out, err := runCmd(t, nil, "--config", emptyConfig(t), "-V", "wide16", "variants")
	require.NoError(t, err)
	assert.Contains(t, out, "  classic7")
	assert.Contains(t, out, "* wide16")
}

func TestConfigSaveShow(t *testing.T) {
	cfg := emptyConfig(t)

	out, err := runCmd(t, nil, "--config", cfg, "-V", "rotor7", "--zero", "o", "config", "save")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)

	out, err = runCmd(t, nil, "--config", cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `zero:           "o"`)
	assert.Contains(t, out, "variant:        rotor7")
}
