package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.EqualValues(t, DefaultConfig(), cfg)

	path := writeFile(t, "neoscript.toml", "strict = false\nunpadded_branch_offsets = true\n")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.False(t, cfg.Strict)
	require.True(t, cfg.UnpaddedBranchOffsets)
	require.False(t, cfg.Debug)
	require.EqualValues(t, 1, len(cfg.builderOptions()))

	_, err = LoadConfig(writeFile(t, "bad.toml", "strickt = true\n"))
	require.Error(t, err)
	_, err = LoadConfig(writeFile(t, "bad.toml", "strict = \n"))
	require.Error(t, err)
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestAsmCommand(t *testing.T) {
	src := writeFile(t, "loop.nasm", "start: PUSH1\nJMPIF @start\nRET\n")
	out, err := run(t, "asm", src)
	require.NoError(t, err)
	require.EqualValues(t, "1124ff40", strings.TrimSpace(out))

	// config file turns strict verification off, flag turns it back on
	src = writeFile(t, "bad_target.nasm", "JMP 5\n")
	_, err = run(t, "asm", src)
	require.Error(t, err)
	cfg := writeFile(t, "neoscript.toml", "strict = false\n")
	out, err = run(t, "asm", "--config", cfg, src)
	require.NoError(t, err)
	require.EqualValues(t, "2205", strings.TrimSpace(out))
	_, err = run(t, "asm", "--config", cfg, "--strict", src)
	require.Error(t, err)

	_, err = run(t, "asm", writeFile(t, "bad.nasm", "JMP @nowhere\n"))
	require.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	out, err := run(t, "verify", "1140")
	require.NoError(t, err)
	require.EqualValues(t, "OK", strings.TrimSpace(out))

	// JMP past the end, ISTYPE Any
	out, err = run(t, "verify", "2250d900")
	require.Error(t, err)
	require.EqualValues(t, 2, len(strings.Split(strings.TrimSpace(out), "\n")))

	_, err = run(t, "verify", "zz")
	require.Error(t, err)
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", "0x11010001210c02616240")
	require.NoError(t, err)
	require.EqualValues(t, []string{
		"0000 PUSH1",
		"0001 PUSHINT16 0001",
		"0004 NOP",
		"0005 PUSHDATA1 6162",
		"0009 RET",
	}, strings.Split(strings.TrimSpace(out), "\n"))

	// strict decoding rejects bad branch target, lazy does not
	_, err = run(t, "decode", "2205")
	require.Error(t, err)
	out, err = run(t, "decode", "--strict=false", "2205")
	require.NoError(t, err)
	require.EqualValues(t, "0000 JMP 05", strings.TrimSpace(out))
}

func TestSyscallAndHashCommands(t *testing.T) {
	out, err := run(t, "syscall", "System.Contract.Call")
	require.NoError(t, err)
	require.EqualValues(t, "System.Contract.Call 0x525b7d62 627d5b52", strings.TrimSpace(out))

	out, err = run(t, "hash", "")
	require.NoError(t, err)
	require.EqualValues(t, "0xcb9f3b7c6fb1cf2c13a40637c189bdd066a272b4", strings.TrimSpace(out))
}
