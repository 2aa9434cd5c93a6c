package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/aheadc/container"
	"github.com/stretchr/testify/require"
)

func TestRunCompileProgramWritesContainer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.js")
	out := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(src, []byte("let x = 1 + 2;"), 0o644))

	err := runCompile(compileOptions{
		SourcePath: src,
		Format:     "program",
		OutPath:    out,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	h, _, _, err := container.Disassemble(raw)
	require.NoError(t, err)
	require.Equal(t, "PBO3", h.Magic)
}

func TestRunCompileNetBotsWritesContainer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.bin")
	doc := `{
		"blocks": [
			{"id": "A", "type": "start"},
			{"id": "B", "type": "end"}
		],
		"connections": [
			{"from": "A", "to": "B"}
		]
	}`
	require.NoError(t, os.WriteFile(src, []byte(doc), 0o644))

	err := runCompile(compileOptions{
		SourcePath: src,
		Format:     "netbots",
		OutPath:    out,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	h, _, _, err := container.Disassemble(raw)
	require.NoError(t, err)
	require.Equal(t, "NBO2", h.Magic)
}

func TestRunCompileRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.js")
	require.NoError(t, os.WriteFile(src, []byte("1;"), 0o644))

	err := runCompile(compileOptions{
		SourcePath: src,
		Format:     "xml",
		OutPath:    filepath.Join(dir, "out.bin"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown --format")
}

func TestRunCompileMagicVersionOverride(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.js")
	out := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(src, []byte("1;"), 0o644))

	err := runCompile(compileOptions{
		SourcePath:   src,
		Format:       "program",
		OutPath:      out,
		MagicVersion: 9,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	h, _, _, err := container.Disassemble(raw)
	require.NoError(t, err)
	require.Equal(t, "PBO9", h.Magic)
}
