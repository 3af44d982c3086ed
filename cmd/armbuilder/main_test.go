package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_UsageOnUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "", "launch")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage:")

	code, _, _ = runCLI(t, "")
	assert.Equal(t, 2, code)
}

func TestDescribe_CommitsDisplayValues(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"describe", "--type", "move", "x=150"}, "Move to Position (1.50 m, 0.00 m, 0.00 m)"},
		{[]string{"describe", "--type", "move", "--unit", "mm", "x=1500", "z=5000"}, "Move to Position (1.50 m, 0.00 m, 2.00 m)"},
		{[]string{"describe", "--type", "grip", "force=250"}, "Grip with 100% force"},
		{[]string{"describe", "--type", "wait", "duration=0"}, "Wait for 0.1 sec"},
		{[]string{"describe", "--type", "release"}, "Release gripper"},
	}
	for _, tc := range tests {
		code, stdout, stderr := runCLI(t, "", tc.args...)
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, tc.want+"\n", stdout)
	}
}

func TestDescribe_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"describe", "--type", "jump"},
		{"describe", "--type", "grip", "duration=1"},
		{"describe", "--type", "grip", "force=abc"},
		{"describe", "--type", "grip", "force"},
	} {
		code, _, stderr := runCLI(t, "", args...)
		assert.Equal(t, 1, code, strings.Join(args, " "))
		assert.Contains(t, stderr, "describe failed")
	}
}

func TestSchema_PrintsCatalog(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "schema", "--unit", "mm")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `"moveUnit": "mm"`)
	assert.Contains(t, stdout, `"type": "release"`)
}

func TestValidate_FileAndStdin(t *testing.T) {
	doc := `{"version":"1.0","timestamp":"2024-03-05T14:07:09.123Z","taskCount":1,"tasks":[
		{"id":"g1","type":"grip","parameters":{"force":75},"description":""}]}`
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	code, stdout, stderr := runCLI(t, "", "validate", "--file", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "ok: 1 tasks (version 1.0)")
	assert.Contains(t, stdout, "1. Grip with 75% force")

	code, _, stderr = runCLI(t, `{"version":"1.0"}`, "validate", "--file", "-")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid task document")

	code, _, _ = runCLI(t, "", "validate")
	assert.Equal(t, 1, code)
}
