package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/edilens/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"version", "serve", "analyze", "show", "browse", "history", "sample", "debug-filter", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "verbose", "output", "log-level", "log-format", "analyzer-url", "timeout", "state-dsn", "state-driver", "no-state"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRoot_ShowFile(t *testing.T) {
	file := testutil.WriteFile(t, t.TempDir(), "response.json", testutil.SamplePayload)

	out, _, err := execute(t, "show", "--file", file, "--no-state", "-o", "csv", "--table", "segments", "--sort", "segment_tag:desc")
	require.NoError(t, err)
	assert.Equal(t, "Segment Tag,X12 Requirement,Company Usage,Min Usage,Max Usage,Present in EDI,Status\n"+
		"REF,optional,not_used,N/A,N/A,No,Missing\n"+
		"NM1,mandatory,must_use,1,1,Yes,OK\n", out)
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "response.json", testutil.SamplePayload)
	cfgFile := testutil.WriteFile(t, dir, "edilens.yaml", "output: json\nstate:\n  disabled: true\n")

	out, _, err := execute(t, "--config", cfgFile, "show", "--file", file, "--table", "elements")
	require.NoError(t, err)
	assert.Contains(t, out, `"counter": "Showing 2 of 2 elements"`)

	// flags win over the file
	out, _, err = execute(t, "--config", cfgFile, "-o", "csv", "show", "--file", file, "--table", "elements")
	require.NoError(t, err)
	assert.Contains(t, out, "Line #,Segment,Position")
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "-o", "xml", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRoot_Version(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "edilens v"+Version)
}

func TestRoot_Completion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "edilens")
}
