package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCreateThenValidate(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}

	require.NoError(t, run(context.Background(), options{cmd: "create", dir: dir, name: "add remittance note"}, out))
	require.Equal(t, 2, strings.Count(out.String(), "created"))
	require.Contains(t, out.String(), "_add_remittance_note.sql")

	out.Reset()
	require.NoError(t, run(context.Background(), options{cmd: "validate", dir: dir}, out))
	require.Contains(t, out.String(), "migrations valid")
}

func TestRunCreateRequiresName(t *testing.T) {
	err := run(context.Background(), options{cmd: "create", dir: t.TempDir()}, &bytes.Buffer{})
	require.ErrorContains(t, err, "-name")
}
