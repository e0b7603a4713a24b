package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed"}, names)
}

func TestRootCommand_Help(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "serve")
	assert.Contains(t, buf.String(), "--log-level")
}

func TestMigrateCommand_Flags(t *testing.T) {
	cmd := NewMigrateCommand(&RootOptions{})

	reset := cmd.Flags().Lookup("reset")
	require.NotNil(t, reset)
	assert.Equal(t, "false", reset.DefValue)
}

func TestCommands_FailWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	for _, args := range [][]string{{"serve"}, {"migrate"}, {"seed"}} {
		cmd := NewRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)

		err := cmd.Execute()
		assert.ErrorContains(t, err, "JWT_SECRET", args[0])
	}
}

func TestCommands_RejectArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"seed", "extra"})

	assert.Error(t, cmd.Execute())
}
