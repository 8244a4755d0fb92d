package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"classify", "Swiggy Bangalore", "Unknown Stall"})

	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Swiggy Bangalore\tdining\t0.80\tsubstring\tswiggy", lines[0])
	assert.Equal(t, "Unknown Stall\tother\t0.50\tfallback", lines[1])
}

func TestClassifyCommand_RequiresMerchant(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"classify"})

	assert.Error(t, root.Execute())
}

func TestImportCommand_Flags(t *testing.T) {
	root := newRootCmd()

	cmd, _, err := root.Find([]string{"import-catalog"})
	require.NoError(t, err)

	file := cmd.Flags().Lookup("file")
	require.NotNil(t, file)
	assert.Equal(t, defaultCatalogFile, file.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("reset"))
}
