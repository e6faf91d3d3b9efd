package cmd

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandSourcesParse(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	files = append(files, filepath.Join("..", "main.go"))

	fset := token.NewFileSet()
	for _, path := range files {
		f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly)
		require.NoError(t, err, path)
		want := "cmd"
		if filepath.Base(path) == "main.go" {
			want = "main"
		}
		assert.Equal(t, want, f.Name.Name, path)

		_, err = parser.ParseFile(fset, path, nil, parser.AllErrors)
		assert.NoError(t, err, path)
	}
}

func TestRootRegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"show", "info", "clear"})
}
