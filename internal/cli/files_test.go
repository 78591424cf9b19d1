package cli_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squall/internal/cli"
	"github.com/leapstack-labs/squall/internal/testutil"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"b.sql":             "",
		"a.sql":             "",
		"nested/deep/c.sql": "",
		"readme.md":         "",
		"explicit.txt":      "",
	})

	files, err := cli.CollectFiles([]string{dir, filepath.Join(dir, "explicit.txt"), filepath.Join(dir, "a.sql")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.sql"),
		filepath.Join(dir, "b.sql"),
		filepath.Join(dir, "nested", "deep", "c.sql"),
		filepath.Join(dir, "explicit.txt"),
	}, files)
}

func TestCollectFilesMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := cli.CollectFiles([]string{missing})

	var notFound *cli.PathNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, missing, notFound.Path)
}

func TestCollectFilesEmpty(t *testing.T) {
	files, err := cli.CollectFiles(nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}
