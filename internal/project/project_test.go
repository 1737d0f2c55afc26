package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	project "github.com/mjmahone/fragc/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ConfigFileName)
	writeFile(t, path, "documents:\n  - queries/**/*.graphql\n")

	cfg, err := project.LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"queries/**/*.graphql"}, cfg.Documents)
	require.Equal(t, "127.0.0.1:8441", cfg.Server.Addr)
	require.False(t, cfg.Server.Pretty)
}

func TestLoadFromFileRejectsAbsolutePatterns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ConfigFileName)
	writeFile(t, path, "documents:\n  - /etc/**/*.graphql\n")

	_, err := project.LoadFromFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "relative")
}

func TestFindConfigWalksParents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, project.ConfigFileName), "documents: ['**/*.graphql']\n")
	nested := filepath.Join(root, "src", "queries")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := project.FindConfig(nested)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, project.ConfigFileName), path)
}

func TestFindConfigMissing(t *testing.T) {
	_, err := project.FindConfig(t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), project.ConfigFileName)
}

func TestFSDiscovery(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "feed.graphql"), "query { feed }")
	writeFile(t, filepath.Join(root, "src", "user", "profile.graphql"), "query { me }")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "not a document")
	writeFile(t, filepath.Join(root, "outside.graphql"), "query { out }")

	d := project.NewFSDiscovery(root, []string{"src/**/*.graphql"})
	ctx := context.Background()

	names, err := d.ListDocuments(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join("src", "feed.graphql"),
		filepath.Join("src", "user", "profile.graphql"),
	}, names)

	source, err := d.ReadDocument(ctx, names[0])
	require.NoError(t, err)
	require.Equal(t, "query { feed }", source)

	_, err = d.ReadDocument(ctx, "missing.graphql")
	require.Error(t, err)
}

func TestFSDiscoveryDeduplicatesAcrossPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.graphql"), "query { a }")

	d := project.NewFSDiscovery(root, []string{"*.graphql", "**/*.graphql"})
	names, err := d.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a.graphql"}, names)
}

func TestInMemoryDiscovery(t *testing.T) {
	d := project.NewInMemoryDiscovery(map[string]string{
		"b.graphql": "query { b }",
		"a.graphql": "query { a }",
	})
	ctx := context.Background()

	names, err := d.ListDocuments(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.graphql", "b.graphql"}, names)

	source, err := d.ReadDocument(ctx, "a.graphql")
	require.NoError(t, err)
	require.Equal(t, "query { a }", source)

	_, err = d.ReadDocument(ctx, "c.graphql")
	require.Error(t, err)
}
