package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/excelcy/pkg/adapters/fs"
	"github.com/aretw0/excelcy/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleYAML = `config:
  nlp_name: people
train:
  items:
    "0":
      idx: "0"
      text: Barack Obama was president
      items:
        "0.0":
          idx: "0.0"
          subtext: Barack Obama
          span: "0:12"
          entity: PERSON
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRepository_LoadSaveConvert(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	src := filepath.Join(dir, "people.yml")
	writeFile(t, src, peopleYAML)

	repo := fs.NewRepository(fs.Config{})
	svc := core.NewService(repo, nil)
	require.NoError(t, svc.Load(ctx, src))
	want := svc.Storage().Items()

	for _, name := range []string{"out/people.yaml", "out/people.json", "out/people.xlsx"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			dst := filepath.Join(dir, name)
			require.NoError(t, svc.Save(ctx, dst))

			other := core.NewService(repo, nil)
			require.NoError(t, other.Load(ctx, dst))
			assert.Equal(t, want, other.Storage().Items())
		})
	}
}

func TestRepository_ExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PEOPLE.YML")
	writeFile(t, path, peopleYAML)

	payload, err := fs.NewRepository(fs.Config{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, payload.Len())
}

func TestRepository_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	writeFile(t, path, "hello")

	repo := fs.NewRepository(fs.Config{})
	svc := core.NewService(repo, nil)
	svc.Storage().Train.Add("untouched", "")
	before := svc.Storage().Items()

	err := svc.Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))

	var formatErr *core.UnsupportedFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, ".txt", formatErr.Ext)
	assert.Equal(t, before, svc.Storage().Items())

	err = svc.Save(context.Background(), filepath.Join(dir, "out.csv"))
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
	_, statErr := os.Stat(filepath.Join(dir, "out.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRepository_LenientSkipsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	writeFile(t, path, "hello")

	svc := core.NewService(fs.NewRepository(fs.Config{Lenient: true}), nil)
	svc.Storage().Train.Add("untouched", "")
	before := svc.Storage().Items()

	require.NoError(t, svc.Load(context.Background(), path))
	assert.Equal(t, before, svc.Storage().Items())

	require.NoError(t, svc.Save(context.Background(), filepath.Join(dir, "out.csv")))
	_, statErr := os.Stat(filepath.Join(dir, "out.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRepository_CustomFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.conf")
	writeFile(t, path, peopleYAML)

	repo := fs.NewRepository(fs.Config{Formats: map[string]fs.Format{"conf": fs.NewYAMLFormat()}})
	assert.Contains(t, repo.Formats(), ".conf")

	payload, err := repo.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, payload.Len())
}

func TestRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := fs.NewRepository(fs.Config{})
	_, err := repo.Load(ctx, "data.yml")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Save(ctx, "data.yml", core.NewMapping()), context.Canceled)
}

func TestRepository_State(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Lenient: true})
	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, []string{".json", ".xlsx", ".yaml", ".yml"}, state.Formats)
	assert.True(t, state.Lenient)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "fs-repository", repo.ComponentType())
}

func TestRepository_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.yml")
	writeFile(t, path, peopleYAML)

	repo := fs.NewRepository(fs.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, path)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	writeFile(t, filepath.Join(dir, "other.yml"), "config: {}\n")

	svc := core.NewService(repo, nil)
	require.NoError(t, svc.Load(ctx, path))
	svc.Storage().Config.NLPName = "renamed"
	require.NoError(t, svc.Save(ctx, path))

	select {
	case ev := <-events:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, ev.Path)
		assert.NotEqual(t, core.EventDelete, ev.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("no event received for the watched file")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, 3*time.Second, 10*time.Millisecond, "events channel closes on cancel")
}
