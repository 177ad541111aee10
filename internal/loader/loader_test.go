package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kpnews/internal/article"
)

type recordingStore struct {
	upserts []article.Article
	fail    map[string]bool
}

func (s *recordingStore) Upsert(_ context.Context, a article.Article) error {
	if s.fail[a.SourceURL] {
		return errors.New("write rejected")
	}
	s.upserts = append(s.upserts, a)
	return nil
}

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadUpsertsEveryRecord(t *testing.T) {
	t.Parallel()

	path := writeSample(t, `{"title":"A","source_url":"https://www.kp.ru/online/news/1/"}
{"title":"B","source_url":"https://www.kp.ru/online/news/2/"}
`)
	store := &recordingStore{}

	loaded, err := Load(context.Background(), path, store, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 2, loaded)
	require.Len(t, store.upserts, 2)
}

func TestLoadSkipsRecordsWithoutSourceURL(t *testing.T) {
	t.Parallel()

	path := writeSample(t, `{"title":"A"}
{"title":"B","source_url":"https://www.kp.ru/online/news/2/"}
`)
	store := &recordingStore{}

	loaded, err := Load(context.Background(), path, store, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, loaded)
}

func TestLoadContinuesPastWriteFailures(t *testing.T) {
	t.Parallel()

	path := writeSample(t, `{"title":"A","source_url":"https://www.kp.ru/online/news/1/"}
{"title":"B","source_url":"https://www.kp.ru/online/news/2/"}
`)
	store := &recordingStore{fail: map[string]bool{"https://www.kp.ru/online/news/1/": true}}

	loaded, err := Load(context.Background(), path, store, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, loaded)
	require.Len(t, store.upserts, 1)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"), &recordingStore{}, zap.NewNop())
	require.Error(t, err)
}
