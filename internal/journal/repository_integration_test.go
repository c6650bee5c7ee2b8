//go:build integration

package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radif/mediarelay/internal/db"
	"github.com/radif/mediarelay/internal/media"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/journal/
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Migrate(url))

	ctx := context.Background()
	pool, err := db.Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE upload_attempts`)
	require.NoError(t, err)
	return NewRepository(pool)
}

func TestRepositoryInsertAndRecent(t *testing.T) {
	repo := newTestRepository(t)
	svc := NewService(repo)
	ctx := context.Background()

	file := media.UploadRequest{TempPath: "/tmp/x", Name: "cat.JPG", ContentType: "image/jpeg", Size: 2048}

	ok, err := svc.Record(ctx, file, media.Target{Filename: "cat1", Group: "pets"}, "editor-42", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, ok.ID)
	assert.WithinDuration(t, time.Now(), ok.CreatedAt, time.Minute)

	rejected := &media.Error{Kind: media.KindRemoteRejected, StatusCode: 404}
	_, err = svc.Record(ctx, file, media.Target{Filename: "cat2", Group: "pets"}, "", rejected)
	require.NoError(t, err)

	attempts, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	byName := map[string]Attempt{}
	for _, a := range attempts {
		byName[a.Filename] = a
	}

	first := byName["cat1"]
	assert.Equal(t, OutcomeSuccess, first.Outcome)
	assert.Equal(t, "cat.JPG", first.OriginalName)
	assert.Equal(t, "image/jpeg", first.ContentType)
	assert.Equal(t, int64(2048), first.SizeBytes)
	assert.Equal(t, "editor-42", first.RequestedBy)
	assert.Nil(t, first.StatusCode)
	assert.Nil(t, first.Error)

	second := byName["cat2"]
	assert.Equal(t, "remote_rejected", second.Outcome)
	require.NotNil(t, second.StatusCode)
	assert.Equal(t, 404, *second.StatusCode)
	require.NotNil(t, second.Error)
	assert.Equal(t, "error: HTTP code: 404", *second.Error)

	limited, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
