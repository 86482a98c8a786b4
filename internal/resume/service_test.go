package resume

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmurray/portfolio-backend/internal/database/dbtest"
	"github.com/jdmurray/portfolio-backend/internal/storage"
)

func TestUploadKeepsSingleActiveResume(t *testing.T) {
	pool := dbtest.NewPool(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	svc := NewService(pool, store)
	ctx := context.Background()

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM resume_files`)
	})

	first, err := svc.Upload(ctx, UploadRequest{
		FileName:    "resume-v1.txt",
		ContentType: "text/plain",
		Data:        strings.NewReader("Software engineer. Ten years of Go."),
	})
	require.NoError(t, err)
	assert.True(t, first.Active)

	second, err := svc.Upload(ctx, UploadRequest{
		FileName:    "resume-v2.txt",
		ContentType: "text/plain",
		Data:        strings.NewReader("Software engineer. Eleven years of Go."),
	})
	require.NoError(t, err)
	assert.True(t, second.Active)

	var activeCount int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM resume_files WHERE active`,
	).Scan(&activeCount))
	assert.Equal(t, 1, activeCount)

	current, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, "resume-v2.txt", current.FileName)
	assert.Contains(t, current.ExtractedText, "Eleven years")

	// The replaced upload's file is gone from disk.
	_, err = store.Open(ctx, first.FilePath)
	assert.Error(t, err)

	rc, err := store.Open(ctx, second.FilePath)
	require.NoError(t, err)
	rc.Close()
}
