package blog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmurray/portfolio-backend/internal/database/dbtest"
)

func TestGetSeriesOrdersPostsByPosition(t *testing.T) {
	pool := dbtest.NewPool(t)
	svc := NewService(pool)
	ctx := context.Background()

	run := uuid.NewString()[:8]
	series, err := svc.CreateSeries(ctx, SeriesRequest{
		Title: "Building this site",
		Slug:  "building-this-site-" + run,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM blog_posts WHERE series_id = $1`, series.ID)
		_ = svc.DeleteSeries(ctx, series.ID)
	})

	// Inserted out of order, with a gap, a duplicate position, and one
	// post with no position at all.
	positions := []*int{intPtr(3), intPtr(1), nil, intPtr(3), intPtr(7)}
	for i, pos := range positions {
		_, err := svc.CreatePost(ctx, PostRequest{
			SeriesID:       &series.ID,
			SeriesPosition: pos,
			Title:          fmt.Sprintf("Part %d", i),
			Slug:           fmt.Sprintf("part-%d-%s", i, run),
			Content:        "body",
		})
		require.NoError(t, err)
	}

	_, posts, err := svc.GetSeries(ctx, series.Slug)
	require.NoError(t, err)
	require.Len(t, posts, 5)

	last := -1
	for i, p := range posts {
		if p.SeriesPosition == nil {
			// Unpositioned posts sort after every positioned one.
			for _, rest := range posts[i:] {
				assert.Nil(t, rest.SeriesPosition)
			}
			break
		}
		assert.GreaterOrEqual(t, *p.SeriesPosition, last)
		last = *p.SeriesPosition
	}
	assert.Equal(t, 1, *posts[0].SeriesPosition)
	assert.Nil(t, posts[4].SeriesPosition)
}

func intPtr(v int) *int { return &v }
