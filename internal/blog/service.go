package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/models"
)

var (
	ErrSeriesNotFound = errors.New("blog series not found")
	ErrPostNotFound   = errors.New("blog post not found")
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const postColumns = `id, series_id, series_position, title, slug, excerpt, content,
	tags, published, published_at, created_at, updated_at`

type SeriesRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (s *Service) CreateSeries(ctx context.Context, req SeriesRequest) (*models.BlogSeries, error) {
	var sr models.BlogSeries
	err := s.db.QueryRow(ctx,
		`INSERT INTO blog_series (title, slug, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, slug, description, created_at, updated_at`,
		req.Title, req.Slug, req.Description,
	).Scan(&sr.ID, &sr.Title, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert series: %w", err)
	}
	return &sr, nil
}

func (s *Service) ListSeries(ctx context.Context) ([]models.BlogSeries, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, slug, description, created_at, updated_at
		 FROM blog_series ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var series []models.BlogSeries
	for rows.Next() {
		var sr models.BlogSeries
		if err := rows.Scan(&sr.ID, &sr.Title, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		series = append(series, sr)
	}
	return series, rows.Err()
}

// GetSeries returns a series with its posts ordered by series_position.
// Positions are advisory: gaps and duplicates are allowed, ordering is
// non-decreasing with creation time as tiebreak.
func (s *Service) GetSeries(ctx context.Context, slug string) (*models.BlogSeries, []models.BlogPost, error) {
	var sr models.BlogSeries
	err := s.db.QueryRow(ctx,
		`SELECT id, title, slug, description, created_at, updated_at
		 FROM blog_series WHERE slug = $1`, slug,
	).Scan(&sr.ID, &sr.Title, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrSeriesNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get series: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+postColumns+` FROM blog_posts
		 WHERE series_id = $1
		 ORDER BY series_position ASC NULLS LAST, created_at ASC`,
		sr.ID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("get series posts: %w", err)
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		var p models.BlogPost
		if err := rows.Scan(scanPost(&p)...); err != nil {
			return nil, nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return &sr, posts, rows.Err()
}

func (s *Service) UpdateSeries(ctx context.Context, id uuid.UUID, req SeriesRequest) (*models.BlogSeries, error) {
	var sr models.BlogSeries
	err := s.db.QueryRow(ctx,
		`UPDATE blog_series SET title = $2, slug = $3, description = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING id, title, slug, description, created_at, updated_at`,
		id, req.Title, req.Slug, req.Description,
	).Scan(&sr.ID, &sr.Title, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSeriesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update series: %w", err)
	}
	return &sr, nil
}

func (s *Service) DeleteSeries(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM blog_series WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSeriesNotFound
	}
	return nil
}

type PostRequest struct {
	SeriesID       *uuid.UUID `json:"series_id"`
	SeriesPosition *int       `json:"series_position"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	Tags           []string   `json:"tags"`
	Published      bool       `json:"published"`
}

func (s *Service) CreatePost(ctx context.Context, req PostRequest) (*models.BlogPost, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}

	var p models.BlogPost
	err := s.db.QueryRow(ctx,
		`INSERT INTO blog_posts (series_id, series_position, title, slug, excerpt, content, tags, published, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CASE WHEN $8 THEN now() ELSE NULL END)
		 RETURNING `+postColumns,
		req.SeriesID, req.SeriesPosition, req.Title, req.Slug, req.Excerpt, req.Content, req.Tags, req.Published,
	).Scan(scanPost(&p)...)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &p, nil
}

func (s *Service) ListPosts(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.BlogPost, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + postColumns + ` FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published`
	}
	query += ` ORDER BY COALESCE(published_at, created_at) DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		var p models.BlogPost
		if err := rows.Scan(scanPost(&p)...); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Service) GetPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	err := s.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug,
	).Scan(scanPost(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, req PostRequest) (*models.BlogPost, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}

	var p models.BlogPost
	err := s.db.QueryRow(ctx,
		`UPDATE blog_posts SET series_id = $2, series_position = $3, title = $4, slug = $5,
		        excerpt = $6, content = $7, tags = $8, published = $9,
		        published_at = CASE WHEN $9 AND published_at IS NULL THEN now() ELSE published_at END,
		        updated_at = now()
		 WHERE id = $1
		 RETURNING `+postColumns,
		id, req.SeriesID, req.SeriesPosition, req.Title, req.Slug, req.Excerpt,
		req.Content, req.Tags, req.Published,
	).Scan(scanPost(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &p, nil
}

func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func scanPost(p *models.BlogPost) []interface{} {
	return []interface{}{
		&p.ID, &p.SeriesID, &p.SeriesPosition, &p.Title, &p.Slug, &p.Excerpt,
		&p.Content, &p.Tags, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	}
}
