package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/models"
)

var ErrNotFound = errors.New("project not found")

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const projectColumns = `id, title, slug, summary, description, technologies, image_url,
	demo_url, repo_url, status, featured, started_at, completed_at, created_at, updated_at`

type CreateRequest struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Summary      string   `json:"summary"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	ImageURL     string   `json:"image_url"`
	DemoURL      string   `json:"demo_url"`
	RepoURL      string   `json:"repo_url"`
	Status       string   `json:"status"`
	Featured     bool     `json:"featured"`
	StartedAt    *string  `json:"started_at"`
	CompletedAt  *string  `json:"completed_at"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Project, error) {
	if req.Status == "" {
		req.Status = models.ProjectStatusPublished
	}
	if req.Technologies == nil {
		req.Technologies = []string{}
	}

	var p models.Project
	err := s.db.QueryRow(ctx,
		`INSERT INTO projects (title, slug, summary, description, technologies, image_url,
		                       demo_url, repo_url, status, featured, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+projectColumns,
		req.Title, req.Slug, req.Summary, req.Description, req.Technologies, req.ImageURL,
		req.DemoURL, req.RepoURL, req.Status, req.Featured, req.StartedAt, req.CompletedAt,
	).Scan(scanDest(&p)...)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &p, nil
}

type ListOptions struct {
	FeaturedOnly  bool
	PublishedOnly bool
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE TRUE`
	if opts.FeaturedOnly {
		query += ` AND featured`
	}
	if opts.PublishedOnly {
		query += ` AND status = 'published'`
	}
	query += ` ORDER BY featured DESC, created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(scanDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug,
	).Scan(scanDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
	).Scan(scanDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req CreateRequest) (*models.Project, error) {
	if req.Technologies == nil {
		req.Technologies = []string{}
	}

	var p models.Project
	err := s.db.QueryRow(ctx,
		`UPDATE projects SET title = $2, slug = $3, summary = $4, description = $5,
		        technologies = $6, image_url = $7, demo_url = $8, repo_url = $9,
		        status = $10, featured = $11, started_at = $12, completed_at = $13,
		        updated_at = now()
		 WHERE id = $1
		 RETURNING `+projectColumns,
		id, req.Title, req.Slug, req.Summary, req.Description, req.Technologies,
		req.ImageURL, req.DemoURL, req.RepoURL, req.Status, req.Featured,
		req.StartedAt, req.CompletedAt,
	).Scan(scanDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDest(p *models.Project) []interface{} {
	return []interface{}{
		&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Description, &p.Technologies,
		&p.ImageURL, &p.DemoURL, &p.RepoURL, &p.Status, &p.Featured,
		&p.StartedAt, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
	}
}
