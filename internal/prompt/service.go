package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/models"
)

var ErrNotFound = errors.New("prompt template not found")

// Service manages DB-stored system prompt templates. Each template targets a
// named slot; at most one template per slot is active, enforced by a partial
// unique index and the activation transaction below.
type Service struct {
	db       *pgxpool.Pool
	registry *Registry
}

func NewService(db *pgxpool.Pool, registry *Registry) *Service {
	return &Service{db: db, registry: registry}
}

// ActiveForSlot returns the active override for a slot, or the registry's
// built-in prompt when no override exists.
func (s *Service) ActiveForSlot(ctx context.Context, slot string) (string, error) {
	var content string
	err := s.db.QueryRow(ctx,
		`SELECT content FROM system_prompt_templates WHERE slot = $1 AND active`,
		slot,
	).Scan(&content)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("get active template for slot %s: %w", slot, err)
	}
	return s.registry.ChatbotSlot(slot)
}

type CreateTemplateRequest struct {
	Slot    string `json:"slot"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Active  bool   `json:"active"`
}

func (s *Service) Create(ctx context.Context, req CreateTemplateRequest) (*models.PromptTemplate, error) {
	if !models.ValidSlot(req.Slot) {
		return nil, fmt.Errorf("invalid slot %q", req.Slot)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if req.Active {
		if _, err := tx.Exec(ctx,
			`UPDATE system_prompt_templates SET active = FALSE, updated_at = now() WHERE slot = $1 AND active`,
			req.Slot,
		); err != nil {
			return nil, fmt.Errorf("deactivate previous template: %w", err)
		}
	}

	var t models.PromptTemplate
	err = tx.QueryRow(ctx,
		`INSERT INTO system_prompt_templates (slot, name, content, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, slot, name, content, active, created_at, updated_at`,
		req.Slot, req.Name, req.Content, req.Active,
	).Scan(&t.ID, &t.Slot, &t.Name, &t.Content, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &t, nil
}

func (s *Service) List(ctx context.Context) ([]models.PromptTemplate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, slot, name, content, active, created_at, updated_at
		 FROM system_prompt_templates ORDER BY slot, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.PromptTemplate
	for rows.Next() {
		var t models.PromptTemplate
		if err := rows.Scan(&t.ID, &t.Slot, &t.Name, &t.Content, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Activate makes the given template the single active one for its slot.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*models.PromptTemplate, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var slot string
	err = tx.QueryRow(ctx, `SELECT slot FROM system_prompt_templates WHERE id = $1 FOR UPDATE`, id).Scan(&slot)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template slot: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE system_prompt_templates SET active = FALSE, updated_at = now() WHERE slot = $1 AND active`,
		slot,
	); err != nil {
		return nil, fmt.Errorf("deactivate previous template: %w", err)
	}

	var t models.PromptTemplate
	err = tx.QueryRow(ctx,
		`UPDATE system_prompt_templates SET active = TRUE, updated_at = now() WHERE id = $1
		 RETURNING id, slot, name, content, active, created_at, updated_at`,
		id,
	).Scan(&t.ID, &t.Slot, &t.Name, &t.Content, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("activate template: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &t, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name, content string) (*models.PromptTemplate, error) {
	var t models.PromptTemplate
	err := s.db.QueryRow(ctx,
		`UPDATE system_prompt_templates SET name = $2, content = $3, updated_at = now() WHERE id = $1
		 RETURNING id, slot, name, content, active, created_at, updated_at`,
		id, name, content,
	).Scan(&t.ID, &t.Slot, &t.Name, &t.Content, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return &t, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM system_prompt_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
