package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/models"
)

var ErrNotFound = errors.New("contact submission not found")

// Service stores visitor contact submissions. Append-only from the public
// side; only the admin can read or delete.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.ContactSubmission, error) {
	var sub models.ContactSubmission
	err := s.db.QueryRow(ctx,
		`INSERT INTO contact_submissions (name, email, subject, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, subject, message, created_at`,
		req.Name, req.Email, req.Subject, req.Message,
	).Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return &sub, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, subject, message, created_at
		 FROM contact_submissions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.ContactSubmission
	for rows.Next() {
		var sub models.ContactSubmission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
