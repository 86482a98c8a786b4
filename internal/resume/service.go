package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/storage"
	"github.com/jdmurray/portfolio-backend/pkg/textextract"
)

var (
	ErrNoActiveResume = errors.New("no active resume")
	ErrNotFound       = errors.New("resume not found")
)

// Service manages the single uploaded resume file. Uploading a new file
// deactivates and removes any previous one, so exactly one row is active
// after every successful upload. The extracted PDF text is kept with the
// row so the chatbot can ground answers on it.
type Service struct {
	db      *pgxpool.Pool
	storage storage.Storage
}

func NewService(db *pgxpool.Pool, store storage.Storage) *Service {
	return &Service{db: db, storage: store}
}

type UploadRequest struct {
	FileName    string
	ContentType string
	Data        io.Reader
}

func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.ResumeFile, error) {
	data, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	extracted := ""
	if ex, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), req.ContentType); err != nil {
		slog.Warn("resume text extraction failed", "error", err)
	} else {
		extracted = ex.Content
	}

	path := fmt.Sprintf("resume/%s-%s", time.Now().Format("20060102150405"), req.FileName)
	if err := s.storage.Save(ctx, path, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store resume file: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Collect paths of the files being replaced; removed from disk only
	// after the transaction commits.
	rows, err := tx.Query(ctx, `SELECT file_path FROM resume_files WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("list active resumes: %w", err)
	}
	var oldPaths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan resume path: %w", err)
		}
		oldPaths = append(oldPaths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE resume_files SET active = FALSE WHERE active`); err != nil {
		return nil, fmt.Errorf("deactivate previous resume: %w", err)
	}

	var r models.ResumeFile
	err = tx.QueryRow(ctx,
		`INSERT INTO resume_files (file_name, file_path, content_type, file_size_bytes, extracted_text, active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING id, file_name, file_path, content_type, file_size_bytes, extracted_text, active, uploaded_at`,
		req.FileName, path, req.ContentType, int64(len(data)), extracted,
	).Scan(&r.ID, &r.FileName, &r.FilePath, &r.ContentType, &r.FileSizeBytes, &r.ExtractedText, &r.Active, &r.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("insert resume row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	for _, p := range oldPaths {
		if err := s.storage.Delete(ctx, p); err != nil {
			slog.Warn("failed to remove replaced resume file", "path", p, "error", err)
		}
	}

	return &r, nil
}

// Active returns the current active resume row.
func (s *Service) Active(ctx context.Context) (*models.ResumeFile, error) {
	var r models.ResumeFile
	err := s.db.QueryRow(ctx,
		`SELECT id, file_name, file_path, content_type, file_size_bytes, extracted_text, active, uploaded_at
		 FROM resume_files WHERE active`,
	).Scan(&r.ID, &r.FileName, &r.FilePath, &r.ContentType, &r.FileSizeBytes, &r.ExtractedText, &r.Active, &r.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoActiveResume
	}
	if err != nil {
		return nil, fmt.Errorf("get active resume: %w", err)
	}
	return &r, nil
}

// Open returns the active resume file contents for download.
func (s *Service) Open(ctx context.Context) (*models.ResumeFile, io.ReadCloser, error) {
	r, err := s.Active(ctx)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(ctx, r.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open resume file: %w", err)
	}
	return r, rc, nil
}

// ActiveText returns the extracted text of the active resume, or "" when
// none exists. Used by the chatbot for grounding.
func (s *Service) ActiveText(ctx context.Context) string {
	r, err := s.Active(ctx)
	if err != nil {
		return ""
	}
	return r.ExtractedText
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var path string
	err := s.db.QueryRow(ctx, `DELETE FROM resume_files WHERE id = $1 RETURNING file_path`, id).Scan(&path)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete resume row: %w", err)
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		slog.Warn("failed to remove resume file", "path", path, "error", err)
	}
	return nil
}
