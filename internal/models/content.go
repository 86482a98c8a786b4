package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Slug         string     `json:"slug" db:"slug"`
	Summary      string     `json:"summary,omitempty" db:"summary"`
	Description  string     `json:"description,omitempty" db:"description"`
	Technologies []string   `json:"technologies" db:"technologies"`
	ImageURL     string     `json:"image_url,omitempty" db:"image_url"`
	DemoURL      string     `json:"demo_url,omitempty" db:"demo_url"`
	RepoURL      string     `json:"repo_url,omitempty" db:"repo_url"`
	Status       string     `json:"status" db:"status"`
	Featured     bool       `json:"featured" db:"featured"`
	StartedAt    *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	ProjectStatusDraft     = "draft"
	ProjectStatusPublished = "published"
	ProjectStatusArchived  = "archived"
)

type BlogSeries struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type BlogPost struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	SeriesID       *uuid.UUID `json:"series_id,omitempty" db:"series_id"`
	SeriesPosition *int       `json:"series_position,omitempty" db:"series_position"`
	Title          string     `json:"title" db:"title"`
	Slug           string     `json:"slug" db:"slug"`
	Excerpt        string     `json:"excerpt,omitempty" db:"excerpt"`
	Content        string     `json:"content,omitempty" db:"content"`
	Tags           []string   `json:"tags" db:"tags"`
	Published      bool       `json:"published" db:"published"`
	PublishedAt    *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type ContactSubmission struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject,omitempty" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CarouselImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title,omitempty" db:"title"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Caption   string    `json:"caption,omitempty" db:"caption"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TopFiveList struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	Title       string            `json:"title" db:"title"`
	Slug        string            `json:"slug" db:"slug"`
	Description string            `json:"description,omitempty" db:"description"`
	Position    int               `json:"position" db:"position"`
	Items       []TopFiveListItem `json:"items,omitempty" db:"-"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

type TopFiveListItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ListID      uuid.UUID `json:"list_id" db:"list_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	LinkURL     string    `json:"link_url,omitempty" db:"link_url"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ResumeFile tracks uploaded resume PDFs. At most one row is active; a new
// upload deactivates and removes the previous file.
type ResumeFile struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FileName      string    `json:"file_name" db:"file_name"`
	FilePath      string    `json:"-" db:"file_path"`
	ContentType   string    `json:"content_type" db:"content_type"`
	FileSizeBytes int64     `json:"file_size_bytes" db:"file_size_bytes"`
	ExtractedText string    `json:"-" db:"extracted_text"`
	Active        bool      `json:"active" db:"active"`
	UploadedAt    time.Time `json:"uploaded_at" db:"uploaded_at"`
}
