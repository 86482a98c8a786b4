package showcase

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
	ErrImageNotFound = errors.New("carousel image not found")
	ErrListNotFound  = errors.New("top five list not found")
	ErrItemNotFound  = errors.New("top five item not found")
)

// Service manages the position-ordered display collections: the home page
// carousel and the "top 5" lists.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type CarouselImageRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
	Position int    `json:"position"`
}

func (s *Service) CreateCarouselImage(ctx context.Context, req CarouselImageRequest) (*models.CarouselImage, error) {
	var img models.CarouselImage
	err := s.db.QueryRow(ctx,
		`INSERT INTO carousel_images (title, image_url, caption, position)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, image_url, caption, position, created_at`,
		req.Title, req.ImageURL, req.Caption, req.Position,
	).Scan(&img.ID, &img.Title, &img.ImageURL, &img.Caption, &img.Position, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert carousel image: %w", err)
	}
	return &img, nil
}

func (s *Service) ListCarouselImages(ctx context.Context) ([]models.CarouselImage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, image_url, caption, position, created_at
		 FROM carousel_images ORDER BY position ASC, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list carousel images: %w", err)
	}
	defer rows.Close()

	var images []models.CarouselImage
	for rows.Next() {
		var img models.CarouselImage
		if err := rows.Scan(&img.ID, &img.Title, &img.ImageURL, &img.Caption, &img.Position, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan carousel image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *Service) UpdateCarouselImage(ctx context.Context, id uuid.UUID, req CarouselImageRequest) (*models.CarouselImage, error) {
	var img models.CarouselImage
	err := s.db.QueryRow(ctx,
		`UPDATE carousel_images SET title = $2, image_url = $3, caption = $4, position = $5
		 WHERE id = $1
		 RETURNING id, title, image_url, caption, position, created_at`,
		id, req.Title, req.ImageURL, req.Caption, req.Position,
	).Scan(&img.ID, &img.Title, &img.ImageURL, &img.Caption, &img.Position, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update carousel image: %w", err)
	}
	return &img, nil
}

func (s *Service) DeleteCarouselImage(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM carousel_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete carousel image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

type TopFiveListRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

func (s *Service) CreateTopFiveList(ctx context.Context, req TopFiveListRequest) (*models.TopFiveList, error) {
	var l models.TopFiveList
	err := s.db.QueryRow(ctx,
		`INSERT INTO top_five_lists (title, slug, description, position)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, slug, description, position, created_at`,
		req.Title, req.Slug, req.Description, req.Position,
	).Scan(&l.ID, &l.Title, &l.Slug, &l.Description, &l.Position, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert top five list: %w", err)
	}
	return &l, nil
}

// ListTopFiveLists returns all lists with their items, both position-ordered.
func (s *Service) ListTopFiveLists(ctx context.Context) ([]models.TopFiveList, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, slug, description, position, created_at
		 FROM top_five_lists ORDER BY position ASC, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list top five lists: %w", err)
	}
	defer rows.Close()

	var lists []models.TopFiveList
	for rows.Next() {
		var l models.TopFiveList
		if err := rows.Scan(&l.ID, &l.Title, &l.Slug, &l.Description, &l.Position, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan top five list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := s.listItems(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

func (s *Service) GetTopFiveList(ctx context.Context, slug string) (*models.TopFiveList, error) {
	var l models.TopFiveList
	err := s.db.QueryRow(ctx,
		`SELECT id, title, slug, description, position, created_at
		 FROM top_five_lists WHERE slug = $1`, slug,
	).Scan(&l.ID, &l.Title, &l.Slug, &l.Description, &l.Position, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get top five list: %w", err)
	}

	items, err := s.listItems(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return &l, nil
}

func (s *Service) DeleteTopFiveList(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM top_five_lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete top five list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}

type TopFiveItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	LinkURL     string `json:"link_url"`
	Position    int    `json:"position"`
}

func (s *Service) AddTopFiveItem(ctx context.Context, listID uuid.UUID, req TopFiveItemRequest) (*models.TopFiveListItem, error) {
	var item models.TopFiveListItem
	err := s.db.QueryRow(ctx,
		`INSERT INTO top_five_list_items (list_id, title, description, link_url, position)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, list_id, title, description, link_url, position, created_at`,
		listID, req.Title, req.Description, req.LinkURL, req.Position,
	).Scan(&item.ID, &item.ListID, &item.Title, &item.Description, &item.LinkURL, &item.Position, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert top five item: %w", err)
	}
	return &item, nil
}

func (s *Service) UpdateTopFiveItem(ctx context.Context, id uuid.UUID, req TopFiveItemRequest) (*models.TopFiveListItem, error) {
	var item models.TopFiveListItem
	err := s.db.QueryRow(ctx,
		`UPDATE top_five_list_items SET title = $2, description = $3, link_url = $4, position = $5
		 WHERE id = $1
		 RETURNING id, list_id, title, description, link_url, position, created_at`,
		id, req.Title, req.Description, req.LinkURL, req.Position,
	).Scan(&item.ID, &item.ListID, &item.Title, &item.Description, &item.LinkURL, &item.Position, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update top five item: %w", err)
	}
	return &item, nil
}

func (s *Service) DeleteTopFiveItem(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM top_five_list_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete top five item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Service) listItems(ctx context.Context, listID uuid.UUID) ([]models.TopFiveListItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, list_id, title, description, link_url, position, created_at
		 FROM top_five_list_items WHERE list_id = $1 ORDER BY position ASC, created_at ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list top five items: %w", err)
	}
	defer rows.Close()

	var items []models.TopFiveListItem
	for rows.Next() {
		var item models.TopFiveListItem
		if err := rows.Scan(&item.ID, &item.ListID, &item.Title, &item.Description, &item.LinkURL, &item.Position, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan top five item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
