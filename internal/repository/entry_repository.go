package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/mehedi/streambox/internal/models"
)

var ErrEntryNotFound = fmt.Errorf("entry not found")

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, title, thumbnail, category, kind, delivery_code, rating, views,
	year, quality, description, episodes,
	is_top_ten, top_ten_position, story_enabled, story_image, story_order,
	is_featured, featured_order, created_at`

// List returns the whole catalog ordered by creation time, newest first.
// This is the default ordering everywhere; callers partition or re-sort.
func (r *EntryRepository) List(ctx context.Context) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create assigns the store-owned identifier and creation timestamp.
func (r *EntryRepository) Create(ctx context.Context, e *models.Entry) error {
	e.ID = uuid.New().String()
	episodes, err := marshalEpisodes(e.Episodes)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO entries (id, title, thumbnail, category, kind, delivery_code, rating, views,
		                     year, quality, description, episodes,
		                     is_top_ten, top_ten_position, story_enabled, story_image, story_order,
		                     is_featured, featured_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		e.ID, e.Title, e.Thumbnail, e.Category, e.Kind, e.DeliveryCode, e.Rating, e.Views,
		e.Year, e.Quality, e.Description, episodes,
		e.IsTopTen, e.TopTenPosition, e.StoryEnabled, e.StoryImage, e.StoryOrder,
		e.IsFeatured, e.FeaturedOrder).
		Scan(&e.CreatedAt)
}

// Update overwrites the whole record by identifier. Creation time is kept.
func (r *EntryRepository) Update(ctx context.Context, e *models.Entry) error {
	episodes, err := marshalEpisodes(e.Episodes)
	if err != nil {
		return err
	}
	query := `
		UPDATE entries SET title=$2, thumbnail=$3, category=$4, kind=$5, delivery_code=$6,
			rating=$7, views=$8, year=$9, quality=$10, description=$11, episodes=$12,
			is_top_ten=$13, top_ten_position=$14, story_enabled=$15, story_image=$16,
			story_order=$17, is_featured=$18, featured_order=$19
		WHERE id=$1`
	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Thumbnail, e.Category, e.Kind, e.DeliveryCode, e.Rating, e.Views,
		e.Year, e.Quality, e.Description, episodes,
		e.IsTopTen, e.TopTenPosition, e.StoryEnabled, e.StoryImage, e.StoryOrder,
		e.IsFeatured, e.FeaturedOrder)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// IncrementViews bumps the free-text view token by one. Tokens that do not
// parse as an integer restart the count at 1 rather than failing the task.
func (r *EntryRepository) IncrementViews(ctx context.Context, id string) error {
	var views string
	err := r.db.QueryRowContext(ctx, `SELECT views FROM entries WHERE id = $1`, id).Scan(&views)
	if err == sql.ErrNoRows {
		return ErrEntryNotFound
	}
	if err != nil {
		return err
	}
	next := fmt.Sprintf("%d", cast.ToInt(views)+1)
	_, err = r.db.ExecContext(ctx, `UPDATE entries SET views = $2 WHERE id = $1`, id, next)
	return err
}

// ──────────────────── scanning helpers ────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var episodes []byte
	err := row.Scan(
		&e.ID, &e.Title, &e.Thumbnail, &e.Category, &e.Kind, &e.DeliveryCode, &e.Rating,
		&e.Views, &e.Year, &e.Quality, &e.Description, &episodes,
		&e.IsTopTen, &e.TopTenPosition, &e.StoryEnabled, &e.StoryImage, &e.StoryOrder,
		&e.IsFeatured, &e.FeaturedOrder, &e.CreatedAt,
	)
	if err != nil {
		return e, err
	}
	if len(episodes) > 0 {
		if err := json.Unmarshal(episodes, &e.Episodes); err != nil {
			return e, fmt.Errorf("decode episodes for %s: %w", e.ID, err)
		}
	}
	return e, nil
}

func marshalEpisodes(eps []models.Episode) (interface{}, error) {
	if eps == nil {
		return nil, nil
	}
	data, err := json.Marshal(eps)
	if err != nil {
		return nil, fmt.Errorf("encode episodes: %w", err)
	}
	return data, nil
}
