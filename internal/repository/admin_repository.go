package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mehedi/streambox/internal/models"
)

var ErrAdminNotFound = fmt.Errorf("admin not found")

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	a := &models.Admin{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`,
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Seed creates the bootstrap admin account when the table is empty. A
// populated table wins over the env credentials.
func (r *AdminRepository) Seed(ctx context.Context, email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return nil
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash) VALUES ($1, $2, $3)`,
		uuid.New().String(), email, passwordHash)
	if err == nil {
		log.Printf("[admin] seeded bootstrap account %s", email)
	}
	return err
}
