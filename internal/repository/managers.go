package repository

import (
	"context"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) GetManagerByID(id int64) (*domain.Manager, error) {
	query := `
		SELECT username, password_hash, full_name, email, created_at, version
		FROM managers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	manager := &domain.Manager{
		ID: id,
	}

	dst := []any{&manager.Username, &manager.PasswordHash, &manager.FullName, &manager.Email, &manager.CreatedAt, &manager.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return manager, nil
}

func (r *Repository) GetManagerByUsername(username string) (*domain.Manager, error) {
	query := `
		SELECT id, password_hash, full_name, email, created_at, version
		FROM managers WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	manager := &domain.Manager{
		Username: username,
	}

	dst := []any{&manager.ID, &manager.PasswordHash, &manager.FullName, &manager.Email, &manager.CreatedAt, &manager.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return manager, nil
}

func (r *Repository) CreateManager(manager *domain.Manager) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO managers (username, password_hash, full_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{manager.Username, manager.PasswordHash, manager.FullName, manager.Email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&manager.ID, &manager.CreatedAt, &manager.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateManager(manager *domain.Manager) error {
	query := `
		UPDATE managers
		SET
			password_hash = $1,
			email = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{manager.PasswordHash, manager.Email, manager.ID, manager.Version}
	dst := []any{&manager.Username, &manager.FullName, &manager.CreatedAt, &manager.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}
