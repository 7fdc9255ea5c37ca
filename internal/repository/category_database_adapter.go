package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trivia-api/internal/domain"
	"trivia-api/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// CategoryDatabaseAdapter implements domain.CategoryRepository using sqlx
type CategoryDatabaseAdapter struct {
	db *sqlx.DB
}

// NewCategoryDatabaseAdapter creates a new instance of CategoryDatabaseAdapter
func NewCategoryDatabaseAdapter(db *sqlx.DB) domain.CategoryRepository {
	return &CategoryDatabaseAdapter{db: db}
}

// ListCategories implements domain.CategoryRepository
func (r *CategoryDatabaseAdapter) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	exec := GetExecutor(ctx, r.db)
	var categories []models.Category
	query := `SELECT id, type FROM categories ORDER BY id`
	if err := exec.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	domainCategories := make([]*domain.Category, len(categories))
	for i := range categories {
		domainCategories[i] = toDomainCategory(&categories[i])
	}
	return domainCategories, nil
}

// GetCategory implements domain.CategoryRepository
func (r *CategoryDatabaseAdapter) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	exec := GetExecutor(ctx, r.db)
	var category models.Category
	query := exec.Rebind(`SELECT id, type FROM categories WHERE id = ?`)
	if err := exec.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return toDomainCategory(&category), nil
}

// SaveCategory implements domain.CategoryRepository
func (r *CategoryDatabaseAdapter) SaveCategory(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return fmt.Errorf("cannot save nil category")
	}
	id, err := insertReturningID(ctx, GetExecutor(ctx, r.db),
		`INSERT INTO categories (type) VALUES (?)`, category.Type)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	category.ID = id
	return nil
}

func toDomainCategory(m *models.Category) *domain.Category {
	return &domain.Category{
		ID:   m.ID,
		Type: m.Type,
	}
}
