package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"trivia-api/internal/domain"
	"trivia-api/internal/logger"

	"go.uber.org/zap"
)

// Question is one question entry in the seed file
type Question struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
}

// Category is one category entry with the questions filed under it
type Category struct {
	Type      string     `json:"type"`
	Questions []Question `json:"questions"`
}

// File is the top level layout of a seed file
type File struct {
	Categories []Category `json:"categories"`
}

// Store is the subset of the question store the seeder writes through
type Store interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	SaveCategory(ctx context.Context, category *domain.Category) error
	InsertQuestion(ctx context.Context, question *domain.Question) error
}

// Result counts what Apply wrote
type Result struct {
	CategoriesCreated int
	CategoriesSkipped int
	QuestionsCreated  int
}

// Load reads and decodes a seed file
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes seed data and checks every question before anything is written
func Parse(raw []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	for _, c := range f.Categories {
		if strings.TrimSpace(c.Type) == "" {
			return nil, fmt.Errorf("seed category with empty type")
		}
		for _, q := range c.Questions {
			// category id is assigned later; 1 keeps Validate focused on text and difficulty
			if err := domain.NewQuestion(q.Question, q.Answer, 1, q.Difficulty).Validate(); err != nil {
				return nil, fmt.Errorf("invalid seed question in %q: %w", c.Type, err)
			}
		}
	}
	return &f, nil
}

// Apply writes f through store inside a single transaction.
// Categories that already exist by type are left alone along with their questions,
// so running the seeder twice does not duplicate data.
func Apply(ctx context.Context, tx domain.TransactionManager, store Store, f *File) (Result, error) {
	var res Result
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		res = Result{}
		existing, err := store.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		known := make(map[string]struct{}, len(existing))
		for _, c := range existing {
			known[strings.ToLower(strings.TrimSpace(c.Type))] = struct{}{}
		}

		for _, sc := range f.Categories {
			name := strings.TrimSpace(sc.Type)
			key := strings.ToLower(name)
			if _, ok := known[key]; ok {
				logger.Get().Info("Category exists, skipping", zap.String("type", name))
				res.CategoriesSkipped++
				continue
			}

			cat := &domain.Category{Type: name}
			if err := store.SaveCategory(ctx, cat); err != nil {
				return fmt.Errorf("failed to save category %s: %w", sc.Type, err)
			}
			known[key] = struct{}{}
			res.CategoriesCreated++

			for _, sq := range sc.Questions {
				q := domain.NewQuestion(sq.Question, sq.Answer, cat.ID, sq.Difficulty)
				if err := store.InsertQuestion(ctx, q); err != nil {
					return fmt.Errorf("failed to save question %q: %w", firstN(sq.Question, 40), err)
				}
				res.QuestionsCreated++
			}
			logger.Get().Info("Seeded category",
				zap.Int64("id", cat.ID),
				zap.String("type", cat.Type),
				zap.Int("questions", len(sc.Questions)))
		}
		return nil
	})
	return res, err
}

func firstN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
