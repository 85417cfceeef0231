package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Store groups the repositories and lets callers run several of them in one transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Reviews() ReviewRepository
	// WithTransaction executes fn within a database transaction. Repositories reached
	// through tx share that transaction; returning an error rolls it back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type gormStore struct {
	db       *gorm.DB
	users    UserRepository
	products ProductRepository
	reviews  ReviewRepository
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:       db,
		users:    NewUserRepository(db),
		products: NewProductRepository(db),
		reviews:  NewReviewRepository(db),
	}
}

func (s *gormStore) Users() UserRepository       { return s.users }
func (s *gormStore) Products() ProductRepository { return s.products }
func (s *gormStore) Reviews() ReviewRepository   { return s.reviews }

// WithTransaction executes a function within a database transaction.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching s literally anywhere in a value.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
