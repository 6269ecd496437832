// Package repository declares the storage interfaces the service layer
// depends on. internal/repository/sqlite implements them.
package repository

import (
	"context"

	"github.com/sakif/taskmate/internal/model"
)

type UserRepository interface {
	// CreateUser inserts user and fills in ID and CreatedAt. A duplicate
	// email returns an apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type ProviderRepository interface {
	CreateProviderProfile(ctx context.Context, profile *model.ProviderProfile) error
	// GetProviderProfileByUserID also fills CategoryName and SubcategoryName.
	GetProviderProfileByUserID(ctx context.Context, userID int64) (*model.ProviderProfile, error)
}

type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListSubcategories(ctx context.Context, categoryID int64) ([]model.Subcategory, error)
	SubcategoryInCategory(ctx context.Context, categoryID, subcategoryID int64) (bool, error)
}

// RepositoryFactory hands out repositories bound to one connection or
// transaction.
type RepositoryFactory interface {
	Users() UserRepository
	Providers() ProviderRepository
	Taxonomy() TaxonomyRepository
}

// TxManager runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back when fn returns an error or panics.
type TxManager interface {
	Execute(ctx context.Context, fn func(repos RepositoryFactory) error) error
}
