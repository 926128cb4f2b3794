package core

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/validation"
)

// InitCollection is created with a marker document so a new database
// becomes visible to the store immediately.
const InitCollection = "init_collection"

type DatabaseService struct {
	store  Store
	engine *authz.Engine
}

func NewDatabaseService(store Store, engine *authz.Engine) *DatabaseService {
	return &DatabaseService{store: store, engine: engine}
}

// ListVisible returns the databases u may see, sorted by name.
func (s *DatabaseService) ListVisible(ctx context.Context, u *model.User) ([]string, error) {
	all, err := s.store.ListDatabaseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	visible := s.engine.VisibleDatabases(u, all)
	sort.Strings(visible)
	return visible, nil
}

// Create qualifies name into u's namespace and makes sure it exists by
// writing a marker into InitCollection when that collection is absent.
// Creating an existing database succeeds. The qualified name is returned.
func (s *DatabaseService) Create(ctx context.Context, u *model.User, name string) (string, error) {
	raw, err := validation.DatabaseName(name)
	if err != nil {
		return "", Invalid("%s", err.Error())
	}
	qualified, err := validation.DatabaseName(s.engine.QualifyDatabaseName(u, raw))
	if err != nil {
		return "", Invalid("%s", err.Error())
	}

	colls, err := s.store.ListCollectionNames(ctx, qualified)
	if err != nil {
		return "", fmt.Errorf("list collections in %s: %w", qualified, err)
	}
	if contains(colls, InitCollection) {
		return qualified, nil
	}

	if _, err := s.store.InsertOne(ctx, qualified, InitCollection, bson.M{"initialized": true}); err != nil {
		return "", fmt.Errorf("create database %s: %w", qualified, err)
	}
	return qualified, nil
}

func (s *DatabaseService) Drop(ctx context.Context, u *model.User, name string) error {
	db, err := authorizeDatabase(s.engine, u, name)
	if err != nil {
		return err
	}
	existing, err := s.store.ListDatabaseNames(ctx)
	if err != nil {
		return fmt.Errorf("list databases: %w", err)
	}
	if !contains(existing, db) {
		return NotFound(fmt.Sprintf("database %q not found", db))
	}
	if err := s.store.DropDatabase(ctx, db); err != nil {
		return fmt.Errorf("drop database %s: %w", db, err)
	}
	return nil
}
