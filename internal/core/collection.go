package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/model"
)

type CollectionService struct {
	store  Store
	engine *authz.Engine
}

func NewCollectionService(store Store, engine *authz.Engine) *CollectionService {
	return &CollectionService{store: store, engine: engine}
}

func (s *CollectionService) List(ctx context.Context, u *model.User, db string) ([]string, error) {
	dbName, err := authorizeDatabase(s.engine, u, db)
	if err != nil {
		return nil, err
	}
	names, err := s.store.ListCollectionNames(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("list collections in %s: %w", dbName, err)
	}
	if names == nil {
		names = []string{}
	}
	sort.Strings(names)
	return names, nil
}

func (s *CollectionService) Create(ctx context.Context, u *model.User, db, coll string) error {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return err
	}
	names, err := s.store.ListCollectionNames(ctx, dbName)
	if err != nil {
		return fmt.Errorf("list collections in %s: %w", dbName, err)
	}
	if contains(names, collName) {
		return Conflict(fmt.Sprintf("collection %q already exists", collName))
	}
	if err := s.store.CreateCollection(ctx, dbName, collName); err != nil {
		return fmt.Errorf("create collection %s.%s: %w", dbName, collName, err)
	}
	return nil
}

func (s *CollectionService) Drop(ctx context.Context, u *model.User, db, coll string) error {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return err
	}
	names, err := s.store.ListCollectionNames(ctx, dbName)
	if err != nil {
		return fmt.Errorf("list collections in %s: %w", dbName, err)
	}
	if !contains(names, collName) {
		return NotFound(fmt.Sprintf("collection %q not found", collName))
	}
	if err := s.store.DropCollection(ctx, dbName, collName); err != nil {
		return fmt.Errorf("drop collection %s.%s: %w", dbName, collName, err)
	}
	return nil
}
