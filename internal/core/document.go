package core

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// DocumentPage is one page of a collection listing.
type DocumentPage struct {
	Docs  []bson.M `json:"docs"`
	Total int64    `json:"total"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
}

// NormalizePage clamps paging input: page below 1 becomes 1 and a limit
// outside 1..MaxLimit becomes DefaultLimit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return page, limit
}

type DocumentService struct {
	store  Store
	engine *authz.Engine
}

func NewDocumentService(store Store, engine *authz.Engine) *DocumentService {
	return &DocumentService{store: store, engine: engine}
}

func (s *DocumentService) List(ctx context.Context, u *model.User, db, coll string, page, limit int) (*DocumentPage, error) {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return nil, err
	}
	page, limit = NormalizePage(page, limit)

	total, err := s.store.Count(ctx, dbName, collName)
	if err != nil {
		return nil, fmt.Errorf("count %s.%s: %w", dbName, collName, err)
	}
	docs, err := s.store.Find(ctx, dbName, collName, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", dbName, collName, err)
	}
	if docs == nil {
		docs = []bson.M{}
	}
	for _, d := range docs {
		if id, ok := d["_id"]; ok {
			d["_id"] = IDString(id)
		}
	}
	return &DocumentPage{Docs: docs, Total: total, Page: page, Limit: limit}, nil
}

// Insert stores one document given as Extended JSON and returns its id.
func (s *DocumentService) Insert(ctx context.Context, u *model.User, db, coll string, raw json.RawMessage) (string, error) {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return "", err
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		return "", err
	}
	id, err := s.store.InsertOne(ctx, dbName, collName, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s.%s: %w", dbName, collName, err)
	}
	return id, nil
}

// Update applies newValues with $set to the first document matching query.
// _id is never updated.
func (s *DocumentService) Update(ctx context.Context, u *model.User, db, coll string, query, newValues json.RawMessage) (int64, error) {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return 0, err
	}
	filter, err := ParseQuery(query, "update query is required")
	if err != nil {
		return 0, err
	}
	set, err := parseObject(newValues)
	if err != nil {
		return 0, err
	}
	delete(set, "_id")
	if len(set) == 0 {
		return 0, Invalid("update values cannot be empty")
	}
	modified, err := s.store.UpdateOne(ctx, dbName, collName, filter, set)
	if err != nil {
		return 0, fmt.Errorf("update %s.%s: %w", dbName, collName, err)
	}
	return modified, nil
}

func (s *DocumentService) Delete(ctx context.Context, u *model.User, db, coll string, query json.RawMessage) (int64, error) {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return 0, err
	}
	filter, err := ParseQuery(query, "delete query is required")
	if err != nil {
		return 0, err
	}
	deleted, err := s.store.DeleteOne(ctx, dbName, collName, filter)
	if err != nil {
		return 0, fmt.Errorf("delete from %s.%s: %w", dbName, collName, err)
	}
	return deleted, nil
}

// ParseDocument decodes a relaxed Extended JSON object for insertion.
// Top-level operator keys are rejected.
func ParseDocument(raw json.RawMessage) (bson.M, error) {
	var top map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &top) != nil {
		return nil, Invalid("document must be a JSON object")
	}
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	if err := validation.DocumentKeys(keys); err != nil {
		return nil, Invalid("%s", err.Error())
	}
	return parseObject(raw)
}

// ParseQuery decodes a non-empty filter. A string _id that is valid hex is
// converted to an ObjectID.
func ParseQuery(raw json.RawMessage, emptyMsg string) (bson.M, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, Invalid("%s", emptyMsg)
	}
	filter, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return nil, Invalid("%s", emptyMsg)
	}
	if s, ok := filter["_id"].(string); ok {
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			filter["_id"] = oid
		}
	}
	return filter, nil
}

func parseObject(raw json.RawMessage) (bson.M, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return bson.M{}, nil
	}
	var m bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &m); err != nil {
		return nil, Invalid("invalid extended JSON: %s", err.Error())
	}
	return m, nil
}

// IDString renders a document id for JSON and CSV output.
func IDString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
