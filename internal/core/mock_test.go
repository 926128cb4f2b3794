package core

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/edvin/mongoadmin/internal/model"
)

// ---------- Mock Store ----------

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) ListDatabaseNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) ListCollectionNames(ctx context.Context, db string) ([]string, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) CreateCollection(ctx context.Context, db, coll string) error {
	return m.Called(ctx, db, coll).Error(0)
}

func (m *mockStore) DropCollection(ctx context.Context, db, coll string) error {
	return m.Called(ctx, db, coll).Error(0)
}

func (m *mockStore) DropDatabase(ctx context.Context, db string) error {
	return m.Called(ctx, db).Error(0)
}

func (m *mockStore) Count(ctx context.Context, db, coll string) (int64, error) {
	args := m.Called(ctx, db, coll)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Find(ctx context.Context, db, coll string, skip, limit int64) ([]bson.M, error) {
	args := m.Called(ctx, db, coll, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.M), args.Error(1)
}

func (m *mockStore) Each(ctx context.Context, db, coll string, fn func(bson.D) error) error {
	args := m.Called(ctx, db, coll)
	if docs, ok := args.Get(0).([]bson.D); ok {
		for _, d := range docs {
			if err := fn(d); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *mockStore) InsertOne(ctx context.Context, db, coll string, doc bson.M) (string, error) {
	args := m.Called(ctx, db, coll, doc)
	return args.String(0), args.Error(1)
}

func (m *mockStore) InsertMany(ctx context.Context, db, coll string, docs []bson.M) (int, error) {
	args := m.Called(ctx, db, coll, docs)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) UpdateOne(ctx context.Context, db, coll string, filter, set bson.M) (int64, error) {
	args := m.Called(ctx, db, coll, filter, set)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) DeleteOne(ctx context.Context, db, coll string, filter bson.M) (int64, error) {
	args := m.Called(ctx, db, coll, filter)
	return args.Get(0).(int64), args.Error(1)
}

// ---------- Mock UserRepository ----------

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Insert(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUsers) NamespaceTaken(ctx context.Context, ns string) (bool, error) {
	args := m.Called(ctx, ns)
	return args.Bool(0), args.Error(1)
}

// ---------- In-memory UserRepository ----------

// memUsers is a UserRepository backed by a slice, for flows that span
// several calls.
type memUsers struct {
	users []*model.User
}

func (m *memUsers) Insert(_ context.Context, u *model.User) error {
	for _, existing := range m.users {
		if (u.Email != "" && existing.Email == u.Email) ||
			(u.Username != "" && strings.EqualFold(existing.Username, u.Username)) ||
			existing.Namespace == u.Namespace {
			return ErrDuplicate
		}
	}
	c := *u
	m.users = append(m.users, &c)
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username != "" && strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUsers) NamespaceTaken(_ context.Context, ns string) (bool, error) {
	for _, u := range m.users {
		if u.Namespace == ns {
			return true, nil
		}
	}
	return false, nil
}

// ---------- Fake hasher ----------

// plainHasher keeps tests fast; the real hasher is covered in crypto.
type plainHasher struct {
	verifies int
}

func (h *plainHasher) Hash(pw string) (string, error) {
	return "hashed:" + pw, nil
}

func (h *plainHasher) Verify(hash, pw string) bool {
	h.verifies++
	return hash == "hashed:"+pw
}

// ---------- Users ----------

func adminUser() *model.User {
	return &model.User{Username: "admin", Role: model.RoleAdmin, Permissions: model.AdminPermissions()}
}

func regularUser(email string) *model.User {
	return &model.User{Email: email, Role: model.RoleUser, Permissions: model.DefaultPermissions()}
}
