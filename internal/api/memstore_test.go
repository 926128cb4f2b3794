package api

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/model"
)

// memStore is an in-memory core.Store. Filters match on field equality.
type memStore struct {
	mu  sync.Mutex
	dbs map[string]map[string][]bson.D
	err error
}

func newMemStore() *memStore {
	return &memStore{dbs: map[string]map[string][]bson.D{}}
}

func (m *memStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *memStore) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *memStore) ListDatabaseNames(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.dbs))
	for name := range m.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memStore) ListCollectionNames(_ context.Context, db string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.dbs[db] {
		names = append(names, name)
	}
	return names, nil
}

func (m *memStore) CreateCollection(_ context.Context, db, coll string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(db, coll)
	return nil
}

func (m *memStore) DropCollection(_ context.Context, db, coll string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dbs[db], coll)
	if len(m.dbs[db]) == 0 {
		delete(m.dbs, db)
	}
	return nil
}

func (m *memStore) DropDatabase(_ context.Context, db string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dbs, db)
	return nil
}

func (m *memStore) Count(_ context.Context, db, coll string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.dbs[db][coll])), nil
}

func (m *memStore) Find(_ context.Context, db, coll string, skip, limit int64) ([]bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.dbs[db][coll]
	var out []bson.M
	for i := skip; i < int64(len(docs)) && int64(len(out)) < limit; i++ {
		out = append(out, toMap(docs[i]))
	}
	return out, nil
}

func (m *memStore) Each(_ context.Context, db, coll string, fn func(bson.D) error) error {
	m.mu.Lock()
	docs := append([]bson.D(nil), m.dbs[db][coll]...)
	m.mu.Unlock()
	for _, d := range docs {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) InsertOne(_ context.Context, db, coll string, doc bson.M) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(db, coll)
	d := withID(doc)
	m.dbs[db][coll] = append(c, d)
	return core.IDString(d[0].Value), nil
}

func (m *memStore) InsertMany(_ context.Context, db, coll string, docs []bson.M) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(db, coll)
	for _, doc := range docs {
		c = append(c, withID(doc))
	}
	m.dbs[db][coll] = c
	return len(docs), nil
}

func (m *memStore) UpdateOne(_ context.Context, db, coll string, filter, set bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.dbs[db][coll] {
		if !matches(d, filter) {
			continue
		}
		merged := toMap(d)
		for k, v := range set {
			merged[k] = v
		}
		m.dbs[db][coll][i] = withID(merged)
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) DeleteOne(_ context.Context, db, coll string, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.dbs[db][coll]
	for i, d := range docs {
		if matches(d, filter) {
			m.dbs[db][coll] = append(docs[:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) collection(db, coll string) []bson.D {
	if m.dbs[db] == nil {
		m.dbs[db] = map[string][]bson.D{}
	}
	if m.dbs[db][coll] == nil {
		m.dbs[db][coll] = []bson.D{}
	}
	return m.dbs[db][coll]
}

// withID orders keys with _id first and the rest sorted.
func withID(doc bson.M) bson.D {
	id, ok := doc["_id"]
	if !ok {
		id = primitive.NewObjectID()
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != "_id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	d := bson.D{{Key: "_id", Value: id}}
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: doc[k]})
	}
	return d
}

func toMap(d bson.D) bson.M {
	m := make(bson.M, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

func matches(d bson.D, filter bson.M) bool {
	m := toMap(d)
	for k, v := range filter {
		if m[k] != v {
			return false
		}
	}
	return true
}

// memUsers is an in-memory core.UserRepository keyed by lowercased identity.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*model.User{}}
}

func (m *memUsers) Insert(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(u.Identity())
	if _, ok := m.users[key]; ok {
		return core.ErrDuplicate
	}
	c := *u
	m.users[key] = &c
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(email)
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(username)
}

func (m *memUsers) find(identity string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(identity)]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) NamespaceTaken(_ context.Context, ns string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Namespace == ns {
			return true, nil
		}
	}
	return false, nil
}

type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "h:" + pw, nil }
func (plainHasher) Verify(hash, pw string) bool    { return hash == "h:"+pw }
