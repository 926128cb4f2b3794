package core

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/edvin/mongoadmin/internal/model"
)

// Store is the document database as seen by the gateway services. All
// operations are single round trips; errors are already classified.
type Store interface {
	Ping(ctx context.Context) error
	ListDatabaseNames(ctx context.Context) ([]string, error)
	ListCollectionNames(ctx context.Context, db string) ([]string, error)
	CreateCollection(ctx context.Context, db, coll string) error
	DropCollection(ctx context.Context, db, coll string) error
	DropDatabase(ctx context.Context, db string) error

	Count(ctx context.Context, db, coll string) (int64, error)
	Find(ctx context.Context, db, coll string, skip, limit int64) ([]bson.M, error)
	Each(ctx context.Context, db, coll string, fn func(bson.D) error) error
	InsertOne(ctx context.Context, db, coll string, doc bson.M) (string, error)
	InsertMany(ctx context.Context, db, coll string, docs []bson.M) (int, error)
	UpdateOne(ctx context.Context, db, coll string, filter, set bson.M) (int64, error)
	DeleteOne(ctx context.Context, db, coll string, filter bson.M) (int64, error)
}

// UserRepository persists user records. Find methods return an error
// wrapping ErrNotFound for a missing user; Insert wraps ErrDuplicate.
type UserRepository interface {
	Insert(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	NamespaceTaken(ctx context.Context, ns string) (bool, error)
}

// PasswordHasher is the hashing primitive behind the credential store.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
