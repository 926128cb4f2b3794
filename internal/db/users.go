package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edvin/mongoadmin/internal/model"
)

const UsersCollection = "users"

// caseInsensitive is shared by the identity indexes and the lookups that
// must use them.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// Users implements core.UserRepository.
type Users struct {
	coll *mongo.Collection
}

func NewUsers(client *mongo.Client, authDatabase string) *Users {
	return &Users{coll: client.Database(authDatabase).Collection(UsersCollection)}
}

// EnsureIndexes creates the unique identity indexes. Each is partial so
// legacy records without the field do not collide.
func (u *Users) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true).
				SetCollation(caseInsensitive).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("username_unique").
				SetUnique(true).
				SetCollation(caseInsensitive).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "namespace", Value: 1}},
			Options: options.Index().
				SetName("namespace_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"namespace": bson.M{"$exists": true}}),
		},
	}
	if _, err := u.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create user indexes: %w", translate(err))
	}
	return nil
}

func (u *Users) Insert(ctx context.Context, user *model.User) error {
	res, err := u.coll.InsertOne(ctx, user)
	if err != nil {
		return translate(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

func (u *Users) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.findOne(ctx, bson.M{"username": username})
}

func (u *Users) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := u.coll.FindOne(ctx, filter, options.FindOne().SetCollation(caseInsensitive)).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *Users) NamespaceTaken(ctx context.Context, ns string) (bool, error) {
	n, err := u.coll.CountDocuments(ctx, bson.M{"namespace": ns}, options.Count().SetLimit(1))
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}
