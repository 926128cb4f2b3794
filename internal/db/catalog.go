package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/edvin/mongoadmin/internal/core"
)

// Catalog implements core.Store over a connected client.
type Catalog struct {
	client *mongo.Client
}

func NewCatalog(client *mongo.Client) *Catalog {
	return &Catalog{client: client}
}

func (c *Catalog) coll(db, coll string) *mongo.Collection {
	return c.client.Database(db).Collection(coll)
}

func (c *Catalog) Ping(ctx context.Context) error {
	return translate(c.client.Ping(ctx, readpref.Primary()))
}

func (c *Catalog) ListDatabaseNames(ctx context.Context) ([]string, error) {
	names, err := c.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, translate(err)
	}
	return names, nil
}

func (c *Catalog) ListCollectionNames(ctx context.Context, db string) ([]string, error) {
	names, err := c.client.Database(db).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, translate(err)
	}
	return names, nil
}

func (c *Catalog) CreateCollection(ctx context.Context, db, coll string) error {
	return translate(c.client.Database(db).CreateCollection(ctx, coll))
}

func (c *Catalog) DropCollection(ctx context.Context, db, coll string) error {
	return translate(c.coll(db, coll).Drop(ctx))
}

func (c *Catalog) DropDatabase(ctx context.Context, db string) error {
	return translate(c.client.Database(db).Drop(ctx))
}

func (c *Catalog) Count(ctx context.Context, db, coll string) (int64, error) {
	n, err := c.coll(db, coll).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (c *Catalog) Find(ctx context.Context, db, coll string, skip, limit int64) ([]bson.M, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cur, err := c.coll(db, coll).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}
	return docs, nil
}

// Each streams every document of db.coll to fn in natural order. Field
// order is preserved.
func (c *Catalog) Each(ctx context.Context, db, coll string, fn func(bson.D) error) error {
	cur, err := c.coll(db, coll).Find(ctx, bson.D{})
	if err != nil {
		return translate(err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var d bson.D
		if err := cur.Decode(&d); err != nil {
			return translate(err)
		}
		if err := fn(d); err != nil {
			return err
		}
	}
	return translate(cur.Err())
}

func (c *Catalog) InsertOne(ctx context.Context, db, coll string, doc bson.M) (string, error) {
	res, err := c.coll(db, coll).InsertOne(ctx, doc)
	if err != nil {
		return "", translate(err)
	}
	return core.IDString(res.InsertedID), nil
}

func (c *Catalog) InsertMany(ctx context.Context, db, coll string, docs []bson.M) (int, error) {
	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = d
	}
	res, err := c.coll(db, coll).InsertMany(ctx, batch)
	if err != nil {
		return 0, translate(err)
	}
	return len(res.InsertedIDs), nil
}

func (c *Catalog) UpdateOne(ctx context.Context, db, coll string, filter, set bson.M) (int64, error) {
	res, err := c.coll(db, coll).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}

func (c *Catalog) DeleteOne(ctx context.Context, db, coll string, filter bson.M) (int64, error) {
	res, err := c.coll(db, coll).DeleteOne(ctx, filter)
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}
