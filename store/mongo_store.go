// api/store/mongo_store.go
package store

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps every document in one collection with the slash path as
// _id. Transactions ride on Mongo sessions, which gives the presence
// document its serializability (concurrent writers to the same _id conflict
// and retry inside WithTransaction).
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection("documents"),
	}
}

func (s *MongoStore) Get(ctx context.Context, key string) (Document, bool, error) {
	return getDoc(ctx, s.coll, key)
}

func (s *MongoStore) Set(ctx context.Context, key string, fields Document, merge bool) error {
	return setDoc(ctx, s.coll, key, fields, merge)
}

func (s *MongoStore) List(ctx context.Context, prefix string) (map[string]Document, error) {
	p := prefix + "/"
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(p)}}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[string]Document)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		id, _ := raw["_id"].(string)
		delete(raw, "_id")
		out[strings.TrimPrefix(id, p)] = Document(raw)
	}
	return out, cursor.Err()
}

func (s *MongoStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		if err := fn(&mongoTx{ctx: sessCtx, coll: s.coll}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

type mongoTx struct {
	ctx  mongo.SessionContext
	coll *mongo.Collection
}

func (tx *mongoTx) Get(key string) (Document, bool, error) {
	return getDoc(tx.ctx, tx.coll, key)
}

func (tx *mongoTx) Set(key string, fields Document, merge bool) error {
	return setDoc(tx.ctx, tx.coll, key, fields, merge)
}

func getDoc(ctx context.Context, coll *mongo.Collection, key string) (Document, bool, error) {
	var raw bson.M
	err := coll.FindOne(ctx, bson.M{"_id": key}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	delete(raw, "_id")
	return Document(raw), true, nil
}

func setDoc(ctx context.Context, coll *mongo.Collection, key string, fields Document, merge bool) error {
	upsert := options.Update().SetUpsert(true)
	if merge {
		_, err := coll.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M(fields)}, upsert)
		return err
	}
	replacement := make(bson.M, len(fields))
	for k, v := range fields {
		replacement[k] = v
	}
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": key}, replacement, options.Replace().SetUpsert(true))
	return err
}
