// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/models"
)

const (
	clientsCollection = "clients"
	pollsCollection   = "polls"
)

var ErrNilDatabase = errors.New("database connection is nil")

// InitMongo connects, verifies the connection, and ensures the unique
// join-code index the create path relies on for collision detection.
func InitMongo(uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)

	_, err = db.Collection(pollsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "join_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create join_code index: %w", err)
	}

	return db, nil
}

// Mongo implements IdentityStore and PollStore on a MongoDB database.
// Vote counts are mutated with field-scoped $inc updates, never by writing
// a whole document back.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) (*Mongo, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &Mongo{db: db}, nil
}

// IdentityStore

func (s *Mongo) ResolveOrCreate(ctx context.Context, token string) (models.Client, bool, error) {
	coll := s.db.Collection(clientsCollection)

	if token != "" {
		var c models.Client
		err := coll.FindOne(ctx, bson.M{"_id": token}).Decode(&c)
		if err == nil {
			return c, false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.Client{}, false, err
		}
	}

	c := models.Client{
		ID:         auth.NewClientID(),
		Name:       models.DefaultClientName,
		SavedVotes: map[string]string{},
	}
	if _, err := coll.InsertOne(ctx, c); err != nil {
		return models.Client{}, false, err
	}
	return c, true, nil
}

func (s *Mongo) GetClient(ctx context.Context, clientID string) (models.Client, error) {
	var c models.Client
	err := s.db.Collection(clientsCollection).FindOne(ctx, bson.M{"_id": clientID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Client{}, ErrNotFound
	}
	if err != nil {
		return models.Client{}, err
	}
	if c.SavedVotes == nil {
		c.SavedVotes = map[string]string{}
	}
	return c, nil
}

func (s *Mongo) SetName(ctx context.Context, clientID, name string) (string, error) {
	if clientID == "" {
		return "", ErrMissingIdentity
	}
	if name == "" {
		name = models.AnonymousName
	}

	opt := options.Update().SetUpsert(true)
	filter := bson.M{"_id": clientID}
	update := bson.M{
		"$set":         bson.M{"name": name},
		"$setOnInsert": bson.M{"saved_votes": bson.M{}},
	}

	_, err := s.db.Collection(clientsCollection).UpdateOne(ctx, filter, update, opt)
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *Mongo) GetName(ctx context.Context, clientID string) (string, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

func (s *Mongo) SetSavedVote(ctx context.Context, clientID, questionID, optionID string) error {
	filter := bson.M{"_id": clientID}
	update := bson.M{"$set": bson.M{"saved_votes." + questionID: optionID}}

	result, err := s.db.Collection(clientsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PollStore

func (s *Mongo) Create(ctx context.Context, title, ownerID string, questions []models.QuestionInput) (*models.Poll, error) {
	poll, err := buildPoll(title, ownerID, questions)
	if err != nil {
		return nil, err
	}

	coll := s.db.Collection(pollsCollection)

	// The unique join_code index turns a concurrent code collision into a
	// duplicate-key error; regenerate and retry within the attempt budget.
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := auth.GenerateJoinCode()
		if err != nil {
			return nil, err
		}
		poll.JoinCode = code

		_, err = coll.InsertOne(ctx, poll)
		if err == nil {
			return poll, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
	}

	return nil, ErrCodeExhausted
}

func (s *Mongo) List(ctx context.Context) ([]models.PollSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"title": 1, "join_code": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.db.Collection(pollsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []models.PollSummary{}
	for cursor.Next(ctx) {
		var summary models.PollSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *Mongo) Get(ctx context.Context, pollID string) (*models.Poll, error) {
	var poll models.Poll
	err := s.db.Collection(pollsCollection).FindOne(ctx, bson.M{"_id": pollID}).Decode(&poll)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (s *Mongo) GetByCode(ctx context.Context, code string) (*models.Poll, error) {
	var poll models.Poll
	filter := bson.M{"join_code": auth.NormalizeJoinCode(code)}
	err := s.db.Collection(pollsCollection).FindOne(ctx, filter).Decode(&poll)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (s *Mongo) Join(ctx context.Context, pollID, clientID string) (*models.Poll, error) {
	opt := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": pollID}
	update := bson.M{"$addToSet": bson.M{"participants": clientID}}

	var poll models.Poll
	err := s.db.Collection(pollsCollection).FindOneAndUpdate(ctx, filter, update, opt).Decode(&poll)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (s *Mongo) SetLock(ctx context.Context, pollID, ownerID string, locked bool) (bool, error) {
	return locked, s.ownerUpdate(ctx, pollID, ownerID, bson.M{"voting_locked": locked})
}

func (s *Mongo) SetVisibility(ctx context.Context, pollID, ownerID string, visible bool) (bool, error) {
	return visible, s.ownerUpdate(ctx, pollID, ownerID, bson.M{"show_results": visible})
}

// ownerUpdate applies $set to the poll only when ownerID matches, then
// distinguishes "absent poll" from "wrong owner" for the error taxonomy.
func (s *Mongo) ownerUpdate(ctx context.Context, pollID, ownerID string, fields bson.M) error {
	coll := s.db.Collection(pollsCollection)

	filter := bson.M{"_id": pollID, "owner_id": ownerID}
	result, err := coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := coll.CountDocuments(ctx, bson.M{"_id": pollID})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrUnauthorized
}

func (s *Mongo) ApplyVote(ctx context.Context, pollID, questionID, optionID, prevOptionID string) (int, int, error) {
	poll, err := s.Get(ctx, pollID)
	if err != nil {
		return 0, 0, err
	}
	// Questions and options never change after creation, so this check
	// stays valid for the updates below.
	if err := validateTarget(poll, questionID, optionID, prevOptionID); err != nil {
		return 0, 0, err
	}

	coll := s.db.Collection(pollsCollection)
	filter := bson.M{"_id": pollID}

	if prevOptionID != "" {
		// The vote_count filter floors the decrement at zero inside the
		// database; a racing double-decrement simply matches nothing.
		dec := bson.M{"$inc": bson.M{"questions.$[q].options.$[o].vote_count": -1}}
		decOpts := options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"q.id": questionID},
				bson.M{"o.id": prevOptionID, "o.vote_count": bson.M{"$gt": 0}},
			},
		})
		if _, err := coll.UpdateOne(ctx, filter, dec, decOpts); err != nil {
			return 0, 0, err
		}
	}

	inc := bson.M{"$inc": bson.M{"questions.$[q].options.$[o].vote_count": 1}}
	incOpts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"q.id": questionID},
				bson.M{"o.id": optionID},
			},
		}).
		SetReturnDocument(options.After)

	var updated models.Poll
	err = coll.FindOneAndUpdate(ctx, filter, inc, incOpts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}

	question := updated.Question(questionID)
	if question == nil {
		return 0, 0, ErrInvalidTarget
	}
	newCount := question.Option(optionID).VoteCount
	oldCount := 0
	if prevOptionID != "" {
		oldCount = question.Option(prevOptionID).VoteCount
	}
	return newCount, oldCount, nil
}
