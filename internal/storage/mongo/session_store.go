package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

type sessionDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId,omitempty"`
	Username  string    `bson:"username,omitempty"`
	ReturnTo  string    `bson:"returnTo,omitempty"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// SessionStore persists sessions in the sessions collection. The TTL index
// on expiresAt lets the server reap them; reads also filter on expiry since
// the reaper runs only once a minute.
type SessionStore struct {
	collection *mongo.Collection
	guard      *Guard
}

// NewSessionStore creates a session store; guard may be nil
func NewSessionStore(db *DB, guard *Guard) *SessionStore {
	return &SessionStore{
		collection: db.Database().Collection(SessionsCollection),
		guard:      guard,
	}
}

func (s *SessionStore) SaveSession(ctx context.Context, sess *domain.Session) error {
	doc := sessionDocument{
		ID:        sess.ID,
		UserID:    sess.UserID,
		Username:  sess.Username,
		ReturnTo:  sess.ReturnTo,
		ExpiresAt: sess.ExpiresAt,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}

	_, err := guarded(ctx, s.guard, func(ctx context.Context) (struct{}, error) {
		opts := options.Replace().SetUpsert(true)
		if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
			return struct{}{}, fmt.Errorf("save session: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return guarded(ctx, s.guard, func(ctx context.Context) (*domain.Session, error) {
		filter := bson.M{"_id": id, "expiresAt": bson.M{"$gt": time.Now().UTC()}}

		var doc sessionDocument
		err := s.collection.FindOne(ctx, filter).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("find session: %w", err)
		}
		return &domain.Session{
			ID:        doc.ID,
			UserID:    doc.UserID,
			Username:  doc.Username,
			ReturnTo:  doc.ReturnTo,
			ExpiresAt: doc.ExpiresAt,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		}, nil
	})
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	_, err := guarded(ctx, s.guard, func(ctx context.Context) (struct{}, error) {
		if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			return struct{}{}, fmt.Errorf("delete session: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// DeleteExpired removes sessions the TTL monitor has not reaped yet
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": time.Now().UTC()}})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}
