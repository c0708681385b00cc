package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voidchat/internal/model"
)

// TranscriptRepo archives renderable messages per conversation. Writes are
// best effort; the backend remains the source of truth for history, Mongo
// only covers replay when the backend is unreachable.
type TranscriptRepo interface {
	Append(ctx context.Context, entry *TranscriptEntry) error
	ListByConversation(ctx context.Context, conversationID string) ([]*TranscriptEntry, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

// TranscriptEntry is one archived message. The message itself is stored as
// raw JSON so the ordered row payloads survive the round-trip untouched.
type TranscriptEntry struct {
	ConversationID string    `bson:"conversationId"`
	SessionID      string    `bson:"sessionId,omitempty"`
	UserID         string    `bson:"userId,omitempty"`
	MessageJSON    string    `bson:"messageJson"`
	CreatedAt      time.Time `bson:"createdAt"`
}

// Message decodes the archived message.
func (e *TranscriptEntry) Message() (*model.ChatMessage, error) {
	var msg model.ChatMessage
	if err := json.Unmarshal([]byte(e.MessageJSON), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewTranscriptEntry encodes a message for archiving.
func NewTranscriptEntry(conversationID, sessionID, userID string, msg model.ChatMessage) (*TranscriptEntry, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &TranscriptEntry{
		ConversationID: conversationID,
		SessionID:      sessionID,
		UserID:         userID,
		MessageJSON:    string(data),
		CreatedAt:      time.Now(),
	}, nil
}

type transcriptRepo struct {
	collection *mongo.Collection
}

// NewTranscriptRepo creates a transcript repository.
func NewTranscriptRepo(db *mongo.Database) TranscriptRepo {
	return &transcriptRepo{
		collection: db.Collection("transcripts"),
	}
}

func (r *transcriptRepo) Append(ctx context.Context, entry *TranscriptEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *transcriptRepo) ListByConversation(ctx context.Context, conversationID string) ([]*TranscriptEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*TranscriptEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *transcriptRepo) DeleteConversation(ctx context.Context, conversationID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"conversationId": conversationID})
	return err
}
