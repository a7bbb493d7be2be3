// Package realtime keeps the message collection eventually consistent by
// applying the remote change stream to the local cache, without polling.
package realtime

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"association-treasury/internal/database"
	"association-treasury/internal/mapper"
	"association-treasury/internal/models"
)

// MessageCache is the slice of the local cache this subscriber writes to.
type MessageCache interface {
	ApplyMessageInsert(m models.CommunityMessage)
	ApplyMessageDelete(id string)
}

// Announcer receives every message insert delivered by the stream. Optional.
type Announcer interface {
	MessagePosted(m models.CommunityMessage) error
}

// changeEvent is the slice of the change-stream document this subscriber
// consumes. Deletes carry only the document key.
type changeEvent struct {
	OperationType string `bson:"operationType"`
	FullDocument  bson.M `bson:"fullDocument"`
	DocumentKey   struct {
		ID interface{} `bson:"_id"`
	} `bson:"documentKey"`
}

// Subscriber owns the single live subscription of a cache instance.
type Subscriber struct {
	db        *database.DB
	cache     MessageCache
	announcer Announcer
	log       zerolog.Logger
}

// New creates a subscriber. announcer may be nil.
func New(db *database.DB, cache MessageCache, announcer Announcer, log zerolog.Logger) *Subscriber {
	return &Subscriber{
		db:        db,
		cache:     cache,
		announcer: announcer,
		log:       log.With().Str("component", "realtime").Logger(),
	}
}

// Run opens the change stream and applies events until ctx is cancelled or
// the stream fails. Blocks; run it in its own goroutine.
func (s *Subscriber) Run(ctx context.Context) error {
	stream, err := s.db.WatchMessages(ctx)
	if err != nil {
		return err
	}
	defer stream.Close(context.Background())

	s.log.Info().Msg("message subscription established")

	for stream.Next(ctx) {
		var ev changeEvent
		if err := stream.Decode(&ev); err != nil {
			s.log.Error().Err(err).Msg("failed to decode change event")
			continue
		}
		s.apply(ev)
	}
	return stream.Err()
}

// apply routes one event into the cache. Inserts are appended in arrival
// order; an insert echoing a message already applied optimistically lands as
// a duplicate, which is accepted rather than deduplicated.
func (s *Subscriber) apply(ev changeEvent) {
	switch ev.OperationType {
	case "insert":
		msg := mapper.MessageFromDoc(ev.FullDocument)
		s.cache.ApplyMessageInsert(msg)
		if s.announcer != nil {
			if err := s.announcer.MessagePosted(msg); err != nil {
				s.log.Error().Err(err).Msg("failed to announce message")
			}
		}
	case "delete":
		s.cache.ApplyMessageDelete(mapper.DocID(ev.DocumentKey.ID))
	}
}
