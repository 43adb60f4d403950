// Package events announces content changes (new posts, new comments) on a
// message broker so downstream consumers — mail notifiers, feed indexers —
// can react without coupling to the request path. Backends: Google Pub/Sub
// and RabbitMQ, selected by configuration.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inkwell-blog/appserver/config"
	"github.com/inkwell-blog/appserver/types"
	"github.com/rs/zerolog"
)

// Channel names the publishable streams.
const (
	ChannelPostPublished = "posts.published"
	ChannelCommentAdded  = "comments.added"
)

// Message is a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the bus.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// PostPublishedEvent is the wire payload for ChannelPostPublished.
type PostPublishedEvent struct {
	PostID     int    `json:"post_id"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Date       string `json:"date"`
}

// CommentAddedEvent is the wire payload for ChannelCommentAdded.
type CommentAddedEvent struct {
	CommentID  int    `json:"comment_id"`
	PostID     int    `json:"post_id"`
	AuthorName string `json:"author_name"`
}

// Bus publishes typed blog events. A nil Bus, or one constructed without a
// backend, discards everything: publishing is strictly best effort and a
// broker outage never fails a request.
type Bus struct {
	backend Backend
	logger  zerolog.Logger
}

// NewBus wraps a backend. backend may be nil when events are disabled.
func NewBus(backend Backend, logger zerolog.Logger) *Bus {
	return &Bus{backend: backend, logger: logger}
}

// NewBusFromConfig builds a Bus for the configured broker. An empty
// backend yields a bus that discards every publish.
func NewBusFromConfig(ctx context.Context, cfg config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	switch cfg.Backend {
	case config.EventBackendPubSub:
		backend, err := NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("connect pubsub: %w", err)
		}
		return NewBus(backend, logger), nil
	case config.EventBackendRabbitMQ:
		backend, err := NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		return NewBus(backend, logger), nil
	case "":
		return NewBus(nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown event backend %q", cfg.Backend)
	}
}

// PostPublished announces a freshly created post.
func (b *Bus) PostPublished(ctx context.Context, post types.Post) {
	b.publish(ctx, ChannelPostPublished, PostPublishedEvent{
		PostID:     post.ID,
		Title:      post.Title,
		AuthorName: post.AuthorName,
		Date:       post.Date,
	})
}

// CommentAdded announces a new comment on a post.
func (b *Bus) CommentAdded(ctx context.Context, comment types.Comment) {
	b.publish(ctx, ChannelCommentAdded, CommentAddedEvent{
		CommentID:  comment.ID,
		PostID:     comment.PostID,
		AuthorName: comment.AuthorName,
	})
}

// Subscribe consumes messages from the named channel until ctx is done.
func (b *Bus) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if b == nil || b.backend == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (b *Bus) Close() error {
	if b == nil || b.backend == nil {
		return nil
	}
	return b.backend.Close()
}

func (b *Bus) publish(ctx context.Context, channel string, payload any) {
	if b == nil || b.backend == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error().Err(err).Str("channel", channel).Msg("encode event")
		return
	}

	id, err := b.backend.Publish(ctx, channel, data, map[string]string{"content-type": "application/json"})
	if err != nil {
		b.logger.Error().Err(err).Str("channel", channel).Msg("publish event")
		return
	}
	b.logger.Debug().Str("channel", channel).Str("message_id", id).Msg("event published")
}
