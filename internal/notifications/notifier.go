// Package notifications publishes per-user events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types published to user channels.
const (
	EventCampFollowed   = "camp.followed"
	EventCampUnfollowed = "camp.unfollowed"
	EventUserBanned     = "user.banned"
)

// Event is the JSON envelope delivered to a user's channel.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends an event to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, eventType string, payload interface{}) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	b, err := json.Marshal(Event{Type: eventType, Payload: payload, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, UserChannel(userID), string(b)).Err()
}

// SubscribeUser forwards raw payloads from the user's channel to onMessage until ctx is done.
// The returned channel is closed once the subscription has been torn down.
func (n *Notifier) SubscribeUser(ctx context.Context, userID uint, onMessage func(payload string)) (<-chan struct{}, error) {
	done := make(chan struct{})
	if n == nil || n.rdb == nil {
		close(done)
		return done, nil
	}
	sub := n.rdb.Subscribe(ctx, UserChannel(userID))
	// Wait for the subscription confirmation so callers can publish right away.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		close(done)
		return done, fmt.Errorf("subscribe %s: %w", UserChannel(userID), err)
	}
	ch := sub.Channel()

	go func() {
		defer close(done)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in user subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return done, nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
