package redis

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultChannel = "quiz:scores"
	lastUpdateKey  = "quiz:scores:updated_at"
)

// Notifier publishes scores-changed signals on a Redis channel so every service
// instance can fan them out to its own viewers.
//
// Delivery is at-most-once: a failed publish is logged and dropped, and the
// submission that triggered it stays committed.
type Notifier struct {
	client  *redis.Client
	channel string
	ttl     time.Duration
	clock   func() time.Time
}

func NewNotifier(client *redis.Client, channel string, ttl time.Duration) *Notifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Notifier{client: client, channel: channel, ttl: ttl, clock: time.Now}
}

var _ app.Notifier = (*Notifier)(nil)

// ScoresChanged publishes the event and stamps the last-update marker.
func (n *Notifier) ScoresChanged(ctx context.Context) {
	// detach from the request so a client hang-up does not cancel the publish
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	payload, err := json.Marshal(domain.LiveEvent{Type: domain.EventScoresUpdated})
	if err != nil {
		log.Printf("notifier: marshal event: %v", err)
		return
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		log.Printf("notifier: publish to %s: %v", n.channel, err)
		return
	}
	// best-effort marker for dashboards polling the last update time
	_ = n.client.Set(ctx, lastUpdateKey, strconv.FormatInt(n.clock().Unix(), 10), n.ttl).Err()
}

// LastUpdate returns when scores last changed, or the zero time if unknown.
func (n *Notifier) LastUpdate(ctx context.Context) (time.Time, error) {
	raw, err := n.client.Get(ctx, lastUpdateKey).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}

// Relay forwards events from the Redis channel into the local broadcaster until ctx ends.
// ready, when non-nil, is closed once the subscription is active.
func (n *Notifier) Relay(ctx context.Context, local *app.Broadcaster, ready chan<- struct{}) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}
	log.Printf("notifier: relaying %s to local viewers", n.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var ev domain.LiveEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil || ev.Type == "" {
				log.Printf("notifier: dropping malformed event %q", msg.Payload)
				continue
			}
			local.Publish(ev)
		}
	}
}
