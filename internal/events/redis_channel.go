package events

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/domain"
)

// RedisChannel implements Channel over Redis pub/sub.
type RedisChannel struct {
	client goredis.UniversalClient
	logger *zap.Logger
}

func NewRedisChannel(client goredis.UniversalClient, logger *zap.Logger) *RedisChannel {
	return &RedisChannel{client: client, logger: logger}
}

// Publish serializes the event to JSON and sends it on the kind's topic.
// The caller returns to the user as soon as the transport accepts the
// message; no subscriber acknowledgement exists.
func (c *RedisChannel) Publish(ctx context.Context, evt domain.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	if err := c.client.Publish(ctx, Topic(evt.Kind), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Kind, err)
	}
	return nil
}

// Subscribe opens one subscription on the kind's topic and invokes the
// handler once per message, strictly in arrival order. Malformed payloads
// are logged and dropped; the loop only exits when ctx is cancelled or the
// transport closes the subscription.
func (c *RedisChannel) Subscribe(ctx context.Context, kind domain.EventKind, h Handler) error {
	sub := c.client.Subscribe(ctx, Topic(kind))
	defer sub.Close()

	// Confirm the subscription is active before reporting ready; messages
	// published before this point are lost, which the design accepts.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", kind, err)
	}
	c.logger.Info("subscribed", zap.String("topic", Topic(kind)))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var evt domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				c.logger.Warn("dropping malformed event payload",
					zap.String("topic", Topic(kind)), zap.Error(err))
				continue
			}
			h(ctx, evt)
		}
	}
}

var _ Channel = (*RedisChannel)(nil)
