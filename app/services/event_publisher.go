package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/drey/queueline/app/realtime"
	"github.com/drey/queueline/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventPublisher is the broadcast port business flows use after commit.
// Publish never blocks and never fails the caller.
type EventPublisher interface {
	Publish(event string, payload any)
}

// Event names broadcast to the display boards
const (
	EventQueueCreated    = "Queue:created"
	EventQueueUpdated    = "Queue:updated"
	EventEmployeeCreated = "employee:created"
	EventEmployeeUpdated = "employee:updated"
	EventEmployeeList    = "employee:list"
	EventVideoAdsCreated = "VideoAds:created"
	EventVideoAdsUpdated = "VideoAds:updated"
)

// EventEnvelope is the wire shape of every broadcast message
type EventEnvelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Origin    string    `json:"origin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HubPublisher broadcasts events to the in-process WebSocket hub
type HubPublisher struct {
	hub *realtime.Hub
}

// NewHubPublisher creates a publisher backed by the given hub
func NewHubPublisher(hub *realtime.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(event string, payload any) {
	data, err := json.Marshal(EventEnvelope{
		Event:     event,
		Payload:   payload,
		CreatedAt: utils.UTCNow(),
	})
	if err != nil {
		log.Printf("event marshal failed for %s: %v", event, err)
		return
	}
	p.hub.Broadcast(data)
}

// RedisRelayPublisher wraps another publisher and additionally publishes each
// event onto a Redis channel so sibling instances reach their own boards.
type RedisRelayPublisher struct {
	inner    EventPublisher
	client   *redis.Client
	channel  string
	instance string
}

// NewRedisRelayPublisher creates a relaying publisher with a unique instance id
func NewRedisRelayPublisher(inner EventPublisher, client *redis.Client, channel string) *RedisRelayPublisher {
	return &RedisRelayPublisher{
		inner:    inner,
		client:   client,
		channel:  channel,
		instance: uuid.NewString(),
	}
}

func (p *RedisRelayPublisher) Publish(event string, payload any) {
	p.inner.Publish(event, payload)

	data, err := json.Marshal(EventEnvelope{
		Event:     event,
		Payload:   payload,
		Origin:    p.instance,
		CreatedAt: utils.UTCNow(),
	})
	if err != nil {
		log.Printf("event marshal failed for %s: %v", event, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
			log.Printf("redis relay publish failed for %s: %v", event, err)
		}
	}()
}

// RunRelay subscribes to the relay channel and feeds events published by
// sibling instances into the local hub. Own events are skipped by origin id.
// Blocks until ctx is cancelled.
func (p *RedisRelayPublisher) RunRelay(ctx context.Context, hub *realtime.Hub) {
	sub := p.client.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env EventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("redis relay: bad envelope: %v", err)
				continue
			}
			if env.Origin == p.instance {
				continue
			}
			hub.Broadcast([]byte(msg.Payload))
		}
	}
}
