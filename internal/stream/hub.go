package stream

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "trails:"
	channelSuffix = ":activity"
	sendBuffer    = 64
)

// Hub fans trail activity out to websocket subscribers. With redis it
// publishes on trails:<id>:activity and delivers what the pattern
// subscription receives, so every instance sees every event exactly once.
type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	TrailID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		pubsub := redisClient.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("redis subscribe error, delivering locally only: %v", err)
			_ = pubsub.Close()
		} else {
			h.pubsub = pubsub
			go h.forward(pubsub.Channel())
		}
	}
	return h
}

func (h *Hub) Register(trailID string) *Client {
	client := &Client{
		TrailID: trailID,
		Send:    make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[trailID] == nil {
		h.clients[trailID] = map[*Client]struct{}{}
	}
	h.clients[trailID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if trailClients, ok := h.clients[client.TrailID]; ok {
		if _, ok := trailClients[client]; !ok {
			return
		}
		delete(trailClients, client)
		if len(trailClients) == 0 {
			delete(h.clients, client.TrailID)
		}
		close(client.Send)
	}
}

// Subscribers reports how many local clients follow a trail.
func (h *Hub) Subscribers(trailID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[trailID])
}

func (h *Hub) Broadcast(trailID string, payload []byte) {
	if h.pubsub != nil {
		err := h.redis.Publish(context.Background(), redisChannel(trailID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(trailID, payload)
}

// Close stops the redis subscription. Registered clients stay open.
func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	return h.pubsub.Close()
}

// deliver drops the message for clients whose buffer is full.
func (h *Hub) deliver(trailID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[trailID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forward(messages <-chan *redis.Message) {
	for msg := range messages {
		trailID := trailIDFromChannel(msg.Channel)
		if trailID == "" {
			continue
		}
		h.deliver(trailID, []byte(msg.Payload))
	}
}

func redisChannel(trailID string) string {
	return channelPrefix + trailID + channelSuffix
}

func trailIDFromChannel(ch string) string {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(ch, channelPrefix), channelSuffix)
}
