package feed

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Notifier transporta notificaciones de "mensaje agregado". Cada evento
// lleva solo el id del mensaje; el suscriptor resuelve el registro completo.
type Notifier interface {
	Publish(ctx context.Context, messageID string) error
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription es una suscripcion viva al canal de notificaciones.
// Los eventos llegan por C en el orden en que el transporte los recibio;
// C se cierra despues de Close.
type Subscription interface {
	C() <-chan string
	Close() error
}

const subscriptionBuffer = 256

// MemoryNotifier hace fan-out de notificaciones dentro del proceso.
// Sirve para despliegues de un solo nodo y para tests deterministas.
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[*memorySubscription]struct{}
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		subs: make(map[*memorySubscription]struct{}),
	}
}

func (n *MemoryNotifier) Publish(_ context.Context, messageID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for sub := range n.subs {
		select {
		case sub.ch <- messageID:
		default:
			// Suscriptor saturado: se pierde la notificacion, el mensaje
			// queda visible en la proxima recarga completa.
		}
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(_ context.Context) (Subscription, error) {
	sub := &memorySubscription{
		notifier: n,
		ch:       make(chan string, subscriptionBuffer),
	}
	n.mu.Lock()
	n.subs[sub] = struct{}{}
	n.mu.Unlock()
	return sub, nil
}

type memorySubscription struct {
	notifier *MemoryNotifier
	ch       chan string
	closed   bool
}

func (s *memorySubscription) C() <-chan string {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.notifier.mu.Lock()
	defer s.notifier.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	delete(s.notifier.subs, s)
	close(s.ch)
	return nil
}

// RedisNotifier hace fan-out entre nodos via pub/sub de Redis.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = "forum-messages"
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, messageID string) error {
	return n.client.Publish(ctx, n.channel, messageID).Err()
}

func (n *RedisNotifier) Subscribe(ctx context.Context) (Subscription, error) {
	pubsub := n.client.Subscribe(ctx, n.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan string, subscriptionBuffer),
	}
	go sub.pump()
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan string
}

func (s *redisSubscription) pump() {
	defer close(s.ch)
	for msg := range s.pubsub.Channel() {
		s.ch <- msg.Payload
	}
}

func (s *redisSubscription) C() <-chan string {
	return s.ch
}

func (s *redisSubscription) Close() error {
	// Cerrar el PubSub termina el canal subyacente y con el la goroutine
	// de bombeo; Close repetido es seguro en go-redis.
	return s.pubsub.Close()
}
