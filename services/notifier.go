package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"engagement-prediction-api/models"

	"github.com/rs/zerolog/log"
)

const toastChannelPrefix = "engagement:toasts:"

func ToastChannel(clientID string) string {
	return toastChannelPrefix + clientID
}

// Notifier delivers toasts to one page at a time, identified by client id.
// Redis pub/sub is used when available so any replica can reach the page's
// socket; otherwise toasts fan out in-process.
type Notifier struct {
	cache *CacheService
	ttl   time.Duration

	mu   sync.Mutex
	subs map[string]map[chan models.Toast]struct{}
}

func NewNotifier(cache *CacheService, ttl time.Duration) *Notifier {
	return &Notifier{
		cache: cache,
		ttl:   ttl,
		subs:  make(map[string]map[chan models.Toast]struct{}),
	}
}

func (n *Notifier) TTL() time.Duration {
	return n.ttl
}

func (n *Notifier) Toast(message string, kind models.ToastKind) models.Toast {
	return models.Toast{Message: message, Kind: kind, TTLMS: n.ttl.Milliseconds()}
}

// Notify is a no-op for an empty client id.
func (n *Notifier) Notify(ctx context.Context, clientID, message string, kind models.ToastKind) error {
	if clientID == "" {
		return nil
	}
	toast := n.Toast(message, kind)
	toastsSent.WithLabelValues(string(kind)).Inc()

	if n.cache != nil && n.cache.Available() {
		return n.cache.Publish(ctx, ToastChannel(clientID), toast)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs[clientID] {
		select {
		case ch <- toast:
		default:
			log.Debug().Str("client", clientID).Msg("toast dropped, subscriber is slow")
		}
	}
	return nil
}

// Subscribe streams toasts for clientID until ctx is done or the returned
// cancel func is called.
func (n *Notifier) Subscribe(ctx context.Context, clientID string) (<-chan models.Toast, func()) {
	out := make(chan models.Toast, 8)
	ctx, cancel := context.WithCancel(ctx)

	if n.cache != nil && n.cache.Available() {
		pubsub := n.cache.Subscribe(ctx, ToastChannel(clientID))
		go func() {
			defer close(out)
			defer pubsub.Close()
			ch := pubsub.Channel()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-ch:
					if !ok {
						return
					}
					var toast models.Toast
					if err := json.Unmarshal([]byte(msg.Payload), &toast); err != nil {
						log.Warn().Err(err).Str("client", clientID).Msg("malformed toast payload")
						continue
					}
					select {
					case out <- toast:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out, cancel
	}

	n.mu.Lock()
	if n.subs[clientID] == nil {
		n.subs[clientID] = make(map[chan models.Toast]struct{})
	}
	n.subs[clientID][out] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			n.mu.Lock()
			delete(n.subs[clientID], out)
			if len(n.subs[clientID]) == 0 {
				delete(n.subs, clientID)
			}
			close(out)
			n.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
	return out, unsubscribe
}
