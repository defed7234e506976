// Package logs provides live log tailing for Scalingo applications.
//
// Scalingo only serves the last lines of an application's log, so a Broker
// polls that tail for every application with at least one subscriber, keeps
// the lines it has not published yet and fans them out to the subscribers.
package logs

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/narvanalabs/scalingo-dashboard/internal/logparse"
	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// Defaults for a Broker.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultTailLines    = 100
	subscriberBuffer    = 256
)

// Source fetches the raw tail of an application's log.
type Source interface {
	RawLogs(ctx context.Context, appID string, lines int) (string, error)
}

// Subscriber represents a log stream subscriber.
type Subscriber struct {
	ID        string
	AppID     string
	Ch        chan models.LogEntry
	CreatedAt time.Time
}

// tail is the polling state of one application.
type tail struct {
	appID       string
	subscribers map[string]*Subscriber
	container   *Container
	cancel      context.CancelFunc
	done        chan struct{}
}

// Config holds Broker settings.
type Config struct {
	PollInterval time.Duration
	Lines        int
	MaxLines     int
}

// Broker manages log subscriptions and the pollers feeding them.
type Broker struct {
	mu     sync.RWMutex
	tails  map[string]*tail // app ID -> tail
	closed bool

	source Source
	parser *logparse.Parser
	cfg    Config
	logger *slog.Logger
}

// NewBroker creates a new log broker reading from source.
func NewBroker(source Source, cfg Config, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Lines <= 0 {
		cfg.Lines = DefaultTailLines
	}
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = DefaultMaxLines
	}
	return &Broker{
		tails:  make(map[string]*tail),
		source: source,
		parser: &logparse.Parser{},
		cfg:    cfg,
		logger: logger,
	}
}

// Subscribe creates a new subscription to appID's log and returns the entries
// already collected for it. Polling starts with the first subscriber of an app.
// It returns nil after Close.
func (b *Broker) Subscribe(appID string) (*Subscriber, []models.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil
	}

	sub := &Subscriber{
		ID:        uuid.NewString(),
		AppID:     appID,
		Ch:        make(chan models.LogEntry, subscriberBuffer),
		CreatedAt: time.Now(),
	}

	t, ok := b.tails[appID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		t = &tail{
			appID:       appID,
			subscribers: make(map[string]*Subscriber),
			container:   NewContainer(b.cfg.MaxLines),
			cancel:      cancel,
			done:        make(chan struct{}),
		}
		b.tails[appID] = t
		go b.poll(ctx, t)
	}
	t.subscribers[sub.ID] = sub

	b.logger.Debug("subscriber added", "subscriber_id", sub.ID, "app_id", appID)
	return sub, t.container.Entries()
}

// Unsubscribe removes a subscription and stops polling when it was the last one.
func (b *Broker) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	t, ok := b.tails[sub.AppID]
	if !ok {
		b.mu.Unlock()
		return
	}
	if _, exists := t.subscribers[sub.ID]; exists {
		close(sub.Ch)
		delete(t.subscribers, sub.ID)
		b.logger.Debug("subscriber removed", "subscriber_id", sub.ID)
	}
	stop := len(t.subscribers) == 0
	if stop {
		delete(b.tails, sub.AppID)
	}
	b.mu.Unlock()

	if stop {
		t.cancel()
		<-t.done
	}
}

// Close stops every poller and closes every subscriber channel.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	tails := b.tails
	b.tails = make(map[string]*tail)
	for _, t := range tails {
		for id, sub := range t.subscribers {
			close(sub.Ch)
			delete(t.subscribers, id)
		}
	}
	b.mu.Unlock()

	for _, t := range tails {
		t.cancel()
		<-t.done
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, t := range b.tails {
		n += len(t.subscribers)
	}
	return n
}

// poll fetches t's log immediately and then on every tick until ctx is done.
func (b *Broker) poll(ctx context.Context, t *tail) {
	defer close(t.done)

	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		b.fetch(ctx, t)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (b *Broker) fetch(ctx context.Context, t *tail) {
	raw, err := b.source.RawLogs(ctx, t.appID, b.cfg.Lines)
	if err != nil {
		if ctx.Err() == nil {
			b.logger.Warn("failed to fetch logs", "app_id", t.appID, "error", err)
		}
		return
	}

	fresh := t.container.Fresh(raw)
	if len(fresh) == 0 {
		return
	}

	entries := b.parser.Parse(strings.Join(fresh, "\n"))

	// Subscribe snapshots the container under b.mu, so a new subscriber sees
	// these entries either in its backlog or on its channel, never both.
	b.mu.Lock()
	defer b.mu.Unlock()
	t.container.Add(entries...)
	b.publish(t, entries)
}

// publish sends entries to every subscriber of t without blocking.
// The caller must hold b.mu.
func (b *Broker) publish(t *tail, entries []models.LogEntry) {
	for _, sub := range t.subscribers {
		for _, entry := range entries {
			select {
			case sub.Ch <- entry:
			default:
				// Channel full, skip this entry for this subscriber
				b.logger.Warn("subscriber channel full, dropping log entry",
					"subscriber_id", sub.ID,
					"app_id", t.appID,
				)
			}
		}
	}
}
