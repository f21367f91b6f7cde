package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
)

// Postgres rejects NOTIFY payloads of 8000 bytes or more.
const maxNotifyPayload = 7900

// PGBridge relays local events to other API instances through
// LISTEN/NOTIFY and feeds theirs back into the local bus.
type PGBridge struct {
	pool    *pgxpool.Pool
	bus     *Bus
	channel string
}

func NewPGBridge(ctx context.Context, dsn, channel string, bus *Bus) (*PGBridge, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse bridge dsn: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect bridge pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping bridge pool: %w", err)
	}

	return &PGBridge{pool: pool, bus: bus, channel: channel}, nil
}

func (b *PGBridge) Name() string { return "pg_bridge" }

// Handle publishes locally originated events.
func (b *PGBridge) Handle(ctx context.Context, event Event) error {
	if event.Remote {
		return nil
	}
	payload, err := encodeNotify(event)
	if err != nil {
		return err
	}
	_, err = b.pool.Exec(ctx, "SELECT pg_notify($1, $2)", b.channel, payload)
	return err
}

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

// Listen blocks until ctx is cancelled, reconnecting with backoff.
func (b *PGBridge) Listen(ctx context.Context) {
	superviseListen(ctx, b.listenOnce, time.After)
}

// superviseListen reruns listen until ctx ends. The delay doubles on each
// failure and drops back to the minimum once listen reports it is ready.
func superviseListen(ctx context.Context, listen func(ctx context.Context, ready func()) error, after func(time.Duration) <-chan time.Time) {
	backoff := minReconnectDelay
	for {
		err := listen(ctx, func() { backoff = minReconnectDelay })
		if ctx.Err() != nil {
			logger.WorkerLog("pg_bridge", "stopped", nil)
			return
		}
		logger.WorkerLog("pg_bridge", "listen", err)

		select {
		case <-ctx.Done():
			return
		case <-after(backoff):
		}
		if backoff < maxReconnectDelay {
			backoff = min(backoff*2, maxReconnectDelay)
		}
	}
}

func (b *PGBridge) listenOnce(ctx context.Context, ready func()) error {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{b.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	ready()
	logger.Info("Realtime bridge listening", "channel", b.channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		event, ok := decodeNotify(n.Payload, b.bus.Origin())
		if ok {
			b.bus.PublishRemote(ctx, event)
		}
	}
}

func (b *PGBridge) Close() {
	b.pool.Close()
}

func encodeNotify(event Event) (string, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	if len(raw) > maxNotifyPayload {
		// Drop the free-form payload rather than the event.
		event.Payload = nil
		if raw, err = json.Marshal(event); err != nil {
			return "", err
		}
		if len(raw) > maxNotifyPayload {
			return "", errors.New("event too large for notify")
		}
	}
	return string(raw), nil
}

// decodeNotify skips malformed payloads and our own echoes.
func decodeNotify(payload, origin string) (Event, bool) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.Warn("Malformed bridge payload", "error", err)
		return Event{}, false
	}
	if event.Origin == origin {
		return Event{}, false
	}
	return event, true
}
