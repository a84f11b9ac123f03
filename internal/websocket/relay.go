package websocket

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultPublishTimeout = 2 * time.Second

// Relay shares one broadcast domain between instances over Redis pub/sub.
// Notify queues a publish; Run drains that queue and hands every received
// signal to the local hub.
type Relay struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	logger  *zap.Logger

	// one slot: a pending publish already covers later notifications
	pending        chan struct{}
	publishTimeout time.Duration
}

func NewRelay(rdb *redis.Client, channel string, hub *Hub, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		rdb:            rdb,
		channel:        channel,
		hub:            hub,
		logger:         logger,
		pending:        make(chan struct{}, 1),
		publishTimeout: defaultPublishTimeout,
	}
}

// Notify returns immediately. The publish happens in Run's publish loop.
func (r *Relay) Notify(context.Context) {
	select {
	case r.pending <- struct{}{}:
	default:
	}
}

// Run publishes queued notifications and forwards subscribed signals to the
// hub. It blocks until ctx is cancelled. A broken subscription is returned
// as an error, while publishing continues until ctx ends.
func (r *Relay) Run(ctx context.Context) error {
	go r.publishLoop(ctx)
	return r.subscribe(ctx)
}

func (r *Relay) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.pending:
			r.publish(ctx)
		}
	}
}

// publish falls back to a local broadcast so this instance's clients still
// hear about the change when Redis is unreachable.
func (r *Relay) publish(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()

	if err := r.rdb.Publish(pctx, r.channel, string(SignalStateChanged)).Err(); err != nil {
		r.logger.Warn("relay publish failed, broadcasting locally",
			zap.String("channel", r.channel),
			zap.Error(err))
		r.hub.Broadcast(SignalStateChanged)
	}
}

func (r *Relay) subscribe(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.logger.Info("relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if Signal(msg.Payload) != SignalStateChanged {
				r.logger.Debug("relay: unknown signal", zap.String("payload", msg.Payload))
				continue
			}
			r.hub.Broadcast(SignalStateChanged)
		}
	}
}
