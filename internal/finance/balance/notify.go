package balance

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const bumpChannel = "finance.ledger.bump"

// Notifier broadcasts ledger changes over Redis pub/sub so every process
// holding a balance registry drops its memoized inputs. A nil client turns
// publishing into a no-op, which keeps tests and single-process setups
// simple.
type Notifier struct {
	client *redis.Client
	logger *slog.Logger
}

func NewNotifier(client *redis.Client, logger *slog.Logger) *Notifier {
	return &Notifier{client: client, logger: logger}
}

// LedgerChanged publishes the company whose ledger moved.
func (n *Notifier) LedgerChanged(ctx context.Context, companyID int64) {
	if n == nil || n.client == nil {
		return
	}
	if err := n.client.Publish(ctx, bumpChannel, strconv.FormatInt(companyID, 10)).Err(); err != nil && n.logger != nil {
		n.logger.Warn("publish ledger bump", slog.Any("error", err), slog.Int64("company_id", companyID))
	}
}

// Listen subscribes to ledger bumps and invalidates the matching view until
// the context is cancelled.
func (n *Notifier) Listen(ctx context.Context, registry *Registry) error {
	if n == nil || n.client == nil || registry == nil {
		return nil
	}
	pubsub := n.client.Subscribe(ctx, bumpChannel)
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				companyID, err := strconv.ParseInt(msg.Payload, 10, 64)
				if err != nil {
					continue
				}
				registry.Invalidate(companyID)
			}
		}
	}()
	return nil
}
