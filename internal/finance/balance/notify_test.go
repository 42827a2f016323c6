package balance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
)

func TestNotifierInvalidatesAcrossProcesses(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := NewNotifier(client, logger)

	source := newStubSource()
	id := uuid.New()
	source.accts[5] = []accounts.Account{acct(id, "100")}
	source.txns[5] = []transactions.Transaction{
		txn(&id, transactions.KindRevenue, "10", transactions.StatusPaid),
	}

	registry := NewRegistry(source, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, notifier.Listen(ctx, registry))

	view := registry.For(5)
	require.NoError(t, view.Refresh(ctx))
	first := view.Balances()
	require.NotEmpty(t, first)

	// Without a bump the memoized snapshot survives refreshes.
	require.NoError(t, view.Refresh(ctx))
	require.Same(t, &first[0], &view.Balances()[0])

	notifier.LedgerChanged(ctx, 5)

	// The subscriber drops the memoized inputs so a refresh recomputes.
	require.Eventually(t, func() bool {
		if err := view.Refresh(ctx); err != nil {
			return false
		}
		got := view.Balances()
		return len(got) > 0 && &got[0] != &first[0]
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotifierNilClientIsNoop(t *testing.T) {
	var notifier *Notifier
	notifier.LedgerChanged(context.Background(), 1)
	require.NoError(t, notifier.Listen(context.Background(), nil))
}
