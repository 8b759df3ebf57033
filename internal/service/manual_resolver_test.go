package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository/memory"
	"payment-settlement/internal/service"
)

func newResolver(store *memory.Store) service.ManualResolver {
	return service.NewManualResolver(store.Statements(), store.Receivables(), store.Reconciliations())
}

func TestResolveManually_IgnoresTolerance(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	ctx := context.Background()

	match, err := newResolver(store).ResolveManually(ctx, service.ManualResolution{
		EntryID:      "e3",
		ReceivableID: "r2",
		OperatorID:   "op-7",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MatchManual, match.MatchType)
	assert.Equal(t, "op-7", match.OperatorID)
	assert.True(t, match.AmountDelta.Equal(amount("-300.00")))
	assert.Equal(t, 6, match.DateDelta)

	entry, err := store.Statements().GetByID(ctx, "e3")
	require.NoError(t, err)
	assert.True(t, entry.Reconciled)

	rec, err := store.Receivables().GetByID(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableSettled, rec.Status)
}

func TestResolveManually_SettlesExpiredReceivable(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	ctx := context.Background()

	expired := receivable("r9", domain.KindBoleto, "NN-9", "200.00", date(2024, 1, 10))
	expired.Status = domain.ReceivableExpired
	store.Put(expired)

	_, err := newResolver(store).ResolveManually(ctx, service.ManualResolution{EntryID: "e3", ReceivableID: "r9", OperatorID: "op-1"})
	require.NoError(t, err)

	rec, err := store.Receivables().GetByID(ctx, "r9")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableSettled, rec.Status)
}

func TestResolveManually_AfterAutoMatchIsAlreadyReconciled(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	ctx := context.Background()

	_, err := newReconciliation(store, nil).Reconcile(ctx, "acc-1", march())
	require.NoError(t, err)

	_, err = newResolver(store).ResolveManually(ctx, service.ManualResolution{EntryID: "e3", ReceivableID: "r1", OperatorID: "op-1"})
	assert.True(t, errors.Is(err, domain.ErrAlreadyReconciled))

	_, err = newResolver(store).ResolveManually(ctx, service.ManualResolution{EntryID: "e1", ReceivableID: "r3", OperatorID: "op-1"})
	assert.True(t, errors.Is(err, domain.ErrAlreadyReconciled))
}

func TestResolveManually_StaleVersionIsConflict(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	ctx := context.Background()

	seen := int64(0)
	_, err := newResolver(store).ResolveManually(ctx, service.ManualResolution{
		EntryID:           "e3",
		ReceivableID:      "r3",
		OperatorID:        "op-1",
		ReceivableVersion: &seen,
	})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.True(t, domain.IsRetryable(err))

	entry, err := store.Statements().GetByID(ctx, "e3")
	require.NoError(t, err)
	assert.False(t, entry.Reconciled)
}

func TestResolveManually_Validation(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	resolver := newResolver(store)
	ctx := context.Background()

	_, err := resolver.ResolveManually(ctx, service.ManualResolution{EntryID: "e3", ReceivableID: "r3"})
	assert.True(t, domain.IsClientError(err))

	_, err = resolver.ResolveManually(ctx, service.ManualResolution{EntryID: "missing", ReceivableID: "r3", OperatorID: "op"})
	assert.True(t, domain.IsNotFound(err))
}
