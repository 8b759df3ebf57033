package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository/memory"
	"payment-settlement/internal/service"
)

func TestIntakeService_IngestEntries(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewIntakeService(store.Statements(), store.Receivables())
	ctx := context.Background()

	_, err := svc.IngestEntries(ctx, []domain.BankStatementEntry{credit("e1", "10.00", "", date(2024, 3, 1))})
	require.NoError(t, err)

	bad := credit("e2", "-5.00", "", date(2024, 3, 1))
	subCent := credit("e3", "1.001", "", date(2024, 3, 1))

	result, err := svc.IngestEntries(ctx, []domain.BankStatementEntry{
		credit("e1", "10.00", "", date(2024, 3, 1)),
		bad,
		subCent,
		credit("e4", "7.50", "", date(2024, 3, 2)),
		credit("e4", "7.50", "", date(2024, 3, 2)),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Received)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Duplicates)
	require.Len(t, result.Rejected, 3)
	assert.Equal(t, 1, result.Rejected[0].Index)
	assert.Equal(t, 2, result.Rejected[1].Index)
	assert.Equal(t, 4, result.Rejected[2].Index)
	assert.Equal(t, result.Received, result.Inserted+result.Duplicates+len(result.Rejected))
}

func TestIntakeService_ReceivablesEnterPending(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewIntakeService(store.Statements(), store.Receivables())
	ctx := context.Background()

	settled := receivable("r1", domain.KindPix, "E1", "10.00", date(2024, 3, 1))
	settled.Status = domain.ReceivableSettled
	unknown := receivable("r2", "CARD", "X", "10.00", date(2024, 3, 1))

	result, err := svc.IngestReceivables(ctx, []domain.Receivable{settled, unknown})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "r2", result.Rejected[0].ID)

	rec, err := store.Receivables().GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivablePending, rec.Status)
}
