package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func march() domain.Period {
	return domain.Period{Start: date(2024, 3, 1), End: date(2024, 3, 31)}
}

func credit(id, value, ref string, on time.Time) domain.BankStatementEntry {
	return domain.BankStatementEntry{
		ID:                id,
		AccountID:         "acc-1",
		Date:              on,
		DocumentReference: ref,
		Amount:            amount(value),
		Direction:         domain.Credit,
	}
}

func receivable(id string, kind domain.ReceivableKind, ref, value string, due time.Time) domain.Receivable {
	return domain.Receivable{
		ID:                id,
		AccountID:         "acc-1",
		Kind:              kind,
		ExternalReference: ref,
		Amount:            amount(value),
		DueDate:           due,
	}
}

// seedScenario loads one exact-id pair, one tolerance pair, one ambiguous entry and a
// debit.
func seedScenario(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	debit := credit("e4", "10.00", "", date(2024, 3, 21))
	debit.Direction = domain.Debit

	_, err := store.Statements().BulkCreate(ctx, []domain.BankStatementEntry{
		credit("e1", "150.00", "E12345", date(2024, 3, 10)),
		credit("e2", "500.01", "", date(2024, 3, 15)),
		credit("e3", "200.00", "", date(2024, 3, 20)),
		debit,
	})
	require.NoError(t, err)

	_, err = store.Receivables().BulkCreate(ctx, []domain.Receivable{
		receivable("r1", domain.KindPix, "E12345", "150.00", date(2024, 3, 10)),
		receivable("r2", domain.KindBoleto, "NN-2", "500.00", date(2024, 3, 14)),
		receivable("r3", domain.KindBoleto, "NN-3", "200.00", date(2024, 3, 20)),
		receivable("r4", domain.KindBoleto, "NN-4", "200.00", date(2024, 3, 20)),
	})
	require.NoError(t, err)
}
