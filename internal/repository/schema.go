package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS payment_conditions (
	id                   UUID PRIMARY KEY,
	name                 TEXT NOT NULL,
	type                 TEXT NOT NULL,
	installment_count    INT NOT NULL,
	interval_days        INT NOT NULL DEFAULT 0,
	down_payment_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
	status               TEXT NOT NULL DEFAULT 'ACTIVE',
	revision             INT NOT NULL DEFAULT 1,
	installments         JSONB NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_conditions_name ON payment_conditions (lower(name));

CREATE TABLE IF NOT EXISTS sale_plans (
	sale_id             TEXT PRIMARY KEY,
	definition_id       UUID NOT NULL REFERENCES payment_conditions (id),
	definition_revision INT NOT NULL,
	definition_snapshot JSONB NOT NULL,
	total_amount        NUMERIC(18,2) NOT NULL,
	base_date           DATE NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sale_installments (
	sale_id  TEXT NOT NULL REFERENCES sale_plans (sale_id),
	number   INT NOT NULL,
	due_date DATE NOT NULL,
	amount   NUMERIC(18,2) NOT NULL,
	percent  NUMERIC(7,4) NOT NULL,
	status   TEXT NOT NULL DEFAULT 'OPEN',
	PRIMARY KEY (sale_id, number)
);

CREATE TABLE IF NOT EXISTS bank_statement_entries (
	id                     TEXT PRIMARY KEY,
	account_id             TEXT NOT NULL,
	entry_date             DATE NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	document_reference     TEXT NOT NULL DEFAULT '',
	amount                 NUMERIC(18,2) NOT NULL,
	direction              TEXT NOT NULL,
	reconciled             BOOLEAN NOT NULL DEFAULT FALSE,
	matched_receivable_ref TEXT,
	version                BIGINT NOT NULL DEFAULT 1,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_entries_account_open ON bank_statement_entries (account_id, entry_date) WHERE reconciled = FALSE;

CREATE TABLE IF NOT EXISTS receivables (
	id                 TEXT PRIMARY KEY,
	account_id         TEXT NOT NULL,
	kind               TEXT NOT NULL,
	external_reference TEXT NOT NULL DEFAULT '',
	amount             NUMERIC(18,2) NOT NULL,
	due_date           DATE NOT NULL,
	status             TEXT NOT NULL DEFAULT 'PENDING',
	version            BIGINT NOT NULL DEFAULT 1,
	settled_at         TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_receivables_account_pending ON receivables (account_id) WHERE status = 'PENDING';
CREATE INDEX IF NOT EXISTS idx_receivables_reference ON receivables (external_reference);

CREATE TABLE IF NOT EXISTS reconciliation_runs (
	id                 UUID PRIMARY KEY,
	account_id         TEXT NOT NULL,
	period_start       DATE NOT NULL,
	period_end         DATE NOT NULL,
	status             TEXT NOT NULL,
	total_entries      INT NOT NULL DEFAULT 0,
	auto_matched_count INT NOT NULL DEFAULT 0,
	pending_count      INT NOT NULL DEFAULT 0,
	failed_count       INT NOT NULL DEFAULT 0,
	pending            JSONB NOT NULL DEFAULT '[]',
	failures           JSONB NOT NULL DEFAULT '[]',
	started_at         TIMESTAMPTZ NOT NULL,
	finished_at        TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS reconciliation_matches (
	id            UUID PRIMARY KEY,
	run_id        UUID REFERENCES reconciliation_runs (id),
	entry_id      TEXT NOT NULL REFERENCES bank_statement_entries (id),
	receivable_id TEXT NOT NULL REFERENCES receivables (id),
	match_type    TEXT NOT NULL,
	confidence    NUMERIC(5,4) NOT NULL,
	amount_delta  NUMERIC(18,2) NOT NULL,
	date_delta    INT NOT NULL,
	operator_id   TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_entry ON reconciliation_matches (entry_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_receivable ON reconciliation_matches (receivable_id);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
