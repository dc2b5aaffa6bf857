package postgres

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerValidatesTableName(t *testing.T) {
	// sql.Open does not dial, so no server is needed.
	db, err := sql.Open("pgx", "postgres://localhost/none")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"entries; DROP TABLE x", "1abc", "history-entries", "public.history", `"quoted"`} {
		_, err := NewLedger(db, WithTable(table))
		assert.ErrorIs(t, err, ErrInvalidTable, table)
	}

	for _, table := range []string{"", "history_entries_test_1", "_Archive"} {
		ledger, err := NewLedger(db, WithTable(table))
		require.NoError(t, err, table)
		assert.NotNil(t, ledger)
	}

	_, err = NewLedger(nil)
	assert.Error(t, err)
}
