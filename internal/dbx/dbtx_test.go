package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT k FROM kv ORDER BY k`)
	require.NoError(t, err)
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		out = append(out, k)
	}
	require.NoError(t, rows.Err())
	return out
}

func put(ctx context.Context, tx DBTX, k, v string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, k, v)
	return err
}

func TestWithTx(t *testing.T) {
	errStop := errors.New("stop")

	tests := []struct {
		name     string
		fn       func(ctx context.Context, tx DBTX) error
		wantErr  error
		wantKeys []string
	}{
		{
			name: "commits every statement",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := put(ctx, tx, "token", "tok123"); err != nil {
					return err
				}
				return put(ctx, tx, "last_username", "bob")
			},
			wantKeys: []string{"last_username", "token"},
		},
		{
			name: "error rolls back earlier statements",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := put(ctx, tx, "token", "tok123"); err != nil {
					return err
				}
				return errStop
			},
			wantErr:  errStop,
			wantKeys: []string{},
		},
		{
			name: "failing statement rolls back",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := put(ctx, tx, "token", "a"); err != nil {
					return err
				}
				return put(ctx, tx, "token", "b")
			},
			wantKeys: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openDB(t)
			err := WithTx(context.Background(), db, tt.fn)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case len(tt.wantKeys) == 0:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantKeys, keys(t, db))
		})
	}
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openDB(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, put(ctx, tx, "token", "tok123"))
			panic("kaput")
		})
	})
	assert.Empty(t, keys(t, db))
}

func TestWithTx_BeginFailure(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	require.ErrorContains(t, err, "begin tx")
	assert.False(t, called)
}
