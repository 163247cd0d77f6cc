package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/dbx"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get reads addr and locks its row until the surrounding transaction ends,
// so the version seen here stays current for the rest of the request.
func (r *PostgresRepository) Get(ctx context.Context, addr pubkey.Address) (*ledger.Account, error) {
	query :=
		`SELECT owner, lamports, data, version FROM accounts
		 WHERE address = $1
		 FOR UPDATE
		 `

	var owner, lamports string
	acc := &ledger.Account{Address: addr}
	err := r.db.QueryRowContext(ctx, query, addr.String()).Scan(&owner, &lamports, &acc.Data, &acc.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", addr, common.ErrorNotFound)
		}
		return nil, dbError(err)
	}

	if acc.Owner, err = pubkey.Parse(owner); err != nil {
		return nil, fmt.Errorf("account %s owner: %w", addr, err)
	}
	if acc.Lamports, err = strconv.ParseUint(lamports, 10, 64); err != nil {
		return nil, fmt.Errorf("account %s lamports: %w", addr, err)
	}
	return acc, nil
}

// Put inserts a new account (Version zero) or updates one whose stored
// version still equals acc.Version.
func (r *PostgresRepository) Put(ctx context.Context, acc *ledger.Account) error {
	var (
		res sql.Result
		err error
	)
	lamports := strconv.FormatUint(acc.Lamports, 10)
	data := acc.Data
	if data == nil {
		data = []byte{}
	}

	if acc.Version == 0 {
		query :=
			`INSERT INTO accounts (address, owner, lamports, data, version)
			 VALUES ($1, $2, $3, $4, 1)
			 ON CONFLICT (address) DO NOTHING
			 `
		res, err = r.db.ExecContext(ctx, query, acc.Address.String(), acc.Owner.String(), lamports, data)
	} else {
		query :=
			`UPDATE accounts SET owner = $2, lamports = $3, data = $4, version = version + 1
			 WHERE address = $1 AND version = $5
			 `
		res, err = r.db.ExecContext(ctx, query, acc.Address.String(), acc.Owner.String(), lamports, data, acc.Version)
	}
	if err != nil {
		return dbError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: account %s at version %d", common.ErrVersionConflict, acc.Address, acc.Version)
	}

	acc.Version++
	return nil
}

// dbError reports lock conflicts between concurrent requests as version
// conflicts so the losing request is rejected like any other stale write.
func dbError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", common.ErrVersionConflict, pgErr.Message)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
