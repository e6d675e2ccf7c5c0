// Package repository is the ledger store: append-only transaction and
// dividend records, cash balances and daily asset snapshots in Postgres.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/dokyun-kim/gorich/config"
	"github.com/dokyun-kim/gorich/internal/converter/dbConverter"
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/internal/model/dbModel"
	"github.com/dokyun-kim/gorich/utils"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ledgerTables is the whitelist for row-deletion maintenance commands.
var ledgerTables = map[string]struct{}{
	"transaction":   {},
	"dividend":      {},
	"current_asset": {},
}

type Postgres struct {
	db  *sqlx.DB
	cfg *config.Config
}

func NewPostgres(cfg *config.Config, db *sqlx.DB) *Postgres {
	return &Postgres{db: db, cfg: cfg}
}

func (r *Postgres) InsertTransaction(ctx context.Context, tx model.Transaction) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertTransaction"
	query := `
		INSERT INTO transaction(date, country, symbol, type, quantity, price, total_price_paid, total_price_paid_in_krw)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	slog.Debug("InsertTransaction start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("transaction", tx))
	defer func() {
		if err != nil {
			slog.Error("InsertTransaction failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTransaction completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.db.ExecContext(
		ctx,
		query,
		tx.Date,
		tx.Country,
		tx.Symbol,
		string(tx.Type),
		tx.Quantity,
		tx.Price,
		tx.TotalPricePaid,
		tx.TotalPricePaidKRW,
	)
	return err
}

func (r *Postgres) GetTransactions(ctx context.Context) (txs []model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetTransactions"
	query := `
		SELECT id, date, country, symbol, type, quantity, price, total_price_paid, total_price_paid_in_krw
		FROM transaction
		ORDER BY date, id
	`

	slog.Debug("GetTransactions start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetTransactions failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTransactions completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbTx dbModel.Transaction
		err = rows.StructScan(&dbTx)
		if err != nil {
			return nil, err
		}
		txs = append(txs, dbConverter.ConvertTransaction(dbTx))
	}

	return txs, rows.Err()
}

func (r *Postgres) InsertDividend(ctx context.Context, div model.DividendRecord) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertDividend"
	query := `INSERT INTO dividend(date, symbol, dividend, currency) VALUES ($1, $2, $3, $4)`

	slog.Debug("InsertDividend start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("dividend", div))
	defer func() {
		if err != nil {
			slog.Error("InsertDividend failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertDividend completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.db.ExecContext(ctx, query, div.Date, div.Symbol, div.Dividend, div.Currency)
	return err
}

func (r *Postgres) GetDividends(ctx context.Context) (dividends []model.DividendRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetDividends"
	query := `SELECT id, date, symbol, dividend, currency FROM dividend ORDER BY date, id`

	slog.Debug("GetDividends start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetDividends failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetDividends completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbDiv dbModel.Dividend
		err = rows.StructScan(&dbDiv)
		if err != nil {
			return nil, err
		}
		dividends = append(dividends, dbConverter.ConvertDividend(dbDiv))
	}

	return dividends, rows.Err()
}

func (r *Postgres) GetCashBalances(ctx context.Context) (balances []model.CashBalance, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetCashBalances"
	query := `SELECT id, amount, currency FROM cash ORDER BY id`

	slog.Debug("GetCashBalances start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetCashBalances failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetCashBalances completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbCash dbModel.Cash
		err = rows.StructScan(&dbCash)
		if err != nil {
			return nil, err
		}
		balances = append(balances, dbConverter.ConvertCash(dbCash))
	}

	return balances, rows.Err()
}

func (r *Postgres) UpdateCash(ctx context.Context, currency string, amount decimal.Decimal) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateCash"
	query := `UPDATE cash SET amount = $1 WHERE currency = $2`

	slog.Debug("UpdateCash start", slog.String("rqID", rqID), slog.String("op", op), slog.String("currency", currency))
	defer func() {
		if err != nil {
			slog.Error("UpdateCash failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateCash completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := r.db.ExecContext(ctx, query, amount, currency)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Postgres) LatestAssetSnapshotDate(ctx context.Context) (date time.Time, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.LatestAssetSnapshotDate"
	query := `SELECT date FROM current_asset WHERE id = (SELECT MAX(id) FROM current_asset)`

	slog.Debug("LatestAssetSnapshotDate start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			slog.Error("LatestAssetSnapshotDate failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("LatestAssetSnapshotDate completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	err = r.db.QueryRowxContext(ctx, query).Scan(&date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}

	return date, nil
}

func (r *Postgres) InsertAssetSnapshot(ctx context.Context, snap model.AssetSnapshot) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertAssetSnapshot"
	query := `INSERT INTO current_asset(date, amount) VALUES ($1, $2)`

	slog.Debug("InsertAssetSnapshot start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("snapshot", snap))
	defer func() {
		if err != nil {
			slog.Error("InsertAssetSnapshot failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertAssetSnapshot completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.db.ExecContext(ctx, query, snap.Date, snap.Amount)
	return err
}

func (r *Postgres) GetAssetSnapshots(ctx context.Context) (snaps []model.AssetSnapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetAssetSnapshots"
	query := `SELECT id, date, amount FROM current_asset ORDER BY date, id`

	slog.Debug("GetAssetSnapshots start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetAssetSnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetAssetSnapshots completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbSnap dbModel.AssetSnapshot
		err = rows.StructScan(&dbSnap)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, dbConverter.ConvertAssetSnapshot(dbSnap))
	}

	return snaps, rows.Err()
}

func (r *Postgres) DeleteLastRow(ctx context.Context, table string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteLastRow"

	if _, ok := ledgerTables[table]; !ok {
		return ErrUnknownTable
	}

	// table is validated against the whitelist above, never interpolated raw
	query := `DELETE FROM "` + table + `" WHERE id = (SELECT MAX(id) FROM "` + table + `")`

	slog.Debug("DeleteLastRow start", slog.String("rqID", rqID), slog.String("op", op), slog.String("table", table))
	defer func() {
		if err != nil {
			slog.Error("DeleteLastRow failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteLastRow completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.db.ExecContext(ctx, query)
	return err
}

func (r *Postgres) DeleteAllRows(ctx context.Context, table string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteAllRows"

	if _, ok := ledgerTables[table]; !ok {
		return ErrUnknownTable
	}

	query := `DELETE FROM "` + table + `"`

	slog.Debug("DeleteAllRows start", slog.String("rqID", rqID), slog.String("op", op), slog.String("table", table))
	defer func() {
		if err != nil {
			slog.Error("DeleteAllRows failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteAllRows completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.db.ExecContext(ctx, query)
	return err
}
