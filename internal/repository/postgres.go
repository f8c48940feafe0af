package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype/zeronull"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

const pgUniqueViolation = "23505"

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		db: pool,
	}
}

func (r *Postgres) CreateOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	o.Version = 1

	sql, args, err := sq.Insert("orders").
		Columns(orderColumns...).
		Values(orderValues(o)...).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return entity.Order{}, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return entity.Order{}, fmt.Errorf("order %s: %w", o.ID, entity.ErrAlreadyExists)
		}

		return entity.Order{}, err
	}

	return o, nil
}

func (r *Postgres) Order(ctx context.Context, id string) (entity.Order, error) {
	q := selectOrder + " WHERE id = $1"
	return scanOrder(r.db.QueryRow(ctx, q, id))
}

// UpdateOrder stores o if the stored version still equals expectedVersion.
func (r *Postgres) UpdateOrder(ctx context.Context, o entity.Order, expectedVersion int64) (entity.Order, error) {
	o.Version = expectedVersion + 1

	values := orderValues(o)
	set := make(map[string]any, len(orderColumns))

	for i, col := range orderColumns {
		if col == "id" || col == "created_at" {
			continue
		}

		set[col] = values[i]
	}

	sql, args, err := sq.Update("orders").
		SetMap(set).
		Where(sq.Eq{"id": o.ID, "version": expectedVersion}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return entity.Order{}, err
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return entity.Order{}, err
	}

	if result.RowsAffected() == 0 {
		var exists bool

		err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, o.ID).Scan(&exists)
		if err != nil {
			return entity.Order{}, err
		}

		if !exists {
			return entity.Order{}, fmt.Errorf("order %s: %w", o.ID, entity.ErrNotFound)
		}

		return entity.Order{}, fmt.Errorf("order %s version %d: %w", o.ID, expectedVersion, entity.ErrConflict)
	}

	return o, nil
}

func (r *Postgres) Orders(ctx context.Context, f entity.OrderFilter) ([]entity.Order, int, error) {
	stmt := sq.Select(append(slices.Clone(orderColumns), "COUNT(*) OVER() AS total_count")...).
		From("orders").
		PlaceholderFormat(sq.Dollar)

	if f.Page == 0 {
		f.Page = 1
	}

	stmt = applyOrderFilter(stmt, f).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		OrderBy(fmt.Sprintf("created_at %s", f.OrderBy))

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]entity.Order, 0, f.Limit)

	var totalCount int

	for rows.Next() {
		o, count, err := scanOrderWithCount(rows)
		if err != nil {
			return nil, 0, err
		}

		totalCount = count

		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, totalCount, nil
}

func (r *Postgres) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func applyOrderFilter(stmt sq.SelectBuilder, f entity.OrderFilter) sq.SelectBuilder {
	if f.Status != nil {
		stmt = stmt.Where(sq.Eq{"status": *f.Status})
	}

	if f.FiscalStatus != nil {
		stmt = stmt.Where(sq.Eq{"fiscal_status": *f.FiscalStatus})
	}

	if f.CreatedFrom != nil {
		stmt = stmt.Where(sq.GtOrEq{"created_at": *f.CreatedFrom})
	}

	if f.CreatedTo != nil {
		stmt = stmt.Where(sq.Lt{"created_at": *f.CreatedTo})
	}

	return stmt
}

func orderValues(o entity.Order) []any {
	return []any{
		o.ID,
		o.TourID,
		o.TourName,
		o.Price,
		zeronull.Text(o.UserID),
		o.UserName,
		o.UserPhone,
		o.Status,
		zeronull.Text(o.ClickTransID),
		zeronull.Text(o.ClickPaydocID),
		o.PreparedAt,
		o.PaidAt,
		o.CancelledAt,
		o.FiscalStatus,
		zeronull.Text(o.FiscalQRCodeURL),
		zeronull.Text(o.FiscalError),
		o.FiscalizedAt,
		o.Version,
		o.CreatedAt,
		o.UpdatedAt,
	}
}

func orderDest(o *entity.Order) []any {
	return []any{
		&o.ID,
		&o.TourID,
		&o.TourName,
		&o.Price,
		(*zeronull.Text)(&o.UserID),
		&o.UserName,
		&o.UserPhone,
		&o.Status,
		(*zeronull.Text)(&o.ClickTransID),
		(*zeronull.Text)(&o.ClickPaydocID),
		&o.PreparedAt,
		&o.PaidAt,
		&o.CancelledAt,
		&o.FiscalStatus,
		(*zeronull.Text)(&o.FiscalQRCodeURL),
		(*zeronull.Text)(&o.FiscalError),
		&o.FiscalizedAt,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}

func scanOrder(row pgx.Row) (o entity.Order, err error) {
	err = row.Scan(orderDest(&o)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Order{}, entity.ErrNotFound
		}

		return entity.Order{}, err
	}

	return o, nil
}

func scanOrderWithCount(row pgx.Row) (o entity.Order, count int, err error) {
	err = row.Scan(append(orderDest(&o), &count)...)
	if err != nil {
		return entity.Order{}, 0, err
	}

	return o, count, nil
}
