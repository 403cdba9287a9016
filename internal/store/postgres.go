package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"galleryapi/internal/model"
)

// Adapter is a PostgreSQL-backed DocumentStore for one entity type. Each
// instance owns a single JSONB table ("collection") laid out as
// (id INT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY, doc JSONB NOT NULL).
// The stored document is the JSON serialization of the entity, identity
// included, so the table needs no per-type schema migration.
//
// Table names come from compile-time constants, never from user input.
type Adapter[E any, T model.Ptr[E, T]] struct {
	db    *sql.DB
	table string
}

// NewAdapter creates a document store adapter bound to the given table.
func NewAdapter[E any, T model.Ptr[E, T]](db *sql.DB, table string) *Adapter[E, T] {
	return &Adapter[E, T]{db: db, table: table}
}

var _ DocumentStore[*model.Rug] = (*Adapter[model.Rug, *model.Rug])(nil)

// GetAll returns every document in the collection. Ordering is store-defined.
func (a *Adapter[E, T]) GetAll(ctx context.Context) ([]T, error) {
	q := fmt.Sprintf(`SELECT doc FROM %s`, a.table)
	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, a.opErr("get_all", 0, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, a.opErr("get_all", 0, err)
		}
		e := T(new(E))
		if err := json.Unmarshal(raw, e); err != nil {
			return nil, a.opErr("get_all", 0, err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, a.opErr("get_all", 0, err)
	}
	return items, nil
}

// Get fetches a single document by identity.
func (a *Adapter[E, T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	q := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, a.table)

	var raw []byte
	if err := a.db.QueryRowContext(ctx, q, id).Scan(&raw); err != nil {
		return zero, a.opErr("get", id, err)
	}
	e := T(new(E))
	if err := json.Unmarshal(raw, e); err != nil {
		return zero, a.opErr("get", id, err)
	}
	return e, nil
}

// Save inserts a new document. When the instance carries no identity, the
// next value of the table's identity sequence is assigned before insert so
// the persisted JSON always embeds its own id.
func (a *Adapter[E, T]) Save(ctx context.Context, instance T) (T, error) {
	var zero T
	if instance.Identity() == 0 {
		var next int
		q := `SELECT nextval(pg_get_serial_sequence($1, 'id'))`
		if err := a.db.QueryRowContext(ctx, q, a.table).Scan(&next); err != nil {
			return zero, a.opErr("save", 0, err)
		}
		instance.SetIdentity(next)
	}

	raw, err := json.Marshal(instance)
	if err != nil {
		return zero, a.opErr("save", instance.Identity(), err)
	}

	q := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, a.table)
	if _, err := a.db.ExecContext(ctx, q, instance.Identity(), raw); err != nil {
		return zero, a.opErr("save", instance.Identity(), err)
	}
	return instance, nil
}

// Update loads the document, applies UpdateFrom(instance) and persists the
// mutated result.
func (a *Adapter[E, T]) Update(ctx context.Context, id int, instance T) (T, error) {
	return a.UpdateFunc(ctx, id, func(e T) T { return e.UpdateFrom(instance) })
}

// UpdateFunc applies mutate to a freshly loaded copy and persists the result.
func (a *Adapter[E, T]) UpdateFunc(ctx context.Context, id int, mutate func(T) T) (T, error) {
	var zero T
	existing, err := a.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	mutated := mutate(existing)
	raw, err := json.Marshal(mutated)
	if err != nil {
		return zero, a.opErr("update", id, err)
	}

	q := fmt.Sprintf(`UPDATE %s SET doc = $2 WHERE id = $1`, a.table)
	if _, err := a.db.ExecContext(ctx, q, id, raw); err != nil {
		return zero, a.opErr("update", id, err)
	}
	return mutated, nil
}

// Delete removes the document by identity and returns the deleted value.
func (a *Adapter[E, T]) Delete(ctx context.Context, id int) (T, error) {
	var zero T
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING doc`, a.table)

	var raw []byte
	if err := a.db.QueryRowContext(ctx, q, id).Scan(&raw); err != nil {
		return zero, a.opErr("delete", id, err)
	}
	e := T(new(E))
	if err := json.Unmarshal(raw, e); err != nil {
		return zero, a.opErr("delete", id, err)
	}
	return e, nil
}

func (a *Adapter[E, T]) opErr(op string, id int, err error) error {
	return &OpError{Collection: a.table, Op: op, ID: id, Err: translate(err)}
}

// translate maps driver-level failures to the store error taxonomy.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return ErrConflict
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception class
			return fmt.Errorf("%w: %s", ErrStoreUnavailable, pgErr.Code)
		}
		return err
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
