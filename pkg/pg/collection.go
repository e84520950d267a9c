package pg

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
	"github.com/dmitrymomot/textfix/pkg/reconcile"
)

// DefaultRetryInterval is the first connect backoff when none is configured.
const DefaultRetryInterval = 2 * time.Second

// DefaultIDColumn is the primary key column used when none is configured.
const DefaultIDColumn = "id"

// IDType is the SQL type of a table's primary key. It decides how cursors
// are bound as query arguments.
type IDType string

const (
	IDText   IDType = "text"
	IDBigint IDType = "bigint"
	IDUUID   IDType = "uuid"
)

// DB is the subset of *pgxpool.Pool used by Collection.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// CollectionConfig describes the table behind a reconcile target.
type CollectionConfig struct {
	Table    string
	IDColumn string
	IDType   IDType
}

// Collection implements reconcile.Store over one PostgreSQL table. Flat
// fields are read as text columns and structured fields as json or jsonb
// columns, which are read back as text and written with a ::jsonb cast.
type Collection struct {
	db     DB
	table  string
	idCol  string
	idType IDType
	qb     squirrel.StatementBuilderType
}

var _ reconcile.Store = (*Collection)(nil)

// NewCollection validates cfg and binds it to db.
func NewCollection(db DB, cfg CollectionConfig) (*Collection, error) {
	if db == nil {
		return nil, errors.Join(ErrInvalidCollection, errors.New("db is required"))
	}
	if cfg.Table == "" {
		return nil, errors.Join(ErrInvalidCollection, errors.New("table is required"))
	}
	if cfg.IDColumn == "" {
		cfg.IDColumn = DefaultIDColumn
	}
	switch cfg.IDType {
	case "":
		cfg.IDType = IDText
	case IDText, IDBigint, IDUUID:
	default:
		return nil, errors.Join(ErrInvalidCollection, fmt.Errorf("unsupported id type %q", cfg.IDType))
	}
	return &Collection{
		db:     db,
		table:  cfg.Table,
		idCol:  cfg.IDColumn,
		idType: cfg.IDType,
		qb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// ListPage returns up to q.Limit rows with an id greater than q.After,
// ordered by id.
func (c *Collection) ListPage(ctx context.Context, q reconcile.PageQuery) ([]reconcile.Record, error) {
	id := ident(c.idCol)
	cols := make([]string, 0, 1+len(q.Fields)+len(q.StructuredFields))
	cols = append(cols, id+"::text")
	for _, f := range q.Fields {
		cols = append(cols, ident(f))
	}
	for _, f := range q.StructuredFields {
		cols = append(cols, ident(f)+"::text")
	}

	sb := c.qb.Select(cols...).From(ident(c.table)).OrderBy(id)
	if len(q.Filter) > 0 {
		eq := make(squirrel.Eq, len(q.Filter))
		for k, v := range q.Filter {
			eq[ident(k)] = v
		}
		sb = sb.Where(eq)
	}
	if q.After != "" {
		after, err := c.bindID(q.After)
		if err != nil {
			return nil, err
		}
		sb = sb.Where(squirrel.Gt{id: after})
	}
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, errors.Join(ErrListFailed, err)
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, c.wrap(ErrListFailed, err)
	}
	defer rows.Close()

	var records []reconcile.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, c.wrap(ErrListFailed, err)
		}
		rec, err := c.toRecord(vals, q)
		if err != nil {
			return nil, errors.Join(ErrListFailed, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrap(ErrListFailed, err)
	}
	return records, nil
}

// UpdateByID writes the patch in a single UPDATE statement.
func (c *Collection) UpdateByID(ctx context.Context, id string, patch reconcile.Patch) error {
	if patch.Len() == 0 {
		return nil
	}
	key, err := c.bindID(id)
	if err != nil {
		return err
	}

	ub := c.qb.Update(ident(c.table))
	for _, f := range slices.Sorted(maps.Keys(patch.Fields)) {
		ub = ub.Set(ident(f), patch.Fields[f])
	}
	for _, f := range slices.Sorted(maps.Keys(patch.Structured)) {
		ub = ub.Set(ident(f), squirrel.Expr("?::jsonb", patch.Structured[f].String()))
	}
	query, args, err := ub.Where(squirrel.Eq{ident(c.idCol): key}).ToSql()
	if err != nil {
		return errors.Join(ErrUpdateFailed, err)
	}

	tag, err := c.db.Exec(ctx, query, args...)
	if err != nil {
		return c.wrap(ErrUpdateFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Join(ErrUpdateFailed, ErrRecordNotFound, fmt.Errorf("%s %s", c.table, id))
	}
	return nil
}

func (c *Collection) toRecord(vals []any, q reconcile.PageQuery) (reconcile.Record, error) {
	if want := 1 + len(q.Fields) + len(q.StructuredFields); len(vals) != want {
		return reconcile.Record{}, fmt.Errorf("expected %d columns, got %d", want, len(vals))
	}
	id, ok := vals[0].(string)
	if !ok || id == "" {
		return reconcile.Record{}, fmt.Errorf("%s: id column is empty", c.table)
	}

	rec := reconcile.Record{ID: id, Fields: make(map[string]jsonvalue.Value, len(vals)-1)}
	for i, f := range q.Fields {
		v, err := jsonvalue.FromAny(vals[1+i])
		if err != nil {
			return reconcile.Record{}, fmt.Errorf("%s.%s: %w", c.table, f, err)
		}
		rec.Fields[f] = v
	}
	for i, f := range q.StructuredFields {
		raw := vals[1+len(q.Fields)+i]
		if raw == nil {
			rec.Fields[f] = jsonvalue.Null()
			continue
		}
		text, ok := raw.(string)
		if !ok {
			return reconcile.Record{}, fmt.Errorf("%s.%s: unexpected %T for json column", c.table, f, raw)
		}
		v, err := jsonvalue.ParseString(text)
		if err != nil {
			return reconcile.Record{}, fmt.Errorf("%s.%s: %w", c.table, f, err)
		}
		rec.Fields[f] = v
	}
	return rec, nil
}

func (c *Collection) bindID(id string) (any, error) {
	switch c.idType {
	case IDBigint:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, errors.Join(ErrInvalidCursor, err)
		}
		return n, nil
	case IDUUID:
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, errors.Join(ErrInvalidCursor, err)
		}
		return u.String(), nil
	default:
		return id, nil
	}
}

func (c *Collection) wrap(sentinel, err error) error {
	err = errors.Join(sentinel, err)
	if IsRetryableError(err) {
		return retry.RetryableError(err)
	}
	return err
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
