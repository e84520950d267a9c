// Package pg connects textfix to PostgreSQL through pgx/v5.
//
// Connect opens a *pgxpool.Pool from Config (PG_* environment variables),
// retrying with exponential backoff. Collection adapts one table to the
// reconcile.Store contract:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	listings, err := pg.NewCollection(pool, pg.CollectionConfig{Table: "listings"})
//
// Pages are read with keyset pagination (WHERE id > $cursor ORDER BY id
// LIMIT n) built with squirrel. The id column is always read as text, so
// cursors are strings whatever the key type; IDType decides how a cursor is
// bound back into a query. JSON columns are read as text, parsed into
// jsonvalue.Value and written back with a ::jsonb cast.
//
// Transient failures (connection errors raised before a statement was sent,
// timeouts, serialization conflicts) are wrapped with retry.RetryableError
// so the reconciler's write retry policy picks them up.
package pg
