// Package postgres provides a PostgreSQL implementation of ledger.Ledger.
// It uses pgx/v5 for connection pooling.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modelfan/modelfan-go/pkg/ledger"
)

// Ledger is a PostgreSQL-backed usage ledger.
type Ledger struct {
	pool *pgxpool.Pool
}

// Ensure Ledger implements ledger.Ledger at compile time.
var _ ledger.Ledger = (*Ledger)(nil)

// New creates a PostgreSQL ledger with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Ledger, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	l := &Ledger{pool: pool}

	if cfg.MigrateOnStart {
		if err := l.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return l, nil
}

// Record persists a usage entry.
func (l *Ledger) Record(ctx context.Context, e *ledger.Entry) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO ledger_entries (
			id, label, model,
			prompt_tokens, completion_tokens, total_tokens,
			price_input, price_output, price_total,
			words_input, words_output, words_total,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		e.ID, e.Label, e.Model,
		e.Usage.PromptTokens, e.Usage.CompletionTokens, e.Usage.TotalTokens,
		e.Price.Input, e.Price.Output, e.Price.Total,
		e.Words.Input, e.Words.Output, e.Words.Total,
		e.CreatedAt,
	)

	if err != nil {
		if isDuplicateKey(err) {
			return ledger.ErrConflict
		}
		return fmt.Errorf("inserting ledger entry: %w", err)
	}

	return nil
}

const entryColumns = `
	id, label, model,
	prompt_tokens, completion_tokens, total_tokens,
	price_input, price_output, price_total,
	words_input, words_output, words_total,
	created_at
`

// Get retrieves an entry by ID.
func (l *Ledger) Get(ctx context.Context, id string) (*ledger.Entry, error) {
	row := l.pool.QueryRow(ctx,
		"SELECT "+entryColumns+" FROM ledger_entries WHERE id = $1", id)

	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying ledger entry: %w", err)
	}
	return e, nil
}

// List returns entries matching opts, newest first.
func (l *Ledger) List(ctx context.Context, opts ledger.ListOptions) ([]*ledger.Entry, error) {
	query := "SELECT " + entryColumns + " FROM ledger_entries"
	where, args := filterClause(opts)
	query += where

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []*ledger.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger entries: %w", err)
	}
	return entries, nil
}

// Totals aggregates over entries matching opts.
func (l *Ledger) Totals(ctx context.Context, opts ledger.ListOptions) (*ledger.Totals, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total_tokens), 0), COALESCE(SUM(price_total), 0)
		FROM ledger_entries
	`
	where, args := filterClause(opts)
	query += where

	var totals ledger.Totals
	err := l.pool.QueryRow(ctx, query, args...).Scan(
		&totals.Entries, &totals.TotalTokens, &totals.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("aggregating ledger entries: %w", err)
	}
	return &totals, nil
}

// HealthCheck verifies the database connection.
func (l *Ledger) HealthCheck(ctx context.Context) error {
	return l.pool.Ping(ctx)
}

// Close releases the connection pool.
func (l *Ledger) Close() error {
	l.pool.Close()
	return nil
}

// filterClause builds a WHERE clause for the Model/Label filters.
func filterClause(opts ledger.ListOptions) (string, []any) {
	var conds []string
	var args []any

	if opts.Model != "" {
		args = append(args, opts.Model)
		conds = append(conds, fmt.Sprintf("model = $%d", len(args)))
	}
	if opts.Label != "" {
		args = append(args, opts.Label)
		conds = append(conds, fmt.Sprintf("label = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanEntry reads one ledger entry from a row in entryColumns order.
func scanEntry(row pgx.Row) (*ledger.Entry, error) {
	var e ledger.Entry
	err := row.Scan(
		&e.ID, &e.Label, &e.Model,
		&e.Usage.PromptTokens, &e.Usage.CompletionTokens, &e.Usage.TotalTokens,
		&e.Price.Input, &e.Price.Output, &e.Price.Total,
		&e.Words.Input, &e.Words.Output, &e.Words.Total,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
