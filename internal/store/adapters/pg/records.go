package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
)

// Códigos SQLSTATE que el store traduce.
const (
	sqlstateInvalidText       = "22P02" // id con formato inválido para la columna (ej: uuid)
	sqlstateUndefinedFunction = "42883"
)

// Conn es un repository.RecordStore sobre un pool compartido.
type Conn struct {
	pool *pgxpool.Pool
}

// New envuelve un pool existente. El pool pertenece al caller hasta Close.
func New(pool *pgxpool.Pool) *Conn { return &Conn{pool: pool} }

func (c *Conn) Name() string                   { return "postgres" }
func (c *Conn) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *Conn) Close() error {
	c.pool.Close()
	return nil
}

// Pool expone el pool para el Migrator.
func (c *Conn) Pool() *pgxpool.Pool { return c.pool }

// ident sanitiza "tabla" o "schema.tabla" como identificador.
func ident(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("pg: empty identifier: %w", repository.ErrInvalidInput)
	}
	return pgx.Identifier(strings.Split(name, ".")).Sanitize(), nil
}

// Get devuelve la fila como objeto JSON, conservando todas las columnas.
func (c *Conn) Get(ctx context.Context, table, id string) (repository.Row, error) {
	t, err := ident(table)
	if err != nil {
		return nil, err
	}
	query := `SELECT to_jsonb(t) FROM ` + t + ` t WHERE id = $1`

	var raw []byte
	err = c.pool.QueryRow(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isCode(err, sqlstateInvalidText) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("pg: get %s: %w", table, err)
	}
	return decodeRow(raw)
}

// GetAll devuelve todas las filas, sin paginar.
func (c *Conn) GetAll(ctx context.Context, table string) ([]repository.Row, error) {
	t, err := ident(table)
	if err != nil {
		return nil, err
	}
	rows, err := c.pool.Query(ctx, `SELECT to_jsonb(t) FROM `+t+` t ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pg: list %s: %w", table, err)
	}
	defer rows.Close()

	out := []repository.Row{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		r, err := decodeRow(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Update aplica fields sobre la fila id. Sin filas afectadas => ErrNotFound.
func (c *Conn) Update(ctx context.Context, table, id string, fields map[string]any) error {
	t, err := ident(table)
	if err != nil {
		return err
	}
	query, args, err := buildUpdate(t, id, fields)
	if err != nil {
		return err
	}

	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		if isCode(err, sqlstateInvalidText) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("pg: update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CallProcedure ejecuta SELECT name(arg => $n, ...) con argumentos nombrados.
// Una función inexistente devuelve ErrProcedureUnavailable.
func (c *Conn) CallProcedure(ctx context.Context, name string, args map[string]any) error {
	fn, err := ident(name)
	if err != nil {
		return err
	}
	query, params := buildCall(fn, args)

	if _, err := c.pool.Exec(ctx, query, params...); err != nil {
		if isCode(err, sqlstateUndefinedFunction) {
			return fmt.Errorf("pg: %s: %w", name, repository.ErrProcedureUnavailable)
		}
		return fmt.Errorf("pg: call %s: %w", name, err)
	}
	return nil
}

// buildUpdate arma el UPDATE con columnas en orden estable.
func buildUpdate(table, id string, fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("pg: update without fields: %w", repository.ErrInvalidInput)
	}
	cols := sortedKeys(fields)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		args = append(args, fields[col])
		fmt.Fprintf(&sb, "%s = $%d", pgx.Identifier{col}.Sanitize(), len(args))
	}
	args = append(args, id)
	fmt.Fprintf(&sb, " WHERE id = $%d", len(args))
	return sb.String(), args, nil
}

func buildCall(fn string, args map[string]any) (string, []any) {
	keys := sortedKeys(args)
	parts := make([]string, 0, len(keys))
	params := make([]any, 0, len(keys))
	for _, k := range keys {
		params = append(params, args[k])
		parts = append(parts, fmt.Sprintf("%s => $%d", pgx.Identifier{k}.Sanitize(), len(params)))
	}
	return "SELECT " + fn + "(" + strings.Join(parts, ", ") + ")", params
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func decodeRow(raw []byte) (repository.Row, error) {
	var r repository.Row
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("pg: decode row: %w", err)
	}
	return r, nil
}

func isCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
