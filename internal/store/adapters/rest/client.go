package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
)

const (
	restPrefix = "/rest/v1/"
	rpcPrefix  = "/rest/v1/rpc/"
	maxBody    = 8 << 20
)

// Client habla con PostgREST usando la service key (bypassa RLS; el control
// de acceso lo hace el gate). Seguro para uso concurrente.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

// New crea el cliente. timeout <= 0 usa 10s.
func New(baseURL, serviceKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "postgrest" }
func (c *Client) Close() error { c.http.CloseIdleConnections(); return nil }

// apiError es el cuerpo de error de PostgREST.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// StatusError es una respuesta no-2xx.
type StatusError struct {
	Status int
	Code   string
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest: status %d (%s): %s", e.Status, e.Code, e.Msg)
	}
	return fmt.Sprintf("postgrest: status %d: %s", e.Status, e.Msg)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any, extra http.Header) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postgrest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("postgrest: read body: %w", err)
	}
	if resp.StatusCode >= 300 {
		se := &StatusError{Status: resp.StatusCode, Msg: strings.TrimSpace(string(data))}
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Message != "" {
			se.Code, se.Msg = ae.Code, ae.Message
		}
		return nil, se
	}
	return data, nil
}

func tablePath(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", fmt.Errorf("postgrest: empty table: %w", repository.ErrInvalidInput)
	}
	return restPrefix + url.PathEscape(table), nil
}

func decodeRows(data []byte) ([]repository.Row, error) {
	rows := []repository.Row{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("postgrest: decode rows: %w", err)
	}
	return rows, nil
}

// Get: GET /rest/v1/{table}?select=*&id=eq.{id}. Sin filas => ErrNotFound.
func (c *Client) Get(ctx context.Context, table, id string) (repository.Row, error) {
	p, err := tablePath(table)
	if err != nil {
		return nil, err
	}
	q := url.Values{"select": {"*"}, "id": {"eq." + id}}
	data, err := c.do(ctx, http.MethodGet, p, q, nil, nil)
	if err != nil {
		if isInvalidID(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return rows[0], nil
}

// GetAll: GET /rest/v1/{table}?select=*&order=id.asc
func (c *Client) GetAll(ctx context.Context, table string) ([]repository.Row, error) {
	p, err := tablePath(table)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, http.MethodGet, p, url.Values{"select": {"*"}, "order": {"id.asc"}}, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

// Update: PATCH /rest/v1/{table}?id=eq.{id} con Prefer: return=representation
// para detectar la ausencia de la fila.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) error {
	p, err := tablePath(table)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("postgrest: update without fields: %w", repository.ErrInvalidInput)
	}
	hdr := http.Header{"Prefer": {"return=representation"}}
	data, err := c.do(ctx, http.MethodPatch, p, url.Values{"id": {"eq." + id}}, fields, hdr)
	if err != nil {
		if isInvalidID(err) {
			return repository.ErrNotFound
		}
		return err
	}
	rows, err := decodeRows(data)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CallProcedure: POST /rest/v1/rpc/{name} con los argumentos como JSON.
func (c *Client) CallProcedure(ctx context.Context, name string, args map[string]any) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("postgrest: empty procedure: %w", repository.ErrInvalidInput)
	}
	if args == nil {
		args = map[string]any{}
	}
	_, err := c.do(ctx, http.MethodPost, rpcPrefix+url.PathEscape(name), nil, args, nil)
	if err != nil {
		var se *StatusError
		if asStatus(err, &se) && se.Status == http.StatusNotFound {
			return fmt.Errorf("%w: %v", repository.ErrProcedureUnavailable, err)
		}
		return err
	}
	return nil
}

// Ping consulta la raíz de la API. Cualquier respuesta < 500 cuenta como viva.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, restPrefix, nil, nil, nil)
	var se *StatusError
	if asStatus(err, &se) && se.Status < 500 {
		return nil
	}
	return err
}
