package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"salleYaFloor/internal/modules/reservations/application/port"
	"salleYaFloor/internal/modules/reservations/domain"
	"salleYaFloor/internal/shared/httputil"
	"salleYaFloor/internal/shared/normalization"
)

const reservationsResource = "/rest/v1/reservations"

// StoreHTTPClient implements the ReservationStore port against the remote
// PostgREST-style reservation store. Rows cross this boundary as loosely
// typed maps and leave it as canonical domain reservations.
type StoreHTTPClient struct {
	rest    *httputil.RESTClient
	apiKey  string
	timeout time.Duration
}

func NewStoreHTTPClient(baseURL, apiKey string, timeout time.Duration, client *http.Client) *StoreHTTPClient {
	return &StoreHTTPClient{
		rest:    httputil.NewRESTClient(baseURL, timeout, client),
		apiKey:  strings.TrimSpace(apiKey),
		timeout: httputil.TimeoutOrDefault(timeout),
	}
}

func (c *StoreHTTPClient) Create(ctx context.Context, input port.NewReservation) (domain.Reservation, error) {
	status := input.Status
	if status == domain.StatusUnknown {
		status = domain.StatusNew
	}
	row := map[string]any{
		"name":     strings.TrimSpace(input.Name),
		"email":    strings.TrimSpace(input.Email),
		"phone":    strings.TrimSpace(input.Phone),
		"date":     strings.TrimSpace(input.Date),
		"time":     strings.TrimSpace(input.Time),
		"guests":   input.Guests,
		"status":   string(status),
		"comments": strings.TrimSpace(input.Comments),
	}
	if len(input.Tables) > 0 {
		row["table_assignee"] = input.Tables[0]
		row["comments"] = domain.AppendTableTag(strings.TrimSpace(input.Comments), input.Tables)
	}
	rows, err := c.send(ctx, http.MethodPost, reservationsResource, nil, row)
	if err != nil {
		return domain.Reservation{}, err
	}
	return firstRow(rows)
}

func (c *StoreHTTPClient) Get(ctx context.Context, id int) (domain.Reservation, error) {
	query := url.Values{}
	query.Set("id", "eq."+strconv.Itoa(id))
	rows, err := c.send(ctx, http.MethodGet, reservationsResource, query, nil)
	if err != nil {
		return domain.Reservation{}, err
	}
	return firstRow(rows)
}

func (c *StoreHTTPClient) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Reservation, error) {
	query := url.Values{}
	query.Set("status", "eq."+string(status))
	query.Set("order", "created_at.desc")
	return c.send(ctx, http.MethodGet, reservationsResource, query, nil)
}

func (c *StoreHTTPClient) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	query := url.Values{}
	query.Set("order", "created_at.desc")
	return c.send(ctx, http.MethodGet, reservationsResource, query, nil)
}

func (c *StoreHTTPClient) UpdateStatus(ctx context.Context, id int, status domain.Status, primaryTable *int, allTables []int) (domain.Reservation, error) {
	patch := map[string]any{"status": string(status)}
	switch {
	case primaryTable != nil:
		patch["table_assignee"] = *primaryTable
		// The schema has a single table column; the rest of the set rides
		// in a tag appended to the existing comment text. Read-modify-write:
		// the store offers nothing better than last-write-wins anyway.
		current, err := c.Get(ctx, id)
		if err != nil {
			return domain.Reservation{}, err
		}
		patch["comments"] = domain.AppendTableTag(current.Comments, allTables)
	case !status.Active():
		// A table binding only exists while the reservation is seated or
		// expected; leaving the active states releases it, tag included.
		patch["table_assignee"] = nil
		current, err := c.Get(ctx, id)
		if err != nil {
			return domain.Reservation{}, err
		}
		if stripped := domain.StripTableTag(current.Comments); stripped != current.Comments {
			patch["comments"] = stripped
		}
	}
	if status == domain.StatusCancelled {
		patch["cancelled_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	return c.patch(ctx, id, patch)
}

func (c *StoreHTTPClient) UpdateContact(ctx context.Context, id int, update port.ContactUpdate) (domain.Reservation, error) {
	patch := map[string]any{}
	if update.Name != nil {
		patch["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		patch["email"] = strings.TrimSpace(*update.Email)
	}
	if update.Phone != nil {
		patch["phone"] = strings.TrimSpace(*update.Phone)
	}
	if len(patch) == 0 {
		return c.Get(ctx, id)
	}
	return c.patch(ctx, id, patch)
}

func (c *StoreHTTPClient) patch(ctx context.Context, id int, patch map[string]any) (domain.Reservation, error) {
	query := url.Values{}
	query.Set("id", "eq."+strconv.Itoa(id))
	rows, err := c.send(ctx, http.MethodPatch, reservationsResource, query, patch)
	if err != nil {
		return domain.Reservation{}, err
	}
	return firstRow(rows)
}

// send performs one store round trip and normalizes the response rows.
func (c *StoreHTTPClient) send(ctx context.Context, method, path string, query url.Values, body any) ([]domain.Reservation, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode store payload: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := c.rest.NewRequest(ctx, method, path, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("store request error", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, port.ErrReservationNotFound
	case res.StatusCode >= 500, res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		slog.Error("store unexpected status", slog.Int("status", res.StatusCode), slog.String("path", path), slog.String("body", strings.TrimSpace(string(snippet))))
		return nil, fmt.Errorf("%w: status %d", port.ErrStoreUnavailable, res.StatusCode)
	case res.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return nil, fmt.Errorf("store rejected %s %s: status %d: %s", method, path, res.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return decodeRows(res.Body)
}

func decodeRows(body io.Reader) ([]domain.Reservation, error) {
	var payload any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode store response: %w", err)
	}
	switch typed := payload.(type) {
	case []any:
		return domain.NormalizeReservationList(typed), nil
	case map[string]any:
		if items := normalization.AsInterfaceSlice(typed["items"]); items != nil {
			return domain.NormalizeReservationList(items), nil
		}
		if reservation, ok := domain.NormalizeReservation(normalization.MapFromPayload(typed)); ok {
			return []domain.Reservation{reservation}, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func firstRow(rows []domain.Reservation) (domain.Reservation, error) {
	if len(rows) == 0 {
		return domain.Reservation{}, port.ErrReservationNotFound
	}
	return rows[0], nil
}

var _ port.ReservationStore = (*StoreHTTPClient)(nil)
