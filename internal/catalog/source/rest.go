package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ecomsuite/storefront/internal/catalog"
	pkgerrors "github.com/ecomsuite/storefront/pkg/errors"
)

// apiEnvelope matches the remote catalog API response shape.
type apiEnvelope[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// REST fetches the catalog from a remote HTTP backend.
type REST struct {
	baseURL string
	client  *http.Client
}

// NewREST builds a REST fetcher for the given API base URL.
func NewREST(baseURL string, timeout time.Duration) *REST {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch pulls products and categories from the remote backend.
func (r *REST) Fetch(ctx context.Context) (*Snapshot, error) {
	products, err := getJSON[[]catalog.Product](ctx, r.client, r.baseURL+"/products")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching products")
	}
	categories, err := getJSON[[]catalog.Category](ctx, r.client, r.baseURL+"/categories")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching categories")
	}
	return &Snapshot{Products: products, Categories: categories}, nil
}

func getJSON[T any](ctx context.Context, client *http.Client, url string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return zero, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var envelope apiEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return zero, fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return envelope.Data, nil
}
