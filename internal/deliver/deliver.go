// Package deliver posts generated records to an HTTP endpoint in batches,
// so freshly generated fixtures can seed a running API directly.
package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synthrec/synthrec/internal/generator"
)

const defaultBatchSize = 100

// Options controls delivery. BatchSize caps records per request; Headers
// are added to every request.
type Options struct {
	BatchSize int
	Headers   map[string]string
}

// Deliverer posts record batches over HTTP.
type Deliverer struct {
	client *http.Client
}

// New creates a Deliverer. A nil client gets a 30 second timeout default.
func New(client *http.Client) *Deliverer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Deliverer{client: client}
}

// Deliver posts the records to endpoint as JSON arrays, one request per
// batch, in order. It stops at the first failed batch; there are no
// retries, so a failure leaves earlier batches delivered.
func (d *Deliverer) Deliver(ctx context.Context, endpoint string, records []generator.Record, opts Options) error {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := d.post(ctx, endpoint, records[start:end], opts.Headers); err != nil {
			return fmt.Errorf("failed to deliver batch starting at record %d: %w", start, err)
		}
	}
	return nil
}

func (d *Deliverer) post(ctx context.Context, endpoint string, batch []generator.Record, headers map[string]string) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("endpoint returned %s: %s", resp.Status, detail)
	}
	return nil
}
