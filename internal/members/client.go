package members

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ExternalServiceError marks directory transport failures. Callers must
// surface these as service errors, never as "member not found".
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("members API %s failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// HTTPDirectory talks to the external Members API over HTTP. Calls run
// through a circuit breaker so a flapping directory does not hold every
// request for the full timeout.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHTTPDirectory(baseURL string, timeout time.Duration) *HTTPDirectory {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MembersAPICB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[Members] Circuit breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

func (d *HTTPDirectory) Lookup(ctx context.Context, externalID string) (*Member, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/"+externalID, nil)
		if err != nil {
			return nil, err
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return (*Member)(nil), nil
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}

		var m Member
		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	})
	if err != nil {
		return nil, &ExternalServiceError{Op: "lookup", Err: err}
	}
	return result.(*Member), nil
}

func (d *HTTPDirectory) Create(ctx context.Context, name, role string) (*Member, error) {
	payload, err := json.Marshal(map[string]string{"name": name, "role": role})
	if err != nil {
		return nil, err
	}

	result, err := d.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}

		var m Member
		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	})
	if err != nil {
		return nil, &ExternalServiceError{Op: "create", Err: err}
	}
	return result.(*Member), nil
}
