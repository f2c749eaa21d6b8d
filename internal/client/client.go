package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/ppltracker/internal/workouts"
)

const (
	// DefaultCacheFreshness is the window within which GetWorkouts
	// serves the cached collection without touching the network.
	DefaultCacheFreshness = 30 * time.Second
	// DefaultRequestTimeout bounds every single request to the backend.
	DefaultRequestTimeout = 10 * time.Second

	// SharedUserID tags saved workouts so all devices see the same data.
	SharedUserID = "shared"
)

var (
	// ErrServerUnreachable marks transport-level failures, as opposed to
	// application-level rejections which come back as *APIError.
	ErrServerUnreachable = errors.New("cannot connect to server")
	ErrWorkoutNotFound   = errors.New("workout not found")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// Client is the single point of truth for reading and writing the
// workout collection, shielding its callers from transient backend
// failures with a short-lived read cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      recordsCache
	freshness  time.Duration
	timeout    time.Duration
}

type Params struct {
	// BaseURL of the API, e.g. "http://localhost:3001/api".
	BaseURL string
	// HTTPClient overrides the default traced client.
	HTTPClient *http.Client
	// CacheFreshness and RequestTimeout fall back to the defaults when 0.
	CacheFreshness time.Duration
	RequestTimeout time.Duration
}

func New(params Params) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	freshness := params.CacheFreshness
	if freshness == 0 {
		freshness = DefaultCacheFreshness
	}
	timeout := params.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	return &Client{
		baseURL:    strings.TrimSuffix(params.BaseURL, "/"),
		httpClient: httpClient,
		freshness:  freshness,
		timeout:    timeout,
	}
}

// GetWorkouts returns the full collection, sorted descending by date.
// A cache entry younger than the freshness window is served directly
// unless forceRefresh is set. On any fetch failure the last cached
// value is returned (even if stale), else an empty collection — this
// call never fails its caller.
func (c *Client) GetWorkouts(ctx context.Context, forceRefresh bool) []workouts.Workout {
	if !forceRefresh {
		if cached, ok := c.cache.fresh(c.freshness); ok {
			log.Tracef("workouts client: serving %d cached workouts", len(cached))
			return cached
		}
	}

	fetched, err := c.fetchWorkouts(ctx)
	if err != nil {
		log.Warnf("workouts client: fetch failed: %s", err)
		if cached, ok := c.cache.stale(); ok {
			log.Debugf("workouts client: falling back to %d stale cached workouts", len(cached))
			return cached
		}
		return []workouts.Workout{}
	}

	sort.SliceStable(fetched, func(i, j int) bool {
		return fetched[i].Date > fetched[j].Date
	})

	c.cache.set(fetched)
	return fetched
}

func (c *Client) fetchWorkouts(ctx context.Context) ([]workouts.Workout, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/workouts", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get workouts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get workouts: status %d", resp.StatusCode)
	}

	var all []workouts.Workout
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		// a non-array body is tolerated as an empty collection,
		// without poisoning the cache
		log.Warnf("workouts client: non-array response, using empty collection: %s", err)
		return []workouts.Workout{}, nil
	}
	if all == nil {
		all = []workouts.Workout{}
	}
	return all, nil
}

// SaveWorkout persists a new workout. The server assigns id and
// created_at. The read cache is invalidated on success.
func (c *Client) SaveWorkout(ctx context.Context, workout workouts.Workout) (*workouts.Workout, error) {
	workout.UserID = SharedUserID

	var saved workouts.Workout
	if err := c.doJSON(ctx, http.MethodPost, "/workouts", workout, http.StatusCreated, &saved); err != nil {
		return nil, err
	}

	c.cache.invalidate()
	log.Debugf("workouts client: saved workout %s [%s %s]", saved.ID, saved.Date, saved.Type)
	return &saved, nil
}

// UpdateWorkout shallow-merges the set fields of params into the stored
// workout. Returns ErrWorkoutNotFound when the id is unknown.
func (c *Client) UpdateWorkout(ctx context.Context, id string, params workouts.UpdateParams) (*workouts.Workout, error) {
	var updated workouts.Workout
	if err := c.doJSON(ctx, http.MethodPut, "/workouts/"+id, params, http.StatusOK, &updated); err != nil {
		return nil, err
	}

	c.cache.invalidate()
	return &updated, nil
}

// DeleteWorkout removes the workout with the given id. Returns
// ErrWorkoutNotFound when the id is unknown.
func (c *Client) DeleteWorkout(ctx context.Context, id string) (*workouts.DeleteWorkoutResponse, error) {
	var confirmation workouts.DeleteWorkoutResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/workouts/"+id, nil, http.StatusOK, &confirmation); err != nil {
		return nil, err
	}

	c.cache.invalidate()
	return &confirmation, nil
}

func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	payload any,
	wantStatus int,
	response any,
) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		payloadJson, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(payloadJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrWorkoutNotFound
	}
	if resp.StatusCode != wantStatus {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if response == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
