package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/fleetops/pingtop/model"
)

var log = logger.GetOrCreate("client")

// Query carries the time-range parameters shared by the stats and anomalies
// endpoints. HasSince is false for the unbounded range, in which case the
// since parameter is omitted and the server serves all retained history.
type Query struct {
	Since    int64
	HasSince bool
	Step     int
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.HasSince {
		v.Set("since", strconv.FormatInt(q.Since, 10))
	}
	v.Set("step", strconv.Itoa(q.Step))
	return v
}

// Client is a read-only HTTP client for the telemetry aggregation API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the given API origin with a request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Stats fetches the fleet-wide percentile time series.
func (c *Client) Stats(ctx context.Context, q Query) ([]model.PercentileSnapshot, error) {
	var out []model.PercentileSnapshot
	if err := c.getJSON(ctx, "/stats", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Anomalies fetches the anomalous-unit list, ranked by score descending.
func (c *Client) Anomalies(ctx context.Context, minRank int, q Query) ([]model.AnomalousUnit, error) {
	v := q.values()
	v.Set("min_rank", strconv.Itoa(minRank))
	var out []model.AnomalousUnit
	if err := c.getJSON(ctx, "/anomalies", v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnitHistory fetches the full retained history for one unit.
func (c *Client) UnitHistory(ctx context.Context, unitID string) ([]model.UnitSample, error) {
	var out []model.UnitSample
	path := "/history/" + url.PathEscape(unitID)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", "path", path, "error", err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errStatusNotOK(path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errMalformedBody(path, err)
	}
	return nil
}
