// Package generator talks to the external proposal generator service. The
// service returns candidate months as JSON of unknown quality; callers are
// expected to run the result through the roster validator before trusting
// a single byte of it.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/roster"
	"github.com/adilevy/guide-roster-api/pkg/config"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

const maxResponseBytes = 4 << 20

// Client produces raw proposal payloads for a month or a single day.
type Client interface {
	GenerateMonth(ctx context.Context, snap *roster.Snapshot) ([]byte, error)
	GenerateDay(ctx context.Context, snap *roster.Snapshot, day time.Time) ([]byte, error)
}

// HTTPClient is the production Client backed by the generator's HTTP API.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	dayTimeout time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPClient builds a client from the generator configuration.
func NewHTTPClient(cfg config.GeneratorConfig, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		dayTimeout: cfg.DayTimeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// monthRequest is the outbound contract: the scheduling context the
// generator needs, flattened to plain JSON.
type monthRequest struct {
	Year          int                `json:"year"`
	Month         int                `json:"month"`
	Date          string             `json:"date,omitempty"`
	Guides        []requestGuide     `json:"guides"`
	BlockedDates  map[int64][]string `json:"blockedDates"`
	ClosedFridays []string           `json:"closedFridays"`
	ManualDates   []string           `json:"manualDates"`
}

type requestGuide struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenerateMonth requests a whole-month proposal.
func (c *HTTPClient) GenerateMonth(ctx context.Context, snap *roster.Snapshot) ([]byte, error) {
	return c.post(ctx, "/generate/month", buildRequest(snap, nil), c.timeout)
}

// GenerateDay requests a proposal for a single unresolved date.
func (c *HTTPClient) GenerateDay(ctx context.Context, snap *roster.Snapshot, day time.Time) ([]byte, error) {
	return c.post(ctx, "/generate/day", buildRequest(snap, &day), c.dayTimeout)
}

func buildRequest(snap *roster.Snapshot, day *time.Time) monthRequest {
	req := monthRequest{
		Year:         snap.Year,
		Month:        int(snap.Month),
		BlockedDates: make(map[int64][]string),
	}
	if day != nil {
		req.Date = roster.DayKey(*day)
	}
	for _, g := range snap.Guides {
		if !g.Active {
			continue
		}
		req.Guides = append(req.Guides, requestGuide{ID: g.ID, Name: g.Name})
	}
	for _, p := range snap.Personal {
		req.BlockedDates[p.GuideID] = append(req.BlockedDates[p.GuideID], roster.DayKey(p.Date))
	}
	for _, v := range snap.Vacations {
		if !v.Approved {
			continue
		}
		for d := v.Start; !d.After(v.End); d = d.AddDate(0, 0, 1) {
			req.BlockedDates[v.GuideID] = append(req.BlockedDates[v.GuideID], roster.DayKey(d))
		}
	}
	for friday, closed := range snap.ClosedWeekends {
		if closed {
			req.ClosedFridays = append(req.ClosedFridays, friday)
		}
	}
	for key := range snap.Manual {
		req.ManualDates = append(req.ManualDates, key)
	}
	return req
}

func (c *HTTPClient) post(ctx context.Context, path string, payload monthRequest, timeout time.Duration) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode generator request")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build generator request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("generator call failed",
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrGeneratorUnavailable.Code, appErrors.ErrGeneratorUnavailable.Status, "generator request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrGeneratorUnavailable.Code, appErrors.ErrGeneratorUnavailable.Status, "read generator response")
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("generator returned non-200",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, appErrors.Clone(appErrors.ErrGeneratorUnavailable, fmt.Sprintf("generator returned status %d", resp.StatusCode))
	}

	c.logger.Debug("generator call completed",
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(raw)))
	return raw, nil
}
