package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilevy/guide-roster-api/internal/roster"
	"github.com/adilevy/guide-roster-api/pkg/config"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

func generatorSnapshot() *roster.Snapshot {
	return &roster.Snapshot{
		Year:  2025,
		Month: time.August,
		Guides: []roster.Guide{
			{ID: 1, Name: "Avi", Active: true},
			{ID: 2, Name: "Ben", Active: true},
			{ID: 3, Name: "Inactive", Active: false},
		},
		Personal: []roster.PersonalBlock{
			{GuideID: 1, Date: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)},
		},
		Vacations: []roster.VacationSpan{
			{
				GuideID:  2,
				Start:    time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
				End:      time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC),
				Approved: true,
			},
			{
				GuideID:  1,
				Start:    time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
				End:      time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
				Approved: false,
			},
		},
		ClosedWeekends: map[string]bool{
			"2025-08-08": true,
			"2025-08-15": false,
		},
		Manual: map[string]roster.Assignment{
			"2025-08-06": {Date: time.Date(2025, 8, 6, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func newTestClient(baseURL string) *HTTPClient {
	return NewHTTPClient(config.GeneratorConfig{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		DayTimeout: 5 * time.Second,
	}, nil)
}

func TestGenerateMonthSendsSchedulingContext(t *testing.T) {
	var got monthRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate/month", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL).GenerateMonth(context.Background(), generatorSnapshot())
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), raw)

	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 8, got.Month)
	assert.Empty(t, got.Date)
	assert.Len(t, got.Guides, 2) // inactive guide excluded

	// Personal block plus the approved vacation span; pending ignored.
	assert.Equal(t, []string{"2025-08-10"}, got.BlockedDates[1])
	assert.Equal(t, []string{"2025-08-20", "2025-08-21"}, got.BlockedDates[2])

	assert.Equal(t, []string{"2025-08-08"}, got.ClosedFridays)
	assert.Equal(t, []string{"2025-08-06"}, got.ManualDates)
}

func TestGenerateDayCarriesDate(t *testing.T) {
	var got monthRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate/day", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	day := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)
	_, err := newTestClient(srv.URL).GenerateDay(context.Background(), generatorSnapshot(), day)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-04", got.Date)
}

func TestGenerateMonthNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateMonth(context.Background(), generatorSnapshot())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGeneratorUnavailable.Code, appErrors.FromError(err).Code)
}

func TestGenerateMonthUnreachable(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").GenerateMonth(context.Background(), generatorSnapshot())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGeneratorUnavailable.Code, appErrors.FromError(err).Code)
}
