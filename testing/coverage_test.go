package e2etesting

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverageTracker(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/a", ok)
	e.GET("/b", ok)
	e.GET("/skipped", ok)

	tracker := NewCoverageTracker()
	tracker.AddExcludePattern("/skipped")
	tracker.RegisterRoutes(e)
	e.Use(tracker.TrackingMiddleware())

	for range 2 {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/a", nil))
	}

	stats := tracker.GetStats()
	assert.Equal(t, 2, stats.TotalRoutes)
	assert.Equal(t, 1, stats.CoveredRoutes)
	assert.InDelta(t, 50.0, stats.Coverage, 0.01)
	require.Len(t, stats.MissingRoutes, 1)
	assert.Equal(t, "/b", stats.MissingRoutes[0].Path)

	assert.True(t, tracker.IsCovered(http.MethodGet, "/a"))
	covered := tracker.GetCoveredRoutes()
	require.Len(t, covered, 1)
	assert.Equal(t, 2, covered[0].HitCount)

	var report bytes.Buffer
	tracker.PrintReportTo(&report)
	assert.Contains(t, report.String(), "1/2 (50.0%)")
	assert.Contains(t, report.String(), "Missing:")
}
