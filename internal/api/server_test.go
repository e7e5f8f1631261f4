package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightops-pro/boxtrace/internal/adapters"
	"github.com/freightops-pro/boxtrace/internal/config"
	"github.com/freightops-pro/boxtrace/internal/demurrage"
	"github.com/freightops-pro/boxtrace/internal/tracking"
	"github.com/freightops-pro/boxtrace/models"
)

// stubAdapter answers lookups from a fixed script.
type stubAdapter struct {
	result *models.ContainerLookupResult
	err    error
}

func (s *stubAdapter) TrackContainer(ctx context.Context, containerNumber, portCode string) (*models.ContainerLookupResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAdapter) GetContainerEvents(ctx context.Context, containerNumber, portCode string, since *time.Time) ([]models.ContainerEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.ContainerEvent{
		{ContainerNumber: containerNumber, PortCode: portCode, EventType: "DISCHARGE", Timestamp: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
	}, nil
}

func (s *stubAdapter) GetVesselSchedule(ctx context.Context, vesselName, portCode string) ([]models.VesselSchedule, error) {
	return []models.VesselSchedule{}, nil
}

func (s *stubAdapter) TestConnection(ctx context.Context) bool { return true }

func (s *stubAdapter) Name() string { return "stub" }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8090},
		Lookup: config.LookupConfig{Timeout: 5 * time.Second},
		Security: config.SecurityConfig{
			RateLimit:      100,
			AllowedOrigins: []string{"*"},
		},
	}
}

// newTestServer wires a server over a registry with a single stubbed USLAX
// adapter.
func newTestServer(t *testing.T, cfg *config.Config, stub *stubAdapter) *Server {
	t.Helper()

	registry := adapters.NewRegistry()
	if stub != nil {
		registry.Register("USLAX", "APM", stub)
	}
	orchestrator := tracking.NewOrchestrator(registry,
		tracking.WithPortPriority([]string{"USLAX"}),
		tracking.WithTimeout(cfg.Lookup.Timeout),
	)
	return New(cfg, registry, orchestrator, demurrage.NewRuleTable())
}

func doJSON(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func availableResult(number string) *models.ContainerLookupResult {
	lfd := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	return &models.ContainerLookupResult{
		Success:         true,
		ContainerNumber: number,
		PortCode:        "USLAX",
		Terminal:        "APM",
		Status:          models.StatusAvailable,
		StatusText:      models.StatusAvailable.Description(),
		IsAvailable:     true,
		Holds:           []string{},
		LastFreeDay:     &lfd,
		CheckedAt:       time.Now().UTC(),
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "boxtrace", body["service"])
	assert.Equal(t, float64(1), body["adapters"])
}

func TestTrackContainer(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/containers/track",
		`{"container_number":"mscu 123-4567"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ContainerLookupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "USLAX", result.PortCode)
	assert.Equal(t, models.StatusAvailable, result.Status)
	assert.NotEmpty(t, result.TraceID)
}

// Lookup failures are still HTTP 200: the failure lives in the result body.
func TestTrackContainerNotFoundIsStill200(t *testing.T) {
	stub := &stubAdapter{err: &adapters.NotFoundError{ContainerNumber: "MSCU1234567", PortCode: "USLAX"}}
	s := newTestServer(t, testConfig(), stub)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/containers/track",
		`{"container_number":"MSCU1234567"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ContainerLookupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, models.StatusNotInNetwork, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestTrackContainerValidation(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/containers/track",
		`{"container_number":"bogus"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.FieldError, "ContainerNumber")
}

func TestTrackContainerMalformedBody(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/containers/track", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentTypeEnforcement(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/containers/track",
		strings.NewReader(`{"container_number":"MSCU1234567"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Security.APIKeys = []string{"valid-key"}
	s := newTestServer(t, cfg, &stubAdapter{result: availableResult("MSCU1234567")})

	body := `{"container_number":"MSCU1234567"}`

	rec := doJSON(t, s, http.MethodPost, "/api/v1/containers/track", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/containers/track", body,
		map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/containers/track", body,
		map[string]string{"X-API-Key": "valid-key"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open regardless of API keys.
	rec = doJSON(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContainerEvents(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodGet, "/api/v1/containers/MSCU1234567/events?port_code=USLAX", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []models.ContainerEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "DISCHARGE", events[0].EventType)
}

func TestContainerEventsRequiresPort(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodGet, "/api/v1/containers/MSCU1234567/events", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContainerEventsBadSince(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodGet, "/api/v1/containers/MSCU1234567/events?port_code=USLAX&since=yesterday", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPorts(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodGet, "/api/v1/ports", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ports []PortInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ports))
	require.Len(t, ports, 1)
	assert.Equal(t, "USLAX", ports[0].PortCode)
	assert.Equal(t, []string{"APM"}, ports[0].Terminals)
}

func TestPortRules(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubAdapter{result: availableResult("MSCU1234567")})

	rec := doJSON(t, s, http.MethodGet, "/api/v1/ports/uslax/rules", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PortRulesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "USLAX", resp.PortCode)
	assert.Equal(t, 4, resp.Rules.PortFreeDays)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/ports/LA/rules", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateDemurrage(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	// USORF has no tariff override, so the defaults (5 free days, weekends
	// and holidays excluded) apply. Discharge Friday 2024-03-01 puts the LFD
	// on Friday 2024-03-08; outgating Tuesday 2024-03-12 leaves two
	// chargeable demurrage days, and the empty return lands inside the
	// per-diem free window.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/demurrage/calculate", `{
		"container_number": "MSCU1234567",
		"port_code": "USORF",
		"discharge_date": "2024-03-01",
		"outgate_date": "2024-03-12",
		"empty_return_date": "2024-03-14"
	}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var calc models.DemurrageCalculation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &calc))
	require.NotNil(t, calc.LastFreeDay)
	assert.Equal(t, "2024-03-08", calc.LastFreeDay.Format("2006-01-02"))
	assert.Equal(t, 2, calc.DemurrageDays)
	assert.Equal(t, 300.0, calc.DemurrageAmount)
	assert.Equal(t, 0, calc.PerDiemDays)
	assert.Equal(t, 300.0, calc.TotalAmount)
	assert.True(t, calc.IsIncurringCharges)
}

func TestCalculateDemurrageValidation(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	// Missing discharge date.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/demurrage/calculate",
		`{"container_number":"MSCU1234567","port_code":"USLAX"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unparseable date.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/demurrage/calculate",
		`{"container_number":"MSCU1234567","port_code":"USLAX","discharge_date":"last tuesday"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckDemurrage(t *testing.T) {
	result := availableResult("MSCU1234567")
	reported := 555.0
	result.DemurrageAmount = &reported
	s := newTestServer(t, testConfig(), &stubAdapter{result: result})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/demurrage/check",
		`{"container_number":"MSCU1234567","port_code":"USLAX"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DemurrageCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Lookup)
	assert.True(t, resp.Lookup.Success)
	require.NotNil(t, resp.Calculation)
	assert.Equal(t, 555.0, resp.Calculation.DemurrageAmount)
	assert.True(t, resp.Calculation.IsIncurringCharges)
}

func TestCheckDemurrageFailedLookupHasNoCalculation(t *testing.T) {
	stub := &stubAdapter{err: &adapters.NotFoundError{ContainerNumber: "MSCU1234567", PortCode: "USLAX"}}
	s := newTestServer(t, testConfig(), stub)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/demurrage/check",
		`{"container_number":"MSCU1234567","port_code":"USLAX"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DemurrageCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Lookup.Success)
	assert.Nil(t, resp.Calculation)
}
