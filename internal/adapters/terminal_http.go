package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/freightops-pro/boxtrace/models"
)

// AuthScheme selects how a terminal API authenticates requests.
type AuthScheme string

const (
	AuthNone   AuthScheme = "none"
	AuthAPIKey AuthScheme = "api-key"
	AuthBasic  AuthScheme = "basic"
	AuthBearer AuthScheme = "bearer"
)

// FieldMap names the terminal's JSON field for each canonical field. Paths
// may be dotted to reach nested objects ("yardStatus.code"). An empty entry
// means the terminal does not expose that field.
type FieldMap struct {
	Status        string
	Available     string
	Holds         string
	VesselName    string
	VesselVoyage  string
	VesselETA     string
	DischargeDate string
	LastFreeDay   string
	EmptyReturnBy string
	OutgateDate   string
	Size          string
	ContainerType string
	CarrierSCAC   string
	Demurrage     string
}

// TerminalDescriptor is the small per-terminal parameterization that replaces
// a hand-written client class: base URL, auth scheme, endpoint paths, field
// names and the terminal's status vocabulary. One generic client (below)
// interprets it.
type TerminalDescriptor struct {
	PortCode string
	Terminal string
	Name     string
	BaseURL  string

	Auth         AuthScheme
	APIKeyHeader string // header for AuthAPIKey, defaults to X-API-Key
	TokenPath    string // token endpoint for AuthBearer

	TrackPath    string // {number} is replaced with the container number
	EventsPath   string // empty: terminal has no event history API
	SchedulePath string // empty: no vessel concept (rail ramps)
	PingPath     string

	Fields      FieldMap
	StatusVocab map[string]models.ContainerStatus

	RateLimit float64       // client-side requests/sec budget, 0 = unlimited
	Timeout   time.Duration // per-HTTP-call budget, defaults to 30s
}

// TerminalClient is the generic descriptor-driven REST adapter. It implements
// PortAdapter for every terminal whose API is plain JSON over HTTP, which is
// all of them in the current network.
//
// The auth token cache is scoped to the client instance, never global. The
// client refreshes a bearer token transparently before it expires.
type TerminalClient struct {
	desc    TerminalDescriptor
	creds   Credentials
	http    *resty.Client
	limiter *rate.Limiter

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// tokenRefreshSlack is how long before expiry a cached bearer token is
// considered stale.
const tokenRefreshSlack = time.Minute

// NewTerminalClient builds an adapter from a descriptor and injected
// credentials. No network call is made until the first operation.
func NewTerminalClient(desc TerminalDescriptor, creds Credentials) *TerminalClient {
	timeout := desc.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(desc.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	var limiter *rate.Limiter
	if desc.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(desc.RateLimit), 1)
	}

	return &TerminalClient{
		desc:    desc,
		creds:   creds,
		http:    httpClient,
		limiter: limiter,
	}
}

// Name identifies the adapter as port/terminal.
func (c *TerminalClient) Name() string {
	return fmt.Sprintf("%s/%s", c.desc.PortCode, c.desc.Terminal)
}

// Descriptor returns a copy of the descriptor the client was built from.
func (c *TerminalClient) Descriptor() TerminalDescriptor {
	return c.desc
}

// TrackContainer implements PortAdapter.
func (c *TerminalClient) TrackContainer(ctx context.Context, containerNumber, portCode string) (*models.ContainerLookupResult, error) {
	resp, err := c.get(ctx, strings.ReplaceAll(c.desc.TrackPath, "{number}", containerNumber), "track container")
	if err != nil {
		if nf, ok := err.(*NotFoundError); ok {
			nf.ContainerNumber = containerNumber
		}
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: "track container", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(payload) == 0 {
		// Some terminal APIs report an unknown container as an empty
		// 200 body instead of a 404.
		return nil, &NotFoundError{ContainerNumber: containerNumber, PortCode: c.desc.PortCode, Terminal: c.desc.Terminal}
	}

	return c.buildResult(containerNumber, payload), nil
}

// GetContainerEvents implements PortAdapter. Terminals without an event
// history endpoint return an empty history rather than an error.
func (c *TerminalClient) GetContainerEvents(ctx context.Context, containerNumber, portCode string, since *time.Time) ([]models.ContainerEvent, error) {
	if c.desc.EventsPath == "" {
		return []models.ContainerEvent{}, nil
	}

	resp, err := c.get(ctx, strings.ReplaceAll(c.desc.EventsPath, "{number}", containerNumber), "get events")
	if err != nil {
		if IsNotFound(err) {
			return []models.ContainerEvent{}, nil
		}
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: "get events", Err: fmt.Errorf("decode response: %w", err)}
	}

	events := make([]models.ContainerEvent, 0, len(raw))
	for _, entry := range raw {
		ts, ok := timeField(entry, "timestamp")
		if !ok {
			ts, _ = timeField(entry, "eventDate")
		}
		if since != nil && !ts.IsZero() && ts.Before(*since) {
			continue
		}
		events = append(events, models.ContainerEvent{
			ContainerNumber: containerNumber,
			PortCode:        c.desc.PortCode,
			Terminal:        c.desc.Terminal,
			EventType:       stringField(entry, "type"),
			Description:     stringField(entry, "description"),
			Location:        stringField(entry, "location"),
			Timestamp:       ts,
		})
	}
	return events, nil
}

// GetVesselSchedule implements PortAdapter. Adapters for rail ramps carry no
// schedule endpoint and always return an empty slice.
func (c *TerminalClient) GetVesselSchedule(ctx context.Context, vesselName, portCode string) ([]models.VesselSchedule, error) {
	if c.desc.SchedulePath == "" {
		return []models.VesselSchedule{}, nil
	}

	path := c.desc.SchedulePath
	if vesselName != "" {
		path += "?vessel=" + vesselName
	}
	resp, err := c.get(ctx, path, "get schedule")
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: "get schedule", Err: fmt.Errorf("decode response: %w", err)}
	}

	schedules := make([]models.VesselSchedule, 0, len(raw))
	for _, entry := range raw {
		sched := models.VesselSchedule{
			VesselName: stringField(entry, "vesselName"),
			Voyage:     stringField(entry, "voyage"),
			PortCode:   c.desc.PortCode,
			Terminal:   c.desc.Terminal,
			Berth:      stringField(entry, "berth"),
		}
		if eta, ok := timeField(entry, "eta"); ok {
			sched.ETA = &eta
		}
		if etd, ok := timeField(entry, "etd"); ok {
			sched.ETD = &etd
		}
		schedules = append(schedules, sched)
	}
	return schedules, nil
}

// TestConnection implements PortAdapter. Best effort: a terminal without a
// ping endpoint is assumed reachable.
func (c *TerminalClient) TestConnection(ctx context.Context) bool {
	if c.desc.PingPath == "" {
		return true
	}
	resp, err := c.http.R().SetContext(ctx).Get(c.desc.PingPath)
	return err == nil && resp.StatusCode() < 500
}

// get performs one authenticated GET and maps HTTP failures onto the typed
// error taxonomy.
func (c *TerminalClient) get(ctx context.Context, path, op string) (*resty.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: op, Err: err}
		}
	}

	req := c.http.R().SetContext(ctx)
	if err := c.authenticate(ctx, req); err != nil {
		return nil, err
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: op, Err: err}
	}

	switch code := resp.StatusCode(); {
	case code == 404:
		return nil, &NotFoundError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal}
	case code == 401 || code == 403:
		c.invalidateToken()
		return nil, &AuthenticationError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Reason: fmt.Sprintf("terminal returned HTTP %d", code)}
	case code == 429:
		return nil, &RateLimitError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"))}
	case code >= 400:
		return nil, &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: op, Err: fmt.Errorf("terminal returned HTTP %d", code)}
	}
	return resp, nil
}

// authenticate applies the descriptor's auth scheme to an outgoing request.
func (c *TerminalClient) authenticate(ctx context.Context, req *resty.Request) error {
	switch c.desc.Auth {
	case AuthNone, "":
		return nil
	case AuthAPIKey:
		header := c.desc.APIKeyHeader
		if header == "" {
			header = "X-API-Key"
		}
		req.SetHeader(header, c.creds.APIKey)
		return nil
	case AuthBasic:
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
		return nil
	case AuthBearer:
		token, err := c.ensureToken(ctx)
		if err != nil {
			return err
		}
		req.SetAuthToken(token)
		return nil
	default:
		return &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: "authenticate", Err: fmt.Errorf("unknown auth scheme %q", c.desc.Auth)}
	}
}

// ensureToken returns a valid bearer token, refreshing it from the terminal's
// token endpoint when the cached one is missing or close to expiry.
func (c *TerminalClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenRefreshSlack)) {
		return c.token, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"username": c.creds.Username, "password": c.creds.Password}).
		Post(c.desc.TokenPath)
	if err != nil {
		return "", &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: "fetch token", Err: err}
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return "", &AuthenticationError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Reason: "token endpoint rejected credentials"}
	}
	if resp.StatusCode() >= 400 {
		return "", &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: "fetch token", Err: fmt.Errorf("terminal returned HTTP %d", resp.StatusCode())}
	}

	var body struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", &AdapterError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Op: "fetch token", Err: fmt.Errorf("decode token response: %w", err)}
	}

	token := body.AccessToken
	if token == "" {
		token = body.Token
	}
	if token == "" {
		return "", &AuthenticationError{PortCode: c.desc.PortCode, Terminal: c.desc.Terminal, Reason: "token endpoint returned no token"}
	}

	c.token = token
	c.tokenExpiry = tokenExpiry(token, body.ExpiresIn)
	return c.token, nil
}

func (c *TerminalClient) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// tokenExpiry determines when a freshly issued token expires. Most terminal
// APIs issue JWTs, so the exp claim is read without signature verification
// (we are the audience, not the verifier). Falls back to expires_in, then to
// a conservative 55 minutes.
func tokenExpiry(token string, expiresIn int) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if expiresIn > 0 {
		return time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return time.Now().Add(55 * time.Minute)
}

// parseRetryAfter reads a Retry-After header expressed in seconds.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// buildResult maps a terminal payload onto the canonical record using the
// descriptor's field map and status vocabulary.
func (c *TerminalClient) buildResult(containerNumber string, payload map[string]any) *models.ContainerLookupResult {
	f := c.desc.Fields

	status := c.mapStatus(stringField(payload, f.Status))
	result := &models.ContainerLookupResult{
		Success:         true,
		ContainerNumber: containerNumber,
		PortCode:        c.desc.PortCode,
		Terminal:        c.desc.Terminal,
		Status:          status,
		StatusText:      status.Description(),
		Holds:           holdsField(payload, f.Holds),
		VesselName:      stringField(payload, f.VesselName),
		VesselVoyage:    stringField(payload, f.VesselVoyage),
		Size:            stringField(payload, f.Size),
		ContainerType:   stringField(payload, f.ContainerType),
		CarrierSCAC:     stringField(payload, f.CarrierSCAC),
		CheckedAt:       time.Now().UTC(),
	}

	if f.Available != "" {
		result.IsAvailable = boolField(payload, f.Available)
	} else {
		result.IsAvailable = status == models.StatusAvailable
	}
	// A held container is never available regardless of what the yard flag says.
	if len(result.Holds) > 0 {
		result.IsAvailable = false
	}

	if eta, ok := timeField(payload, f.VesselETA); ok {
		result.VesselETA = &eta
	}
	if d, ok := timeField(payload, f.DischargeDate); ok {
		result.DischargeDate = &d
	}
	if d, ok := timeField(payload, f.LastFreeDay); ok {
		result.LastFreeDay = &d
	}
	if d, ok := timeField(payload, f.EmptyReturnBy); ok {
		result.EmptyReturnBy = &d
	}
	if d, ok := timeField(payload, f.OutgateDate); ok {
		result.OutgateDate = &d
	}
	if amount, ok := floatField(payload, f.Demurrage); ok {
		result.DemurrageAmount = &amount
	}

	return result
}

// mapStatus translates a terminal status word through the descriptor's
// vocabulary. Unmapped words degrade to UNKNOWN rather than failing the
// whole lookup.
func (c *TerminalClient) mapStatus(raw string) models.ContainerStatus {
	if raw == "" {
		return models.StatusUnknown
	}
	if status, ok := c.desc.StatusVocab[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return status
	}
	return models.StatusUnknown
}

// Payload field helpers. Keys may be dotted paths into nested objects.

func lookupField(payload map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var current any = payload
	for _, part := range parts {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func stringField(payload map[string]any, path string) string {
	v, ok := lookupField(payload, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func boolField(payload map[string]any, path string) bool {
	v, ok := lookupField(payload, path)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToUpper(strings.TrimSpace(val))
		return s == "Y" || s == "YES" || s == "TRUE" || s == "AVAILABLE"
	default:
		return false
	}
}

func floatField(payload map[string]any, path string) (float64, bool) {
	v, ok := lookupField(payload, path)
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		cleaned := strings.TrimPrefix(strings.TrimSpace(val), "$")
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// timeLayouts are the date formats seen across terminal APIs.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

func timeField(payload map[string]any, path string) (time.Time, bool) {
	raw := stringField(payload, path)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func holdsField(payload map[string]any, path string) []string {
	v, ok := lookupField(payload, path)
	if !ok {
		return []string{}
	}
	switch val := v.(type) {
	case []any:
		holds := make([]string, 0, len(val))
		for _, h := range val {
			if s, ok := h.(string); ok && s != "" {
				holds = append(holds, s)
			}
		}
		return holds
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		holds := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				holds = append(holds, trimmed)
			}
		}
		return holds
	default:
		return []string{}
	}
}
