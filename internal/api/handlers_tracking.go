package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freightops-pro/boxtrace/internal/adapters"
	"github.com/freightops-pro/boxtrace/internal/tracking"
)

// trackContainer handles POST /api/v1/containers/track.
//
// The orchestrator converts every adapter failure into a failed result, so
// this handler always answers 200 with a ContainerLookupResult; only
// malformed requests produce an error status.
func (s *Server) trackContainer(c echo.Context) error {
	var req TrackRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	if result := s.validator.ValidateStruct(&req); !result.Valid {
		return ValidationError("Request validation failed", result.FieldErrors())
	}

	result := s.orchestrator.Lookup(c.Request().Context(), tracking.LookupRequest{
		ContainerNumber: req.ContainerNumber,
		PortCode:        req.PortCode,
		Terminal:        req.Terminal,
	})
	s.debugLog("track %s: success=%v port=%s", result.ContainerNumber, result.Success, result.PortCode)

	return c.JSON(http.StatusOK, result)
}

// containerEvents handles GET /api/v1/containers/:number/events. A port
// hint is required; event histories are terminal-local and never searched
// across ports.
func (s *Server) containerEvents(c echo.Context) error {
	req := tracking.LookupRequest{
		ContainerNumber: c.Param("number"),
		PortCode:        c.QueryParam("port_code"),
		Terminal:        c.QueryParam("terminal"),
	}

	var since *time.Time
	if raw := c.QueryParam("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return BadRequestError("Invalid since parameter", "must be an RFC 3339 timestamp")
		}
		since = &t
	}

	events, err := s.orchestrator.ContainerEvents(c.Request().Context(), req, since)
	if err != nil {
		switch {
		case adapters.IsNotFound(err):
			return NotFoundError("Container", req.ContainerNumber)
		case adapters.IsAuthentication(err):
			return NewAPIError(http.StatusBadGateway, "Terminal rejected credentials", err.Error())
		default:
			return BadRequestError("Event lookup failed", err.Error())
		}
	}

	return c.JSON(http.StatusOK, events)
}
