package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freightops-pro/boxtrace/internal/demurrage"
	"github.com/freightops-pro/boxtrace/internal/tracking"
)

// parseDate accepts an ISO-8601 date, with or without a time component.
func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be an ISO-8601 date, got %q", field, raw)
}

// calculateDemurrage handles POST /api/v1/demurrage/calculate: the explicit
// dates path into the calculation engine.
func (s *Server) calculateDemurrage(c echo.Context) error {
	var req DemurrageRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	if result := s.validator.ValidateStruct(&req); !result.Valid {
		return ValidationError("Request validation failed", result.FieldErrors())
	}

	input := demurrage.Input{
		ContainerNumber: tracking.NormalizeContainerNumber(req.ContainerNumber),
		PortCode:        strings.ToUpper(req.PortCode),
	}

	var err error
	if input.DischargeDate, err = parseDate("discharge_date", req.DischargeDate); err != nil {
		return BadRequestError("Invalid date", err.Error())
	}
	if input.OutgateDate, err = parseDate("outgate_date", req.OutgateDate); err != nil {
		return BadRequestError("Invalid date", err.Error())
	}
	if input.EmptyReturnDate, err = parseDate("empty_return_date", req.EmptyReturnDate); err != nil {
		return BadRequestError("Invalid date", err.Error())
	}
	if input.LastFreeDay, err = parseDate("last_free_day", req.LastFreeDay); err != nil {
		return BadRequestError("Invalid date", err.Error())
	}

	rules := s.rules.RulesFor(input.PortCode)
	calc := demurrage.Calculate(input, rules, time.Now())

	return c.JSON(http.StatusOK, calc)
}

// checkDemurrage handles POST /api/v1/demurrage/check: look the container up
// through the orchestrator, then derive charges from what the terminal
// reported.
func (s *Server) checkDemurrage(c echo.Context) error {
	var req DemurrageCheckRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	if result := s.validator.ValidateStruct(&req); !result.Valid {
		return ValidationError("Request validation failed", result.FieldErrors())
	}

	lookup := s.orchestrator.Lookup(c.Request().Context(), tracking.LookupRequest{
		ContainerNumber: req.ContainerNumber,
		PortCode:        req.PortCode,
		Terminal:        req.Terminal,
	})

	resp := DemurrageCheckResponse{Lookup: lookup}
	if lookup.Success {
		rules := s.rules.RulesFor(lookup.PortCode)
		resp.Calculation = demurrage.CalculateFromLookup(lookup, rules, time.Now())
	}

	return c.JSON(http.StatusOK, resp)
}
