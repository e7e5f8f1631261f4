package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// listPorts handles GET /api/v1/ports: every supported port with its
// terminals in preference order.
func (s *Server) listPorts(c echo.Context) error {
	codes := s.registry.Ports()
	ports := make([]PortInfo, 0, len(codes))
	for _, code := range codes {
		ports = append(ports, PortInfo{
			PortCode:  code,
			Terminals: s.registry.TerminalsFor(code),
		})
	}
	return c.JSON(http.StatusOK, ports)
}

// portRules handles GET /api/v1/ports/:code/rules: the effective free-time
// rules for a port. Unknown ports answer with the defaults, mirroring the
// rule table's lookup semantics.
func (s *Server) portRules(c echo.Context) error {
	code := strings.ToUpper(c.Param("code"))
	if len(code) != 5 {
		return BadRequestError("Invalid port code", "UN/LOCODEs are 5 characters, e.g. USLAX")
	}

	return c.JSON(http.StatusOK, PortRulesResponse{
		PortCode: code,
		Rules:    s.rules.RulesFor(code),
	})
}
