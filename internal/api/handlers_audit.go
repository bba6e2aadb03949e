package api

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"evalgo.org/svgg/internal/integrity"
)

// RepairRequest is the body of a repair call.
type RepairRequest struct {
	DryRun bool `json:"dry_run"`
	Force  bool `json:"force"`
}

// RepairResponse reports the applied (or planned) repair actions.
type RepairResponse struct {
	Container string                   `json:"container"`
	DryRun    bool                     `json:"dry_run"`
	Actions   []integrity.RepairAction `json:"actions"`
}

// auditContainer handles GET /api/v1/containers/:name/audit
func (s *Server) auditContainer(c echo.Context) error {
	name := c.Param("name")

	path := s.containerPath(name)
	if _, err := os.Stat(path); err != nil {
		return err
	}

	report := s.ops.Audit(c.Request().Context(), []string{path})
	return c.JSON(http.StatusOK, report)
}

// repairContainer handles POST /api/v1/containers/:name/repair
func (s *Server) repairContainer(c echo.Context) error {
	name := c.Param("name")

	req := new(RepairRequest)
	if err := c.Bind(req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	actions, err := s.ops.Repair(s.containerPath(name), integrity.RepairOptions{
		DryRun: req.DryRun,
		Force:  req.Force,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RepairResponse{
		Container: name,
		DryRun:    req.DryRun,
		Actions:   actions,
	})
}
