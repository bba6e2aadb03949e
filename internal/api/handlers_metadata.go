package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/svgg/models"
)

// getMetadata handles GET /api/v1/containers/:name/metadata
func (s *Server) getMetadata(c echo.Context) error {
	name := c.Param("name")

	meta, err := s.ops.Metadata(s.containerPath(name))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meta)
}

// updateMetadata handles PUT /api/v1/containers/:name/metadata
func (s *Server) updateMetadata(c echo.Context) error {
	name := c.Param("name")

	var req MetadataRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", "Failed to parse JSON: "+err.Error())
	}
	if len(req.Values) == 0 {
		return BadRequestError("No values provided", "The 'values' object must not be empty")
	}

	result, err := s.ops.UpdateMetadata(s.containerPath(name), models.Metadata(req.Values))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result.Metadata)
}

// removeMetadata handles DELETE /api/v1/containers/:name/metadata
//
// Three modes, selected by query parameters: ?keys=a,b removes named
// keys, ?clean=true keeps the essential descriptive subset, no
// parameter clears everything.
func (s *Server) removeMetadata(c echo.Context) error {
	name := c.Param("name")
	path := s.containerPath(name)

	var result *models.MetadataResult
	var err error
	switch {
	case len(c.QueryParams()["keys"]) > 0:
		result, err = s.ops.RemoveMetadata(path, c.QueryParams()["keys"])
	case c.QueryParam("clean") == "true":
		result, err = s.ops.CleanMetadata(path)
	default:
		result, err = s.ops.ClearMetadata(path)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result.Metadata)
}
