package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/svgg/internal/changelog"
)

// changelogContentTypes maps render formats to response media types.
var changelogContentTypes = map[changelog.Format]string{
	changelog.FormatMarkdown: "text/markdown; charset=utf-8",
	changelog.FormatJSON:     "application/json",
	changelog.FormatXML:      "application/xml",
	changelog.FormatYAML:     "application/yaml",
}

// getChangelog handles GET /api/v1/containers/:name/changelog
func (s *Server) getChangelog(c echo.Context) error {
	name := c.Param("name")

	format, err := changelog.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return BadRequestError("Invalid changelog format", err.Error())
	}

	rendered, err := s.ops.RenderPersistedChangelog(s.containerPath(name), format)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, changelogContentTypes[format], rendered)
}

// getStructure handles GET /api/v1/containers/:name/structure
func (s *Server) getStructure(c echo.Context) error {
	name := c.Param("name")

	tree, err := s.ops.Structure(s.containerPath(name))
	if err != nil {
		return err
	}
	if tree == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"structure": nil,
		})
	}

	return c.JSON(http.StatusOK, tree)
}
