package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// listContainers handles GET /api/v1/containers
func (s *Server) listContainers(c echo.Context) error {
	dirEntries, err := os.ReadDir(s.config.Server.WorkDir)
	if err != nil {
		return InternalError("Failed to read work directory", err.Error())
	}

	summaries := []ContainerSummary{}
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), containerExt) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		summary := ContainerSummary{
			Name: de.Name(),
			Size: info.Size(),
		}

		// Documents without a container region still list, with zero
		// entries. Unparsable documents list by name only.
		if meta, err := s.ops.Metadata(s.containerPath(de.Name())); err == nil {
			summary.FilesCount = meta.FilesCount()
			if lm := meta.LastModified(); !lm.IsZero() {
				summary.LastModified = lm.Format(time.RFC3339)
			}
		}

		summaries = append(summaries, summary)
	}

	return c.JSON(http.StatusOK, ContainersResponse{
		Count:      len(summaries),
		Containers: summaries,
	})
}

// getContainer handles GET /api/v1/containers/:name
func (s *Server) getContainer(c echo.Context) error {
	name := c.Param("name")
	path := s.containerPath(name)

	info, err := os.Stat(path)
	if err != nil {
		return NotFoundError("Container", name)
	}

	meta, err := s.ops.Metadata(path)
	if err != nil {
		return BadRequestError("Invalid container document", err.Error())
	}

	summary := ContainerSummary{
		Name:       filepath.Base(path),
		Size:       info.Size(),
		FilesCount: meta.FilesCount(),
	}
	if lm := meta.LastModified(); !lm.IsZero() {
		summary.LastModified = lm.Format(time.RFC3339)
	}

	return c.JSON(http.StatusOK, summary)
}

// createContainer handles POST /api/v1/containers
func (s *Server) createContainer(c echo.Context) error {
	var req CreateContainerRequest

	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", "Failed to parse JSON: "+err.Error())
	}

	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Container name is required"
	}
	if strings.ContainsAny(req.Name, "/\\") {
		fieldErrors["name"] = "Container name must not contain path separators"
	}
	if len(fieldErrors) > 0 {
		return ValidationError("Validation failed", fieldErrors)
	}

	path := s.containerPath(req.Name)
	if err := s.ops.Create(path, ""); err != nil {
		if errors.Is(err, os.ErrExist) {
			return ConflictError("Container already exists", req.Name)
		}
		return InternalError("Failed to create container", err.Error())
	}

	return c.JSON(http.StatusCreated, MessageResponse{
		Message: "container created",
		Name:    filepath.Base(path),
	})
}
