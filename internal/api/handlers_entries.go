package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"evalgo.org/svgg/internal/operations"
	"evalgo.org/svgg/internal/structure"
)

// listEntries handles GET /api/v1/containers/:name/entries
func (s *Server) listEntries(c echo.Context) error {
	name := c.Param("name")

	filter := operations.ListFilter{
		MediaType: c.QueryParam("type"),
		Pattern:   c.QueryParam("pattern"),
	}
	if verify := c.QueryParam("verify"); verify != "" {
		v, err := strconv.ParseBool(verify)
		if err != nil {
			return BadRequestError("Invalid verify parameter", "verify must be a boolean, got: "+verify)
		}
		filter.Verify = v
	}

	entries, err := s.ops.List(s.containerPath(name), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, EntriesResponse{
		Count:   len(entries),
		Entries: entries,
	})
}

// downloadEntry handles GET /api/v1/containers/:name/entries/*
func (s *Server) downloadEntry(c echo.Context) error {
	name := c.Param("name")
	entryPath := c.Param("*")

	if entryPath == "" {
		return BadRequestError("Entry path is required", "Append the logical path of the embedded file to the URL")
	}

	data, mediaType, err := s.ops.ReadEntry(s.containerPath(name), entryPath)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, mediaType, data)
}

// importFiles handles POST /api/v1/containers/:name/import
//
// Files arrive as a multipart form under the "files" field. Form
// values compress, overwrite and strategy map to the import options.
func (s *Server) importFiles(c echo.Context) error {
	name := c.Param("name")

	form, err := c.MultipartForm()
	if err != nil {
		return BadRequestError("Invalid multipart form", err.Error())
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return BadRequestError("No files provided", "Attach at least one file under the 'files' form field")
	}

	opts := operations.ImportOptions{
		Compress:  s.config.Import.Compress,
		Overwrite: formBool(c, "overwrite"),
	}
	if formValue(c, "compress") != "" {
		opts.Compress = formBool(c, "compress")
	}
	if strategy := formValue(c, "strategy"); strategy != "" {
		parsed, err := structure.ParseMergeStrategy(strategy)
		if err != nil {
			return BadRequestError("Invalid merge strategy", err.Error())
		}
		opts.Strategy = parsed
	}

	source := operations.MemorySource{SourceName: "upload"}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return BadRequestError("Unreadable upload", fh.Filename+": "+err.Error())
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return BadRequestError("Unreadable upload", fh.Filename+": "+err.Error())
		}
		source.Items = append(source.Items, operations.SourceFile{
			RelPath: fh.Filename,
			Size:    int64(len(data)),
			Read:    func() ([]byte, error) { return data, nil },
		})
	}

	result, err := s.ops.Import(c.Request().Context(), s.containerPath(name), []operations.Source{source}, opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ImportResponse{
		Imported: result.Added,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
		Files:    result.Outcomes,
	})
}

// excludeEntries handles POST /api/v1/containers/:name/exclude
func (s *Server) excludeEntries(c echo.Context) error {
	name := c.Param("name")

	var req ExcludeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", "Failed to parse JSON: "+err.Error())
	}
	if len(req.Names) == 0 {
		return BadRequestError("No names provided", "The 'names' array must not be empty")
	}

	result, err := s.ops.Exclude(s.containerPath(name), req.Names)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ExcludeResponse{Removed: result.Removed})
}


func formValue(c echo.Context, key string) string {
	return c.Request().FormValue(key)
}

func formBool(c echo.Context, key string) bool {
	v, err := strconv.ParseBool(formValue(c, key))
	return err == nil && v
}
