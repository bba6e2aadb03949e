package api

import (
	"evalgo.org/svgg/models"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

// ContainersResponse lists the container documents in the work
// directory.
type ContainersResponse struct {
	Count      int                `json:"count"`
	Containers []ContainerSummary `json:"containers"`
}

// ContainerSummary is one container document on disk.
type ContainerSummary struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	FilesCount   int    `json:"files_count"`
	LastModified string `json:"last_modified,omitempty"`
}

// EntriesResponse lists the embedded files of one container.
type EntriesResponse struct {
	Count   int                `json:"count"`
	Entries []models.EntryInfo `json:"entries"`
}

// ImportResponse reports the outcome of an import request.
type ImportResponse struct {
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	Failed   int                  `json:"failed"`
	Files    []models.FileOutcome `json:"files"`
}

// ExcludeRequest names the entries to remove from a container.
type ExcludeRequest struct {
	Names []string `json:"names"`
}

// ExcludeResponse reports the entries removed by an exclude request.
type ExcludeResponse struct {
	Removed []string `json:"removed"`
}

// MetadataRequest carries caller-supplied metadata values.
type MetadataRequest struct {
	Values map[string]interface{} `json:"values"`
}

// CreateContainerRequest asks for a new container document.
type CreateContainerRequest struct {
	Name string `json:"name"`
}
