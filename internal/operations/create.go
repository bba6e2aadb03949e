package operations

import (
	"fmt"
	"os"

	"evalgo.org/svgg/internal/svgio"
)

// defaultTemplate is the minimal host document used when a bundle is
// created without a template SVG.
const defaultTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="512" height="512" viewBox="0 0 512 512">
  <rect width="512" height="512" fill="#f2f2f2"/>
  <text x="256" y="268" text-anchor="middle" font-family="monospace" font-size="18">svgg bundle</text>
</svg>
`

// Create writes a fresh host document at containerPath, either from
// a template SVG or from the built-in minimal one. Fails when the
// target already exists: an existing container must be imported
// into, not overwritten.
func (s *Service) Create(containerPath, templatePath string) error {
	if _, err := os.Stat(containerPath); err == nil {
		return fmt.Errorf("%s: %w", containerPath, os.ErrExist)
	}

	doc := []byte(defaultTemplate)
	if templatePath != "" {
		var err error
		doc, err = os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
	}

	// The template must be a usable host document before anything is
	// written.
	if _, _, err := svgio.Parse(doc); err != nil {
		return err
	}

	if err := writeFileAtomic(containerPath, doc); err != nil {
		return fmt.Errorf("write %s: %w", containerPath, err)
	}
	s.log.Info("container created", "container", containerPath, "template", templatePath)
	return nil
}
