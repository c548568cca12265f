package onestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// ExtractFiles writes every embedded payload into dir, verbatim. Files with
// a declared name are written under it (sanitized to its base name), the
// rest as file_<n> plus their declared extension. suffix, when non-empty, is
// appended to every name. Returns the written paths.
func ExtractFiles(d *Document, dir, suffix string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Annotate(err, "create output dir")
	}
	var written []string
	for i, f := range d.Files() {
		if f.Content() == nil {
			log.Warnf("embedded file %s has no payload, skipping", f.GUID)
			continue
		}
		name := filepath.Base(f.SuggestedName)
		if name == "." || name == string(filepath.Separator) || f.SuggestedName == "" {
			name = fmt.Sprintf("file_%d%s", i, f.Extension)
		}
		name += suffix
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, f.Content(), 0o644); err != nil {
			return written, errors.Annotatef(err, "write %s", path)
		}
		log.Infof("extracted %d bytes to %s", len(f.Content()), path)
		written = append(written, path)
	}
	return written, nil
}
