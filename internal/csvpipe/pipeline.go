package csvpipe

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
)

// Transport is the REST side of import and export. The CSV is always produced
// and validated by the backend.
type Transport interface {
	// filter carries the list view's query params; it applies only when ids is empty.
	ExportCSV(ctx context.Context, res Resource, ids []string, filter url.Values) (filename string, body io.ReadCloser, err error)
	ImportCSV(ctx context.Context, res Resource, name string, file io.Reader) (ImportSummary, error)
}

type Pipeline struct {
	t   Transport
	dir string
}

func NewPipeline(t Transport, dir string) *Pipeline {
	if dir == "" {
		dir = "."
	}
	return &Pipeline{t: t, dir: dir}
}

// Import uploads file as a single request. The result is all-or-nothing from
// the caller's point of view.
func (p *Pipeline) Import(ctx context.Context, res Resource, name string, file io.Reader) (ImportSummary, error) {
	if !res.Importable() {
		return ImportSummary{}, fmt.Errorf("%s cannot be imported", res)
	}
	sum, err := p.t.ImportCSV(ctx, res, filepath.Base(name), file)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("import %s: %w", res, err)
	}
	log.Printf("import %s: %d rows", res, sum.Imported)
	return sum, nil
}

// ImportFile is Import for a file on disk.
func (p *Pipeline) ImportFile(ctx context.Context, res Resource, path string) (ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, err
	}
	defer f.Close()
	return p.Import(ctx, res, path, f)
}

// Export requests the backend CSV scoped to ids, or everything matching
// filter when ids is empty, and saves it under the pipeline directory.
// Returns the saved path.
func (p *Pipeline) Export(ctx context.Context, res Resource, ids []string, filter url.Values) (string, error) {
	name, body, err := p.t.ExportCSV(ctx, res, ids, filter)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", res, err)
	}
	defer body.Close()

	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = res.Filename()
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(p.dir, name)
	tmp, err := os.CreateTemp(p.dir, "."+name+".*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}
