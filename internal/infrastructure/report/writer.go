package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// Write renders the report to path, or to stdout when path is empty or "-".
// Files are written to a temporary sibling and renamed into place, so a failed
// render never leaves a partial report behind.
func Write(path string, renderer Renderer, r *Report, stdout io.Writer) error {
	if path == "" || path == "-" {
		if err := renderer.Render(stdout, r); err != nil {
			return fmt.Errorf("%w: %w", entities.ErrOutput, err)
		}
		return nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w: %w", path, entities.ErrOutput, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		_ = os.Remove(tmpName)
	}

	bw := bufio.NewWriter(tmp)
	if err := renderer.Render(bw, r); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w: %w", path, entities.ErrOutput, err)
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w: %w", path, entities.ErrOutput, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w: %w", path, entities.ErrOutput, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w: %w", path, entities.ErrOutput, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w: %w", path, entities.ErrOutput, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w: %w", path, entities.ErrOutput, err)
	}
	return nil
}
