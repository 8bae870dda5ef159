package pipeline

import (
	"fmt"
	"net/http"
	"os"
)

// persist writes the fetched payload to path, replacing any artifact left by
// a previous run. Success is gated on the on-disk state: the file must exist
// with a non-zero size after the write.
func (p *Pipeline) persist(statusCode int, body []byte, path string) error {
	if statusCode != http.StatusOK {
		return fmt.Errorf("remote returned status %d, expected %d", statusCode, http.StatusOK)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale artifact %s: %w", path, err)
		}
		p.log.Info().Str("path", path).Msg("deleted stale artifact from previous run")
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("artifact %s missing after write: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("artifact %s is empty after write", path)
	}

	return nil
}
