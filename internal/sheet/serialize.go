package sheet

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON serializes the records as a JSON array of objects at path,
// replacing any previous artifact. The write only counts as successful when
// the file exists on disk with a non-zero size afterwards.
func WriteJSON(records []Record, path string) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal %d records: %w", len(records), err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale JSON artifact %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON artifact %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("JSON artifact %s missing after write: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("JSON artifact %s is empty after write", path)
	}

	return nil
}
