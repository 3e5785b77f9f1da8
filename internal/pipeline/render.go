package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wikibias/wikibias/internal/model"
)

// WriteJSON renders the report as indented JSON to path, or to stdout
// when path is empty
func WriteJSON(report *model.Report, path string) error {
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if path == "" {
		fmt.Println(string(encoded))
		return nil
	}

	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
