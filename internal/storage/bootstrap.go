package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/recall/internal/defaults"
)

// Bootstrap prepares root for use: it creates the directory, writes the
// guidelines file when it is missing and refreshes the managed
// instructions file, which is always overwritten.
func Bootstrap(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("storage: create root: %w", err)
	}

	guidelines := filepath.Join(root, GuidelinesFile)
	if !Exists(guidelines) {
		if err := WriteFile(guidelines, []byte(defaults.Guidelines)); err != nil {
			return fmt.Errorf("storage: write guidelines: %w", err)
		}
	}

	instructions := filepath.Join(root, InstructionsDir, InstructionsFile)
	if err := WriteFile(instructions, []byte(defaults.Instructions)); err != nil {
		return fmt.Errorf("storage: write instructions: %w", err)
	}
	return nil
}
