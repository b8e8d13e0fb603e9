package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataFileNames are the file names FindDataFile looks for, in order of preference.
var DataFileNames = []string{"excelcy.yml", "excelcy.yaml", "excelcy.json", "excelcy.xlsx"}

// FindDataFile looks upwards from startDir for a default data file.
// It returns the absolute path of the first match.
func FindDataFile(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range DataFileNames {
			if hasFile(dir, name) {
				return filepath.Join(dir, name), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no data file (%v) found from %s", DataFileNames, abs)
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
