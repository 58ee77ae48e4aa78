package bundle

import (
	"os"
	"path/filepath"

	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/gobwas/glob"
)

// dirPattern is a cheap pre-filter so directories that cannot possibly be
// bundles never reach the name parser.
var dirPattern = glob.MustCompile(Prefix + "*")

// Bundle is a discovered agent result bundle.
type Bundle struct {
	Name
	// Dir is the absolute path to the bundle directory.
	Dir string
}

// Discover scans bundlesDir for agent result bundles. Directories whose
// names don't follow the convention are skipped with a debug log. A
// missing bundles directory yields zero bundles, not an error. Discovery
// order follows directory-entry name order, which is deterministic.
func Discover(bundlesDir string, logger *logging.Logger) []Bundle {
	entries, err := os.ReadDir(bundlesDir)
	if err != nil {
		logger.Debug("bundles directory not readable", "dir", bundlesDir, "error", err)
		return nil
	}

	var bundles []Bundle
	for _, entry := range entries {
		if !entry.IsDir() || !dirPattern.Match(entry.Name()) {
			continue
		}
		name, err := ParseName(entry.Name())
		if err != nil {
			logger.Debug("skipping directory", "name", entry.Name(), "error", err)
			continue
		}
		bundles = append(bundles, Bundle{
			Name: name,
			Dir:  filepath.Join(bundlesDir, entry.Name()),
		})
	}
	return bundles
}
