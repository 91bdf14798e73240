package prelude

import (
	_ "embed"
	"lispy/internal/evaluator"
	"lispy/internal/object"
	"log/slog"
)

// Name is the file name reported for the bundled library.
const Name = "prelude.lspy"

//go:embed prelude.lspy
var Source string

// Load evaluates the library at path into the global environment, or the bundled
// library when path is empty.
func Load(e *evaluator.Evaluator, path string) object.Object {
	if path != "" {
		slog.Info("loading prelude", slog.String("path", path))
		return e.LoadFile(e.Global, path)
	}
	slog.Debug("loading bundled prelude")
	return e.LoadSource(e.Global, Name, Source)
}
