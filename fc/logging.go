package fc

import (
	"os"

	logging "github.com/op/go-logging"
)

// Log is the package logger. It is the one package-level mutable
// value fc keeps outside of ControllerContext, and it is write-only
// from the perspective of the control loop (stages log through it,
// nothing reads it back), so it does not violate the "no process-wide
// mutable control state" rule — it carries no control state at all.
var Log = logging.MustGetLogger("fc")

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(
		"%{time:15:04:05.000} %{level:.4s} %{message}",
	))
	leveled := logging.AddModuleLevel(formatter)
	leveled.SetLevel(logging.NOTICE, "")
	logging.SetBackend(leveled)
}

// SetLogBackend lets a caller (typically cmd/fcsim, or a test) install
// a different go-logging backend, e.g. to capture output or raise
// verbosity to DEBUG.
func SetLogBackend(backend logging.Backend) {
	logging.SetBackend(backend)
}
