package akl

import (
	"io"

	"github.com/sirupsen/logrus"
)

// SetLogLevel adjusts the package's shared logrus logger, letting the
// CLI's -v flag turn on the per-promotion and per-split Debug
// trail a Worker emits via its w.log field.
//
// Grounded on the teacher's corpus convention of a single package-wide
// logrus.Logger configured once at startup (dolthub-go-mysql-server's
// auth.NewAuditLog takes a *logrus.Logger the caller has already
// configured, rather than constructing its own).
func SetLogLevel(level logrus.Level) {
	logrus.SetLevel(level)
}

// SetLogOutput redirects the package's shared logger, e.g. to capture
// emitted log lines without polluting stderr.
func SetLogOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
