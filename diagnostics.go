package epsilon

import (
	"log/slog"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger installs the logger used when a call has no WithLogger
// option. Nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// reported holds the type names already warned about.
var reported = xsync.NewMapOf[string, struct{}]()

// reportMismatches warns once per process about every type that could
// have been declared zero-copy.
func reportMismatches(l *slog.Logger, names []string) {
	for _, name := range names {
		if _, loaded := reported.LoadOrStore(name, struct{}{}); loaded {
			continue
		}
		l.Warn("type could be zero-copy", slog.String("type", name))
	}
}
