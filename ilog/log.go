// Package ilog is the ingester's logging facade: subject first, then a
// format string, backed by logrus.
package ilog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger is the package-wide logger. Replace it (e.g. in tests) rather
// than constructing a new one per call site.
var Logger = logrus.StandardLogger()

// fieldsFor renders subj into a "subject" field. nil subjects are omitted.
func fieldsFor(subj any) logrus.Fields {
	if subj == nil {
		return logrus.Fields{}
	}
	if s, ok := subj.(fmt.Stringer); ok {
		return logrus.Fields{"subject": s.String()}
	}
	return logrus.Fields{"subject": fmt.Sprintf("%v", subj)}
}

// Debugf logs routine per-item activity: lookups, state transitions, skips.
func Debugf(subj any, format string, args ...any) {
	Logger.WithFields(fieldsFor(subj)).Debugf(format, args...)
}

// Infof logs chunk/commit/backoff/progress-level events.
func Infof(subj any, format string, args ...any) {
	Logger.WithFields(fieldsFor(subj)).Infof(format, args...)
}

// Errorf logs non-retryable failures routed per ErrorMode.
func Errorf(subj any, format string, args ...any) {
	Logger.WithFields(fieldsFor(subj)).Errorf(format, args...)
}
