// Package applog provides structured logging for the sync core, matching
// the teacher's internal/app Logger call-site shape (WithField,
// WithComponent, Debug/Info/Warn/Error) but backed by logrus instead of a
// hand-rolled writer, since the wider example pack reaches for a real
// structured-logging library rather than writing its own.
package applog
