package logfields

import "log/slog"

// Canonical log field names shared across packages.
const (
	KeyLocale     = "locale"
	KeySlug       = "slug"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyCache      = "cache"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func Locale(l string) slog.Attr       { return slog.String(KeyLocale, l) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Cache(state string) slog.Attr    { return slog.String(KeyCache, state) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
