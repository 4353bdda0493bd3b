package utils

import "time"

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FormatUnixRFC3339 renders stored unix seconds as an RFC 3339 UTC timestamp.
// Returns "" for t<=0 to let callers decide how to render.
func FormatUnixRFC3339(t int64) string {
	if t <= 0 {
		return ""
	}
	return time.Unix(t, 0).UTC().Format(time.RFC3339)
}
