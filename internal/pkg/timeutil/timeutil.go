package timeutil

import "time"

const dayLayout = "2006-01-02"

func NowUnix() int64 {
	return time.Now().Unix()
}

// FormatDay renders a unix timestamp as its UTC calendar day.
func FormatDay(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(dayLayout)
}
