package postgres

import "time"

// The schema stores due dates as TIMESTAMP WITHOUT TIME ZONE holding wall
// clock values in the configured zone. toWall and fromWall convert at the
// boundary so that comparisons in SQL use the same clock as the scheduler.

func toWall(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func fromWall(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
