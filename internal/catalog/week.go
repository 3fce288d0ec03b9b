package catalog

import "time"

// WeekMillis is the length of a week in milliseconds.
const WeekMillis int64 = 7 * 24 * 60 * 60 * 1000

// WeekIndex returns the number of whole weeks since the Unix epoch.
func WeekIndex(now time.Time) int64 {
	ms := now.UnixMilli()
	w := ms / WeekMillis
	if ms < 0 && ms%WeekMillis != 0 {
		w-- // floor, not truncation
	}
	return w
}

// SelectCurrent returns the planet of the week. It is a pure function of the
// catalog and the week containing now; ok is false for an empty catalog.
func SelectCurrent(records []Record, now time.Time) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	n := int64(len(records))
	idx := WeekIndex(now) % n
	if idx < 0 {
		idx += n
	}
	return records[idx], true
}

// NextRotation returns when the featured planet next changes.
func NextRotation(now time.Time) time.Time {
	return time.UnixMilli((WeekIndex(now) + 1) * WeekMillis).UTC()
}
