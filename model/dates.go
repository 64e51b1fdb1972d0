package model

import (
	"strings"
	"time"
)

// Camera firmware and XMP writers disagree wildly on date rendering, and
// one common EXIF library emits a buggy variant with a space after each
// colon. More specific layouts must come before looser ones so that time
// components are not truncated.
var dateLayouts = []string{
	"2006: 01: 02 15: 04: 05",
	"2006:01:02 15:04:05",
	"2006:01:02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"20060102",
	"2006",
}

// ParseDate tries each known layout in priority order and returns the first
// successful parse, or nil when nothing matches. The result carries loc;
// when loc is nil the wall-clock value is kept and any parsed offset is
// discarded, matching EXIF's timezone-less convention.
func ParseDate(value string, loc *time.Location) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	target := loc
	if target == nil {
		target = time.UTC
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), target)
		return &t
	}
	return nil
}

// CreateDayID encodes a timestamp's calendar day as year*10000+month*100+day.
// A nil timestamp yields 0.
func CreateDayID(t *time.Time) int {
	if t == nil {
		return 0
	}
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
