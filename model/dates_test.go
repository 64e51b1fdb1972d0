package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"exif", "2019:02:24 20:51:15", time.Date(2019, 2, 24, 20, 51, 15, 0, time.UTC)},
		{"exif with stray spaces", "2019: 02: 24 20: 51: 15", time.Date(2019, 2, 24, 20, 51, 15, 0, time.UTC)},
		{"exif no seconds", "2019:02:24 20:51", time.Date(2019, 2, 24, 20, 51, 0, 0, time.UTC)},
		{"dashed", "2019-02-24 20:51:15", time.Date(2019, 2, 24, 20, 51, 15, 0, time.UTC)},
		{"dotted", "2019.02.24 20:51:15", time.Date(2019, 2, 24, 20, 51, 15, 0, time.UTC)},
		{"iso", "2019-02-24T20:51:15", time.Date(2019, 2, 24, 20, 51, 15, 0, time.UTC)},
		{"iso with offset dropped", "2016-02-22T20:57:08-05:00", time.Date(2016, 2, 22, 20, 57, 8, 0, time.UTC)},
		{"date only", "2019-02-24", time.Date(2019, 2, 24, 0, 0, 0, 0, time.UTC)},
		{"year month", "2019-02", time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"compact date", "20190224", time.Date(2019, 2, 24, 0, 0, 0, 0, time.UTC)},
		{"bare year", "2019", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual := ParseDate(tc.input, nil)
			require.NotNil(t, actual)
			assert.True(t, tc.expected.Equal(*actual), "expected %s, got %s", tc.expected, actual)
		})
	}
}

func TestParseDateUnparseable(t *testing.T) {
	assert.Nil(t, ParseDate("not a date", nil))
	assert.Nil(t, ParseDate("", nil))
}

func TestParseDateWithLocation(t *testing.T) {
	actual := ParseDate("2019:02:25 01:51:08", time.UTC)
	require.NotNil(t, actual)
	assert.Equal(t, "2019-02-25T01:51:08Z", actual.Format(time.RFC3339))
}

func TestParseDateSpecificBeforeLoose(t *testing.T) {
	// a full timestamp must not be truncated by the bare-year layout
	actual := ParseDate("2019:02:24 20:51:15", nil)
	require.NotNil(t, actual)
	assert.Equal(t, 20, actual.Hour())
	assert.Equal(t, 51, actual.Minute())
	assert.Equal(t, 15, actual.Second())
}

func TestCreateDayID(t *testing.T) {
	cases := []struct {
		name     string
		input    time.Time
		expected int
	}{
		{"normal", time.Date(2020, 1, 1, 12, 34, 56, 0, time.UTC), 20200101},
		{"midnight", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 20200101},
		{"before midnight", time.Date(2020, 1, 1, 23, 59, 59, 0, time.UTC), 20200101},
		{"end of year", time.Date(2019, 12, 31, 23, 59, 59, 0, time.UTC), 20191231},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CreateDayID(&tc.input))
		})
	}
}

func TestCreateDayIDNil(t *testing.T) {
	assert.Equal(t, 0, CreateDayID(nil))
}
