package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Slot offsets of the one-hot groups per family, aligned with Normalize.
const (
	stdWeatherAt   = 13
	stdStatusAt    = 16
	stdStationAt   = 19
	faultWeatherAt = 14
	faultStatusAt  = 17
	faultStationAt = 20
)

func TestNormalize_VectorLengths(t *testing.T) {
	records := []InputRecord{
		{},
		{"current_queue": 7.0},
		{"weatherTemp": 5.0, "status": "degraded"},
		{"station_id": "STATION_999", "timestamp": "2024-04-26T15:10:00Z"},
		{"current_queue": map[string]any{"oops": true}}, // uncoercible value
	}

	for _, rec := range records {
		assert.Len(t, Normalize(rec, FamilyStandard), 23)
		assert.Len(t, Normalize(rec, FamilyFault), 25)
	}
	assert.Nil(t, Normalize(InputRecord{}, FamilyLLM))
}

func TestNormalize_FeatureNamesAlign(t *testing.T) {
	assert.Len(t, FeatureNames(FamilyStandard), 23)
	assert.Len(t, FeatureNames(FamilyFault), 25)
	assert.Nil(t, FeatureNames(FamilyRecommender))
	assert.Equal(t, "queue_length", FeatureNames(FamilyFault)[0])
	assert.Equal(t, "hour_of_day", FeatureNames(FamilyStandard)[0])
}

func TestNormalize_OneHotGroupsSumToOne(t *testing.T) {
	records := []InputRecord{
		{},
		{"weather_condition": "Rain", "status": "MAINTENANCE", "station_id": "STATION_003"},
		{"weather_condition": "Blizzard", "status": "exploded", "station_id": "nope"},
		{"weatherTemp": -4.0},
		{"weatherTemp": 41.0},
	}

	sum := func(v []float64, at, n int) float64 {
		var s float64
		for _, x := range v[at : at+n] {
			s += x
		}
		return s
	}

	for _, rec := range records {
		std := Normalize(rec, FamilyStandard)
		assert.Equal(t, 1.0, sum(std, stdWeatherAt, 3), "standard weather")
		assert.Equal(t, 1.0, sum(std, stdStatusAt, 3), "standard status")
		assert.Equal(t, 1.0, sum(std, stdStationAt, 4), "standard station")

		flt := Normalize(rec, FamilyFault)
		assert.Equal(t, 1.0, sum(flt, faultWeatherAt, 3), "fault weather")
		assert.Equal(t, 1.0, sum(flt, faultStatusAt, 3), "fault status")
		assert.Equal(t, 1.0, sum(flt, faultStationAt, 5), "fault station")
	}
}

func TestNormalize_WeatherPrecedence(t *testing.T) {
	t.Run("cold temperature triggers fog without explicit condition", func(t *testing.T) {
		v := Normalize(InputRecord{"weatherTemp": 5.0}, FamilyStandard)
		assert.Equal(t, []float64{0, 1, 0}, v[stdWeatherAt:stdWeatherAt+3])
	})

	t.Run("hot temperature triggers rain", func(t *testing.T) {
		v := Normalize(InputRecord{"weather_temp": 40.0}, FamilyStandard)
		assert.Equal(t, []float64{0, 0, 1}, v[stdWeatherAt:stdWeatherAt+3])
	})

	t.Run("explicit Fog wins over hot temperature", func(t *testing.T) {
		v := Normalize(InputRecord{"weather_condition": "Fog", "weather_temp": 40.0}, FamilyStandard)
		assert.Equal(t, []float64{0, 1, 0}, v[stdWeatherAt:stdWeatherAt+3])
	})

	t.Run("explicit Rain with cold temperature stays fog", func(t *testing.T) {
		// Temperature < 10 is checked inside the Fog branch, so it outranks
		// an explicit Rain condition.
		v := Normalize(InputRecord{"weather_condition": "Rain", "weather_temp": 5.0}, FamilyStandard)
		assert.Equal(t, []float64{0, 1, 0}, v[stdWeatherAt:stdWeatherAt+3])
	})

	t.Run("mild default is clear", func(t *testing.T) {
		v := Normalize(InputRecord{}, FamilyStandard)
		assert.Equal(t, []float64{1, 0, 0}, v[stdWeatherAt:stdWeatherAt+3])
	})
}

func TestNormalize_StationRoster(t *testing.T) {
	t.Run("known station", func(t *testing.T) {
		v := Normalize(InputRecord{"station_id": "STATION_004"}, FamilyFault)
		assert.Equal(t, []float64{0, 0, 0, 0, 1}, v[faultStationAt:faultStationAt+5])
	})

	t.Run("unknown station defaults to first slot", func(t *testing.T) {
		v := Normalize(InputRecord{"station_id": "STATION_999"}, FamilyFault)
		assert.Equal(t, []float64{1, 0, 0, 0, 0}, v[faultStationAt:faultStationAt+5])
	})
}

func TestNormalize_DefaultsAndAliases(t *testing.T) {
	t.Run("documented defaults", func(t *testing.T) {
		v := Normalize(InputRecord{"timestamp": "2024-04-24T12:00:00Z"}, FamilyFault)

		assert.Equal(t, 5.0, v[0], "queue_length")
		assert.Equal(t, 12.0, v[1], "hour_of_day")
		assert.Equal(t, 2.0, v[2], "day_of_week (Wednesday)")
		assert.Equal(t, 0.0, v[3], "is_peak_hour")
		assert.Equal(t, 1.0, v[4], "traffic_factor")
		assert.Equal(t, 10.0, v[5], "available_batteries = 2 × queue")
		assert.Equal(t, 50.0, v[6], "total_batteries")
		assert.Equal(t, 10.0, v[7], "available_chargers")
		assert.Equal(t, 15.0, v[8], "total_chargers")
		assert.Equal(t, 100.0, v[9], "power_usage_kw = energy_demand default")
		assert.Equal(t, 200.0, v[10], "power_capacity_kw")
		assert.Equal(t, 0.9, v[11], "station_reliability")
		assert.Equal(t, 0.9, v[12], "energy_stability")
		assert.Equal(t, 15.0, v[13], "avg_wait_time = 3 × queue")
	})

	t.Run("snake_case beats camelCase", func(t *testing.T) {
		v := Normalize(InputRecord{
			"current_queue": 3.0,
			"currentQueue":  9.0,
			"timestamp":     "2024-04-24T12:00:00Z",
		}, FamilyFault)
		assert.Equal(t, 3.0, v[0])
	})

	t.Run("camelCase alias resolves", func(t *testing.T) {
		v := Normalize(InputRecord{"currentQueue": 9.0, "timestamp": "2024-04-24T12:00:00Z"}, FamilyFault)
		assert.Equal(t, 9.0, v[0])
		assert.Equal(t, 18.0, v[5], "derived available_batteries follows alias")
	})

	t.Run("derived defaults track explicit energy_demand", func(t *testing.T) {
		v := Normalize(InputRecord{"energy_demand": 140.0, "timestamp": "2024-04-24T12:00:00Z"}, FamilyFault)
		assert.Equal(t, 140.0, v[9])
	})

	t.Run("numeric strings coerce", func(t *testing.T) {
		v := Normalize(InputRecord{"current_queue": "4", "timestamp": "2024-04-24T12:00:00Z"}, FamilyFault)
		assert.Equal(t, 4.0, v[0])
	})

	t.Run("uncoercible value degrades to default", func(t *testing.T) {
		v := Normalize(InputRecord{"current_queue": []any{1, 2}, "timestamp": "2024-04-24T12:00:00Z"}, FamilyFault)
		assert.Equal(t, 5.0, v[0])
	})
}

func TestNormalize_PeakHourBoundaries(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{7, 0}, {8, 1}, {9, 1}, {10, 0},
		{16, 0}, {17, 1}, {18, 1}, {19, 1}, {20, 0},
	}
	for _, tc := range cases {
		rec := InputRecord{"timestamp": time.Date(2024, 4, 24, tc.hour, 0, 0, 0, time.UTC).Format(time.RFC3339)}
		v := Normalize(rec, FamilyStandard)
		assert.Equal(t, tc.want, v[2], "hour %d", tc.hour)
	}
}

func TestNormalize_WeekendTrafficFactor(t *testing.T) {
	// 2024-04-27 is a Saturday, 2024-04-24 a Wednesday.
	sat := Normalize(InputRecord{"timestamp": "2024-04-27T12:00:00Z"}, FamilyStandard)
	wed := Normalize(InputRecord{"timestamp": "2024-04-24T12:00:00Z"}, FamilyStandard)

	assert.Equal(t, 5.0, sat[1], "day_of_week Saturday")
	assert.Equal(t, 1.2, sat[3])
	assert.Equal(t, 1.0, wed[3])
}

func TestNormalize_Idempotent(t *testing.T) {
	rec := InputRecord{
		"timestamp":     "2024-04-26T08:30:00Z",
		"current_queue": 6.0,
		"station_id":    "STATION_002",
	}
	first := Normalize(rec, FamilyFault)
	second := Normalize(rec, FamilyFault)
	assert.Equal(t, first, second)
}

func TestNormalize_BadTimestampFallsBackToClock(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 17, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	v := Normalize(InputRecord{"timestamp": "not-a-time"}, FamilyStandard)
	require.Len(t, v, 23)
	assert.Equal(t, 17.0, v[0], "hour from frozen clock")
	assert.Equal(t, 1.0, v[2], "17:00 is a peak hour")
}

func TestFeatureMatrix_SingleRow(t *testing.T) {
	m := FeatureMatrix(InputRecord{}, FamilyFault)
	require.Len(t, m, 1)
	assert.Len(t, m[0], 25)
}
