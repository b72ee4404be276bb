package domain

import "strings"

// peakHours are the queue-rush hours shared by the normalizer and the traffic
// fallback boost.
var peakHours = map[int]bool{8: true, 9: true, 17: true, 18: true, 19: true}

// knownStations is the fixed roster backing the station one-hot group.
// Slot order is part of the model contract.
var knownStations = []string{"STATION_000", "STATION_001", "STATION_002", "STATION_003", "STATION_004"}

// resolvedFeatures holds every scalar and one-hot value derived from a record,
// before family-specific vector assembly.
type resolvedFeatures struct {
	hourOfDay          float64
	dayOfWeek          float64
	isPeakHour         float64
	trafficFactor      float64
	queueLength        float64
	availableBatteries float64
	totalBatteries     float64
	availableChargers  float64
	totalChargers      float64
	powerUsageKW       float64
	powerCapacityKW    float64
	stationReliability float64
	energyStability    float64
	avgWaitTime        float64

	weather [3]float64 // Clear, Fog, Rain
	status  [3]float64 // DEGRADED, MAINTENANCE, OPERATIONAL
	station [5]float64 // STATION_000 … STATION_004
}

// resolveFeatures applies the alias chains, defaults, and one-hot rules to a
// record. Total: it never fails, whatever the record holds.
func resolveFeatures(record InputRecord) resolvedFeatures {
	ts := record.Time()
	hour := ts.Hour()
	// 0=Monday … 6=Sunday.
	dow := (int(ts.Weekday()) + 6) % 7

	queue := record.QueueLength()

	var f resolvedFeatures
	f.hourOfDay = float64(hour)
	f.dayOfWeek = float64(dow)
	if peakHours[hour] {
		f.isPeakHour = 1
	}
	f.trafficFactor = 1.0
	if dow >= 5 {
		f.trafficFactor = 1.2
	}

	f.queueLength = queue
	f.availableBatteries = record.floatField(2*queue, "available_batteries", "availableBatteries")
	f.totalBatteries = record.floatField(50, "total_batteries")
	f.availableChargers = record.floatField(10, "available_chargers")
	f.totalChargers = record.floatField(15, "total_chargers")
	energyDemand := record.floatField(100, "energy_demand")
	f.powerUsageKW = record.floatField(energyDemand, "power_usage_kw", "powerUsageKw")
	f.powerCapacityKW = record.floatField(200, "power_capacity_kw")
	f.stationReliability = record.floatField(0.9, "station_reliability", "stationReliability", "station_reliability_score")
	f.energyStability = record.floatField(0.9, "energy_stability", "energyStability", "energy_stability_index")
	f.avgWaitTime = record.floatField(3*queue, "avg_wait_time", "avgWaitTime")

	temp := record.floatField(25, "weather_temp", "weatherTemp")
	condition := record.stringField("Clear", "weather_condition", "weatherCondition")
	// Branch order matters: the Fog branch (explicit Fog or cold) is checked
	// before the Rain branch ever sees the condition, and temperature only
	// ever escalates away from Clear.
	switch {
	case condition == "Fog" || temp < 10:
		f.weather[1] = 1
	case condition == "Rain" || temp > 35:
		f.weather[2] = 1
	default:
		f.weather[0] = 1
	}

	switch strings.ToUpper(record.stringField("OPERATIONAL", "status")) {
	case "DEGRADED":
		f.status[0] = 1
	case "MAINTENANCE":
		f.status[1] = 1
	default:
		f.status[2] = 1
	}

	stationID := record.stringField("STATION_000", "station_id", "stationId")
	slot := 0
	for i, id := range knownStations {
		if id == stationID {
			slot = i
			break
		}
	}
	f.station[slot] = 1

	return f
}

// Normalize converts a record into the ordered feature vector for a family:
// 23 values for standard, 25 for fault. Slot order is fixed per family and
// never depends on the input values. Non-tabular families get a nil vector.
func Normalize(record InputRecord, family ModelFamily) []float64 {
	if !family.Tabular() {
		return nil
	}
	f := resolveFeatures(record)

	switch family {
	case FamilyFault:
		v := make([]float64, 0, 25)
		v = append(v,
			f.queueLength,
			f.hourOfDay,
			f.dayOfWeek,
			f.isPeakHour,
			f.trafficFactor,
			f.availableBatteries,
			f.totalBatteries,
			f.availableChargers,
			f.totalChargers,
			f.powerUsageKW,
			f.powerCapacityKW,
			f.stationReliability,
			f.energyStability,
			f.avgWaitTime,
		)
		v = append(v, f.weather[:]...)
		v = append(v, f.status[:]...)
		v = append(v, f.station[:]...)
		return v
	case FamilyStandard:
		v := make([]float64, 0, 23)
		v = append(v,
			f.hourOfDay,
			f.dayOfWeek,
			f.isPeakHour,
			f.trafficFactor,
			f.queueLength,
			f.availableBatteries,
			f.totalBatteries,
			f.availableChargers,
			f.totalChargers,
			f.powerUsageKW,
			f.powerCapacityKW,
			f.stationReliability,
			f.energyStability,
		)
		v = append(v, f.weather[:]...)
		v = append(v, f.status[:]...)
		v = append(v, f.station[:4]...)
		return v
	default:
		return nil
	}
}

// FeatureMatrix wraps the normalized vector as a single-row batch, the shape
// tabular model artifacts expect.
func FeatureMatrix(record InputRecord, family ModelFamily) [][]float64 {
	return [][]float64{Normalize(record, family)}
}

// FeatureNames returns the slot names for a family's vector, aligned with
// Normalize. Useful for diagnostics and artifact validation.
func FeatureNames(family ModelFamily) []string {
	scalar := []string{
		"hour_of_day", "day_of_week", "is_peak_hour", "traffic_factor",
	}
	oneHot := []string{
		"weather_Clear", "weather_Fog", "weather_Rain",
		"status_DEGRADED", "status_MAINTENANCE", "status_OPERATIONAL",
	}

	switch family {
	case FamilyFault:
		names := append([]string{"queue_length"}, scalar...)
		names = append(names,
			"available_batteries", "total_batteries", "available_chargers", "total_chargers",
			"power_usage_kw", "power_capacity_kw", "station_reliability", "energy_stability",
			"avg_wait_time",
		)
		names = append(names, oneHot...)
		for _, id := range knownStations {
			names = append(names, "station_"+id)
		}
		return names
	case FamilyStandard:
		names := append([]string{}, scalar...)
		names = append(names,
			"current_queue",
			"available_batteries", "total_batteries", "available_chargers", "total_chargers",
			"power_usage_kw", "power_capacity_kw", "station_reliability", "energy_stability",
		)
		names = append(names, oneHot...)
		for _, id := range knownStations[:4] {
			names = append(names, "station_"+id)
		}
		return names
	default:
		return nil
	}
}
