// Package domain models battery-swap station state snapshots and their
// conversion into the fixed-order feature vectors the station ML models expect.
//
// # Input Records
//
// A station record is a loosely-structured JSON object snapshotting queue,
// battery, charger, power, and weather state at a point in time. Clients send
// keys in either snake_case or camelCase; snake_case wins when both are
// present. No key is required; every field has a documented default, and some
// defaults derive from other resolved fields:
//
//	current_queue / currentQueue / queue_length   → 5
//	available_batteries / availableBatteries      → 2 × current_queue
//	total_batteries                               → 50
//	available_chargers                            → 10
//	total_chargers                                → 15
//	energy_demand                                 → 100
//	power_usage_kw / powerUsageKw                 → energy_demand
//	power_capacity_kw                             → 200
//	station_reliability / stationReliability /
//	  station_reliability_score                   → 0.9
//	energy_stability / energyStability /
//	  energy_stability_index                      → 0.9
//	avg_wait_time / avgWaitTime                   → 3 × current_queue
//	station_id / stationId                        → "STATION_000"
//	weather_temp / weatherTemp                    → 25
//	weather_condition / weatherCondition          → "Clear"
//	status                                        → "OPERATIONAL"
//	timestamp                                     → now (ISO-8601 when given)
//
// # Model Families
//
// The model filename determines the family, by case-insensitive substring
// match in priority order: "fault" → fault, "recommender" → recommender,
// "gemini"/"llm" → llm, anything else → standard. Tabular families (standard,
// fault) consume feature vectors; recommender and llm consume the raw record.
//
// # Feature Vectors
//
// Vector length and slot order are a pure function of the family (23 slots
// for standard, 25 for fault) and are part of the contract with the trained
// artifact. Fault vectors lead with queue_length and additionally carry
// avg_wait_time and a fifth station slot. Three one-hot groups each sum to
// exactly 1:
//
//	weather: Clear | Fog | Rain
//	  Fog when condition == "Fog" or temperature < 10;
//	  Rain when condition == "Rain" or temperature > 35;
//	  otherwise Clear. The Fog branch is evaluated first, so a cold reading
//	  lands on Fog even alongside an explicit Rain condition; temperature
//	  only ever escalates away from Clear.
//	status:  DEGRADED | MAINTENANCE | OPERATIONAL (unrecognized → OPERATIONAL)
//	station: STATION_000 … STATION_004 (unrecognized → STATION_000)
//
// Derived slots: is_peak_hour is 1 for hours {8, 9, 17, 18, 19};
// traffic_factor is 1.2 on weekends (day_of_week uses 0=Monday … 6=Sunday)
// and 1.0 otherwise.
//
// Normalization is total: malformed or uncoercible values degrade to their
// defaults rather than failing.
//
// # Fallback Predictions
//
// When an artifact is missing, unreadable, or errors during invocation, the
// fallback table produces a canned prediction keyed on the first matching
// filename substring (see DefaultFallbackRules). Fallback results always carry
// "fallback": true. The table is deliberately crude: fixed constants, except
// the queue/wait echoes and the peak-hour traffic boost.
package domain
