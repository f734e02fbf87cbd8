package standings

// ParsePayload converts the decoded standings payload into a Snapshot. The
// payload is a two element list of entry records and race records; any other
// shape yields an empty Snapshot.
func ParsePayload(raw any) Snapshot {
	root, ok := asList(raw)
	if !ok || len(root) != 2 {
		return Snapshot{Entries: []Entry{}, Races: []Race{}}
	}
	rawEntries, entriesOK := asList(root[0])
	rawRaces, racesOK := asList(root[1])
	if !entriesOK || !racesOK {
		return Snapshot{Entries: []Entry{}, Races: []Race{}}
	}

	races := parseRaces(rawRaces)
	entries := make([]Entry, 0, len(rawEntries))
	for _, item := range rawEntries {
		entries = append(entries, parseEntry(asMap(item), races))
	}
	SortEntries(entries)

	return Snapshot{Entries: entries, Races: races}
}

func parseRaces(items []any) []Race {
	out := make([]Race, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Race{
			ID:               intOr(obj["id"], 0),
			DisplayName:      textOr(firstTruthy(obj, "display_name", "race_name"), defaultRaceName),
			StartsAt:         nullableText(obj["starts_at"]),
			ResultsAvailable: truthy(obj["results_available"]),
			Ended:            truthy(obj["ended"]),
		})
	}
	return out
}

func parseEntry(obj map[string]any, races []Race) Entry {
	detail := obj["partial_standings"]
	if list, ok := asList(detail); !ok || len(list) == 0 {
		detail = obj["overall_partial_standings"]
	}
	participant := asMap(obj["participant"])

	return Entry{
		ID:          intOr(obj["id"], 0),
		Position:    nullableInt(obj["position_cache"]),
		DisplayName: textOr(obj["display_name"], defaultDriverName),
		CountryCode: textOr(participant["country_code"], ""),
		Car:         textOr(obj["car"], ""),
		Points:      floatOr(obj["championship_points"], 0),
		Penalties:   floatOr(obj["championship_penalties"], 0),
		Score:       floatOr(obj["championship_score"], 0),
		RaceResults: parseRaceResults(detail, races),
	}
}

func parseRaceResults(raw any, races []Race) []RaceResult {
	items, ok := asList(raw)
	if !ok {
		return []RaceResult{}
	}

	out := make([]RaceResult, 0, len(items))
	for idx, item := range items {
		result := RaceResult{RaceIndex: idx}
		switch typed := item.(type) {
		case float64, float32, int, int64:
			result.RaceID = positionalRaceID(races, idx)
			result.Position = nullableInt(typed)
		case map[string]any:
			result.Points = nullableFloat(firstTruthy(typed, "points", "championship_points", "score", "championship_score"))
			if candidate, ok := raceIDCandidate(typed); ok {
				result.RaceID = nullableInt64(candidate)
			} else {
				result.RaceID = positionalRaceID(races, idx)
			}
			result.Position = nullableInt(firstTruthy(typed, "position", "position_cache", "rank"))
		}
		out = append(out, result)
	}
	return out
}

// raceIDCandidate prefers the first truthy race id key. A present but falsy
// id such as 0 is still the record's own id; only records without any of the
// keys fall back to the race list.
func raceIDCandidate(item map[string]any) (any, bool) {
	keys := []string{"race_id", "raceId", "id"}
	if v := firstTruthy(item, keys...); v != nil {
		return v, true
	}
	for _, key := range keys {
		if v, ok := item[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func positionalRaceID(races []Race, idx int) *int64 {
	if idx < len(races) {
		return ptr(races[idx].ID)
	}
	return nil
}
