package standings

import "sort"

const (
	defaultRaceName   = "Race"
	defaultDriverName = "Unknown driver"
)

// Race is one event of a championship. Races are ordered and their index is
// the join key between the API payload and the scraped page.
type Race struct {
	ID               int64
	DisplayName      string
	StartsAt         *string
	ResultsAvailable bool
	Ended            bool
}

// RaceResult is one participant's outcome for the race at RaceIndex.
type RaceResult struct {
	RaceID    *int64
	RaceIndex int
	Points    *float64
	Position  *int
	DNS       bool
}

// Entry is one participant's aggregate standing.
type Entry struct {
	ID          int64
	Position    *int
	DisplayName string
	CountryCode string
	Car         string
	Points      float64
	Penalties   float64
	Score       float64
	DSQ         bool
	RaceResults []RaceResult
}

// Snapshot is the standings of one championship at one point in time. A
// Snapshot handed to a caller is never mutated afterwards; use Clone before
// deriving a new one.
type Snapshot struct {
	Entries []Entry
	Races   []Race
}

func (s Snapshot) Clone() Snapshot {
	var out Snapshot
	if s.Races != nil {
		out.Races = make([]Race, len(s.Races))
		for i, race := range s.Races {
			race.StartsAt = clonePtr(race.StartsAt)
			out.Races[i] = race
		}
	}
	if s.Entries != nil {
		out.Entries = make([]Entry, len(s.Entries))
		for i, entry := range s.Entries {
			out.Entries[i] = entry.Clone()
		}
	}
	return out
}

func (e Entry) Clone() Entry {
	e.Position = clonePtr(e.Position)
	if e.RaceResults == nil {
		return e
	}
	results := make([]RaceResult, len(e.RaceResults))
	for i, result := range e.RaceResults {
		results[i] = result.Clone()
	}
	e.RaceResults = results
	return e
}

func (r RaceResult) Clone() RaceResult {
	r.RaceID = clonePtr(r.RaceID)
	r.Points = clonePtr(r.Points)
	r.Position = clonePtr(r.Position)
	return r
}

// HasRacePositions reports whether any entry carries a race finish position.
func (s Snapshot) HasRacePositions() bool {
	for _, entry := range s.Entries {
		for _, result := range entry.RaceResults {
			if result.Position != nil {
				return true
			}
		}
	}
	return false
}

// SortEntries orders entries by overall position (missing last), then score
// descending, then display name.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(entries[i], entries[j])
	})
}

func entryLess(a, b Entry) bool {
	switch {
	case a.Position != nil && b.Position == nil:
		return true
	case a.Position == nil && b.Position != nil:
		return false
	case a.Position != nil && b.Position != nil && *a.Position != *b.Position:
		return *a.Position < *b.Position
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.DisplayName < b.DisplayName
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func ptr[T any](v T) *T {
	return &v
}
