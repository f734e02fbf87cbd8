package standings

import (
	"fmt"
	"sort"

	"github.com/antzucaro/matchr"
)

// LowConfidenceThreshold is the name similarity under which a row matched by
// position or order is reported as doubtful.
const LowConfidenceThreshold = 0.85

type MatchMethod string

const (
	MatchByName     MatchMethod = "name"
	MatchByPosition MatchMethod = "position"
	MatchByOrder    MatchMethod = "order"
)

// LowConfidenceMatch describes an entry that was paired with a scraped row
// whose name looks different.
type LowConfidenceMatch struct {
	EntryID    int64
	EntryName  string
	RowName    string
	Method     MatchMethod
	Similarity float64
}

// ReconcileReport summarizes how entries were paired with scraped rows.
type ReconcileReport struct {
	Applied       bool
	ByName        int
	ByPosition    int
	ByOrder       int
	Unmatched     int
	AddedRaces    int
	LowConfidence []LowConfidenceMatch
}

// NeedsScrape reports whether the page should be scraped: the snapshot has
// races but no entry has a single race position.
func NeedsScrape(s Snapshot) bool {
	return len(s.Races) > 0 && !s.HasRacePositions()
}

// Reconcile merges scraped race positions into s and returns a new snapshot.
// Entries keep their order. Scraped values only fill fields that are absent;
// each scraped row is used for at most one entry.
func Reconcile(s Snapshot, scrape *Scrape) (Snapshot, ReconcileReport) {
	var report ReconcileReport
	if scrape == nil || len(scrape.RaceColumns) == 0 || len(scrape.Rows) == 0 {
		return s, report
	}
	report.Applied = true

	out := s.Clone()
	for idx, column := range scrape.RaceColumns {
		if idx < len(out.Races) {
			continue
		}
		raceID := column.RaceID
		if raceID == 0 {
			raceID = -int64(idx + 1)
		}
		out.Races = append(out.Races, Race{ID: raceID, DisplayName: fmt.Sprintf("Race %d", idx+1)})
		report.AddedRaces++
	}

	used := make(map[int]struct{}, len(scrape.Rows))
	for entryIdx, entry := range out.Entries {
		rowIdx, method := findRow(entry, entryIdx, scrape.Rows, used)
		if rowIdx < 0 {
			report.Unmatched++
			continue
		}
		used[rowIdx] = struct{}{}
		row := scrape.Rows[rowIdx]
		report.record(entry, row, method)

		entry.RaceResults = mergeRaceResults(entry.RaceResults, row.Cells, out.Races)
		if row.DSQ {
			entry.DSQ = true
		}
		out.Entries[entryIdx] = entry
	}

	return out, report
}

func findRow(entry Entry, entryIdx int, rows []ScrapedRow, used map[int]struct{}) (int, MatchMethod) {
	name := NormalizeName(entry.DisplayName)
	for i, row := range rows {
		if _, taken := used[i]; !taken && row.NormalizedName == name {
			return i, MatchByName
		}
	}

	if entry.Position != nil {
		for i, row := range rows {
			if _, taken := used[i]; taken || row.Position == nil {
				continue
			}
			if *row.Position == *entry.Position {
				return i, MatchByPosition
			}
		}
	}

	if entryIdx < len(rows) {
		if _, taken := used[entryIdx]; !taken {
			return entryIdx, MatchByOrder
		}
	}
	return -1, ""
}

func mergeRaceResults(current []RaceResult, cells []RaceCell, races []Race) []RaceResult {
	byIndex := make(map[int]RaceResult, len(current)+len(cells))
	for _, result := range current {
		byIndex[result.RaceIndex] = result
	}

	for raceIdx, cell := range cells {
		existing, ok := byIndex[raceIdx]
		switch {
		case ok:
			if existing.RaceID == nil {
				existing.RaceID = positionalRaceID(races, raceIdx)
			}
			if existing.Position == nil {
				existing.Position = clonePtr(cell.Position)
			}
			existing.DNS = existing.DNS || cell.DNS
			byIndex[raceIdx] = existing
		case cell.HasSignal():
			byIndex[raceIdx] = RaceResult{
				RaceID:    positionalRaceID(races, raceIdx),
				RaceIndex: raceIdx,
				Position:  clonePtr(cell.Position),
				DNS:       cell.DNS,
			}
		}
	}

	out := make([]RaceResult, 0, len(byIndex))
	for _, result := range byIndex {
		out = append(out, result)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RaceIndex < out[j].RaceIndex
	})
	return out
}

func (r *ReconcileReport) record(entry Entry, row ScrapedRow, method MatchMethod) {
	switch method {
	case MatchByName:
		r.ByName++
		return
	case MatchByPosition:
		r.ByPosition++
	case MatchByOrder:
		r.ByOrder++
	}

	var similarity float64
	if entryName := NormalizeName(entry.DisplayName); entryName != "" && row.NormalizedName != "" {
		similarity = matchr.JaroWinkler(entryName, row.NormalizedName, false)
	}
	if similarity < LowConfidenceThreshold {
		r.LowConfidence = append(r.LowConfidence, LowConfidenceMatch{
			EntryID:    entry.ID,
			EntryName:  entry.DisplayName,
			RowName:    row.NormalizedName,
			Method:     method,
			Similarity: similarity,
		})
	}
}
