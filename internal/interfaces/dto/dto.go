// Package dto holds the camelCase JSON shapes shared by the HTTP API and the
// operator CLI.
package dto

import (
	"time"

	"github.com/skf-site/simgrid-proxy/internal/domain/championship"
	"github.com/skf-site/simgrid-proxy/internal/domain/standings"
)

type ChampionshipListItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ChampionshipDetails struct {
	ID                     int64   `json:"id"`
	Name                   string  `json:"name"`
	StartDate              *string `json:"startDate"`
	EndDate                *string `json:"endDate"`
	Capacity               *int    `json:"capacity"`
	SpotsTaken             *int    `json:"spotsTaken"`
	AcceptingRegistrations bool    `json:"acceptingRegistrations"`
	HostName               string  `json:"hostName"`
	GameName               string  `json:"gameName"`
	URL                    string  `json:"url"`
}

type Standings struct {
	Entries   []StandingEntry `json:"entries"`
	Races     []StandingRace  `json:"races"`
	FetchedAt *time.Time      `json:"fetchedAt,omitempty"`
}

type StandingEntry struct {
	ID          int64              `json:"id"`
	Position    *int               `json:"position"`
	DisplayName string             `json:"displayName"`
	CountryCode string             `json:"countryCode"`
	Car         string             `json:"car"`
	Points      float64            `json:"points"`
	Penalties   float64            `json:"penalties"`
	Score       float64            `json:"score"`
	DSQ         bool               `json:"dsq"`
	RaceResults []DriverRaceResult `json:"raceResults"`
}

type DriverRaceResult struct {
	RaceID    *int64   `json:"raceId"`
	RaceIndex int      `json:"raceIndex"`
	Points    *float64 `json:"points"`
	Position  *int     `json:"position"`
	DNS       bool     `json:"dns"`
}

type StandingRace struct {
	ID               int64   `json:"id"`
	DisplayName      string  `json:"displayName"`
	StartsAt         *string `json:"startsAt"`
	ResultsAvailable bool    `json:"resultsAvailable"`
	Ended            bool    `json:"ended"`
}

func FromChampionshipList(items []championship.ListItem) []ChampionshipListItem {
	out := make([]ChampionshipListItem, 0, len(items))
	for _, item := range items {
		out = append(out, ChampionshipListItem{ID: item.ID, Name: item.Name})
	}
	return out
}

func FromChampionshipDetails(item championship.Details) ChampionshipDetails {
	return ChampionshipDetails{
		ID:                     item.ID,
		Name:                   item.Name,
		StartDate:              item.StartDate,
		EndDate:                item.EndDate,
		Capacity:               item.Capacity,
		SpotsTaken:             item.SpotsTaken,
		AcceptingRegistrations: item.AcceptingRegistrations,
		HostName:               item.HostName,
		GameName:               item.GameName,
		URL:                    item.URL,
	}
}

// FromStandings maps a snapshot. Empty lists stay empty arrays in JSON.
func FromStandings(snapshot standings.Snapshot) Standings {
	out := Standings{
		Entries: make([]StandingEntry, 0, len(snapshot.Entries)),
		Races:   make([]StandingRace, 0, len(snapshot.Races)),
	}
	for _, race := range snapshot.Races {
		out.Races = append(out.Races, StandingRace{
			ID:               race.ID,
			DisplayName:      race.DisplayName,
			StartsAt:         race.StartsAt,
			ResultsAvailable: race.ResultsAvailable,
			Ended:            race.Ended,
		})
	}
	for _, entry := range snapshot.Entries {
		results := make([]DriverRaceResult, 0, len(entry.RaceResults))
		for _, result := range entry.RaceResults {
			results = append(results, DriverRaceResult{
				RaceID:    result.RaceID,
				RaceIndex: result.RaceIndex,
				Points:    result.Points,
				Position:  result.Position,
				DNS:       result.DNS,
			})
		}
		out.Entries = append(out.Entries, StandingEntry{
			ID:          entry.ID,
			Position:    entry.Position,
			DisplayName: entry.DisplayName,
			CountryCode: entry.CountryCode,
			Car:         entry.Car,
			Points:      entry.Points,
			Penalties:   entry.Penalties,
			Score:       entry.Score,
			DSQ:         entry.DSQ,
			RaceResults: results,
		})
	}
	return out
}
