package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skf-site/simgrid-proxy/internal/domain/championship"
	"github.com/skf-site/simgrid-proxy/internal/domain/standings"
)

func TestFromStandings_UsesCamelCaseKeys(t *testing.T) {
	t.Parallel()

	position := 3
	raceID := int64(901)
	snapshot := standings.Snapshot{
		Races: []standings.Race{{ID: 901, DisplayName: "Monza", ResultsAvailable: true}},
		Entries: []standings.Entry{{
			ID:          1,
			DisplayName: "José Pérez",
			CountryCode: "ES",
			DSQ:         true,
			RaceResults: []standings.RaceResult{{RaceID: &raceID, RaceIndex: 0, Position: &position}},
		}},
	}

	raw, err := sonic.ConfigStd.Marshal(FromStandings(snapshot))
	require.NoError(t, err)
	body := string(raw)

	for _, key := range []string{`"displayName"`, `"countryCode"`, `"raceResults"`, `"raceId"`, `"raceIndex"`, `"resultsAvailable"`, `"dsq"`} {
		assert.Contains(t, body, key)
	}
	assert.NotContains(t, body, `"DisplayName"`)
	assert.NotContains(t, body, `"fetchedAt"`)
}

func TestFromStandings_EmptySnapshotKeepsArrays(t *testing.T) {
	t.Parallel()

	raw, err := sonic.ConfigStd.Marshal(FromStandings(standings.Snapshot{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries": [], "races": []}`, string(raw))
}

func TestFromChampionshipDetails(t *testing.T) {
	t.Parallel()

	capacity := 40
	got := FromChampionshipDetails(championship.Details{
		ID:                     12,
		Name:                   "GT3 Sprint Cup",
		Capacity:               &capacity,
		AcceptingRegistrations: true,
		HostName:               "SKF",
	})

	raw, err := sonic.ConfigStd.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"acceptingRegistrations":true`)
	assert.Contains(t, string(raw), `"hostName":"SKF"`)
	assert.Contains(t, string(raw), `"spotsTaken":null`)
}

func TestFromChampionshipList(t *testing.T) {
	t.Parallel()

	got := FromChampionshipList([]championship.ListItem{{ID: 12, Name: "A"}, {ID: 13, Name: "B"}})
	assert.Equal(t, []ChampionshipListItem{{ID: 12, Name: "A"}, {ID: 13, Name: "B"}}, got)
	assert.NotNil(t, FromChampionshipList(nil))
}
