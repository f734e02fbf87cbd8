package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skf-site/simgrid-proxy/internal/domain/standings"
)

const standingsJSON = `[
  [
    {"id": 1, "display_name": "José Pérez", "position_cache": 1, "partial_standings": [1, 2]},
    {"id": 2, "display_name": "Mark Doe", "position_cache": 2, "partial_standings": [3, 1]}
  ],
  [
    {"id": 501, "display_name": "Monza"},
    {"id": 502, "display_name": "Spa"}
  ]
]`

func newSimGridServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/championships", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 12, "name": "GT3 Sprint Cup"}, {"id": 13, "name": "Endurance Series"}]`))
	})
	mux.HandleFunc("GET /api/v1/championships/{id}/standings", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "12" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(standingsJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("APP_ENV", "dev")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
	t.Setenv("ARCHIVE_ENABLED", "false")
	t.Setenv("WARMUP_CHAMPIONSHIP_IDS", "")
	t.Setenv("SIMGRID_BASE_URL", baseURL)
	t.Setenv("SIMGRID_TIMEOUT", "5s")

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestStandingsCommand_RendersTable(t *testing.T) {
	srv := newSimGridServer(t)

	output, err := runCLI(t, srv.URL, "standings", "12")
	require.NoError(t, err)
	assert.Contains(t, output, "José Pérez")
	assert.Contains(t, output, "Mark Doe")
	// go-pretty upper-cases headers.
	assert.Contains(t, output, "MONZA")
	assert.Contains(t, output, "SPA")
}

func TestStandingsCommand_JSON(t *testing.T) {
	srv := newSimGridServer(t)

	output, err := runCLI(t, srv.URL, "standings", "12", "--json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(output), "{"))
	assert.Contains(t, output, `"displayName": "José Pérez"`)
	assert.Contains(t, output, `"raceResults": [`)
	assert.Contains(t, output, `"raceId": 501`)
	assert.NotContains(t, output, `"DisplayName"`)
}

func TestChampionshipsCommand_JSON(t *testing.T) {
	srv := newSimGridServer(t)

	output, err := runCLI(t, srv.URL, "championships", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 12, "name": "GT3 Sprint Cup"}, {"id": 13, "name": "Endurance Series"}]`, output)
}

func TestStandingsCommand_UpstreamFailure(t *testing.T) {
	srv := newSimGridServer(t)

	_, err := runCLI(t, srv.URL, "standings", "99")
	require.Error(t, err)
}

func TestStandingsCommand_RejectsInvalidID(t *testing.T) {
	srv := newSimGridServer(t)

	for _, arg := range []string{"0", "-4", "abc"} {
		_, err := runCLI(t, srv.URL, "standings", "--", arg)
		require.Error(t, err, "arg %q", arg)
		assert.Contains(t, err.Error(), "invalid championship id")
	}
}

func TestChampionshipsCommand_RendersTable(t *testing.T) {
	srv := newSimGridServer(t)

	output, err := runCLI(t, srv.URL, "championships")
	require.NoError(t, err)
	assert.Contains(t, output, "GT3 Sprint Cup")
	assert.Contains(t, output, "2 CHAMPIONSHIPS")
}

func TestArchiveCommand_MissingKey(t *testing.T) {
	srv := newSimGridServer(t)

	_, err := runCLI(t, srv.URL, "archive", "championships/12/standings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no archived payload")
}

func TestRaceCell(t *testing.T) {
	t.Parallel()

	position := 4
	points := 12.5
	assert.Equal(t, "P4", raceCell(standings.RaceResult{Position: &position, DNS: true}))
	assert.Equal(t, "DNS", raceCell(standings.RaceResult{DNS: true}))
	assert.Equal(t, "12.5 pts", raceCell(standings.RaceResult{Points: &points}))
	assert.Equal(t, "-", raceCell(standings.RaceResult{}))
}

func TestRenderStandings_MarksDSQAndMissingRaces(t *testing.T) {
	t.Parallel()

	position := 2
	snapshot := standings.Snapshot{
		Races: []standings.Race{{ID: 1, DisplayName: "Monza"}, {ID: 2, DisplayName: "Spa"}},
		Entries: []standings.Entry{{
			ID:          7,
			DisplayName: "Mark Doe",
			DSQ:         true,
			RaceResults: []standings.RaceResult{{RaceIndex: 1, Position: &position}},
		}},
	}

	var buf bytes.Buffer
	renderStandings(&buf, snapshot)
	assert.Contains(t, buf.String(), "Mark Doe (DSQ)")
	assert.Contains(t, buf.String(), "P2")
}
