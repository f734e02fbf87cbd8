package standings

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standingsPayloadJSON = `[
  [
    {
      "id": 11,
      "display_name": "Zed Driver",
      "position_cache": null,
      "car": "BMW M4 GT3",
      "participant": {"country_code": "FI"},
      "championship_points": "12.5",
      "championship_score": 10,
      "partial_standings": [],
      "overall_partial_standings": [3, {"points": 25, "race_id": 902, "position": 1}, "bogus"]
    },
    {
      "id": 12,
      "display_name": "Ann Able",
      "position_cache": 2,
      "championship_score": 40,
      "partial_standings": [{"championship_points": 18, "rank": "2"}]
    },
    {
      "id": 13,
      "display_name": "   ",
      "position_cache": 1,
      "championship_score": 50,
      "championship_penalties": "NaN"
    },
    {
      "id": "14",
      "display_name": "Bob",
      "position_cache": "2",
      "championship_score": 45
    }
  ],
  [
    {"id": 901, "display_name": "Monza", "starts_at": "2026-01-10T18:00:00Z", "results_available": true, "ended": 1},
    {"id": "902", "race_name": "Spa", "starts_at": "", "ended": 0},
    "not-a-race",
    {"display_name": ""}
  ]
]`

func decodePayload(t *testing.T, raw string) any {
	t.Helper()

	var out any
	require.NoError(t, sonic.UnmarshalString(raw, &out))
	return out
}

func TestParsePayload_ParsesEntriesAndRaces(t *testing.T) {
	t.Parallel()

	got := ParsePayload(decodePayload(t, standingsPayloadJSON))

	want := Snapshot{
		Races: []Race{
			{ID: 901, DisplayName: "Monza", StartsAt: ptr("2026-01-10T18:00:00Z"), ResultsAvailable: true, Ended: true},
			{ID: 902, DisplayName: "Spa"},
			{ID: 0, DisplayName: "Race"},
		},
		Entries: []Entry{
			{ID: 13, Position: ptr(1), DisplayName: "Unknown driver", Score: 50, RaceResults: []RaceResult{}},
			{ID: 14, Position: ptr(2), DisplayName: "Bob", Score: 45, RaceResults: []RaceResult{}},
			{
				ID: 12, Position: ptr(2), DisplayName: "Ann Able", Score: 40,
				RaceResults: []RaceResult{
					{RaceID: ptr(int64(901)), RaceIndex: 0, Points: ptr(18.0), Position: ptr(2)},
				},
			},
			{
				ID: 11, DisplayName: "Zed Driver", CountryCode: "FI", Car: "BMW M4 GT3", Points: 12.5, Score: 10,
				RaceResults: []RaceResult{
					{RaceID: ptr(int64(901)), RaceIndex: 0, Position: ptr(3)},
					{RaceID: ptr(int64(902)), RaceIndex: 1, Points: ptr(25.0), Position: ptr(1)},
					{RaceIndex: 2},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected snapshot (-want +got):\n%s", diff)
	}
}

func TestParsePayload_IsDeterministicAndSorted(t *testing.T) {
	t.Parallel()

	raw := decodePayload(t, `[
	  [
	    {"id": 1, "display_name": "Charlie", "championship_score": 5},
	    {"id": 2, "display_name": "Alpha", "position_cache": 3, "championship_score": 5},
	    {"id": 3, "display_name": "Bravo", "position_cache": 3, "championship_score": 5},
	    {"id": 4, "display_name": "Delta", "championship_score": 9},
	    {"id": 5, "display_name": "Echo", "position_cache": 1},
	    {"id": 6, "display_name": "Alpha", "championship_score": 9}
	  ],
	  []
	]`)

	first := ParsePayload(raw)
	second := ParsePayload(raw)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("parse is not deterministic (-first +second):\n%s", diff)
	}

	for i := 1; i < len(first.Entries); i++ {
		if entryLess(first.Entries[i], first.Entries[i-1]) {
			t.Fatalf("entries out of order at %d: %+v before %+v", i, first.Entries[i-1], first.Entries[i])
		}
	}

	ids := make([]int64, 0, len(first.Entries))
	for _, entry := range first.Entries {
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []int64{5, 2, 3, 6, 4, 1}, ids)
}

func TestParsePayload_MalformedPayloadYieldsEmptySnapshot(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"null":                `null`,
		"object root":         `{"entries": [], "races": []}`,
		"empty list":          `[]`,
		"one element":         `[[]]`,
		"three elements":      `[[], [], []]`,
		"entries not a list":  `["entries", []]`,
		"races not a list":    `[[], {"id": 1}]`,
		"scalar root":         `42`,
		"string root":         `"standings"`,
		"nested wrong shapes": `[{"id": 1}, [1, 2]]`,
	}

	for name, raw := range tests {
		got := ParsePayload(decodePayload(t, raw))
		assert.Empty(t, got.Entries, name)
		assert.Empty(t, got.Races, name)
		assert.NotNil(t, got.Entries, name)
		assert.NotNil(t, got.Races, name)
	}
}

func TestParsePayload_ToleratesBadFields(t *testing.T) {
	t.Parallel()

	got := ParsePayload(decodePayload(t, `[
	  [
	    "not-an-entry",
	    {"id": "x", "display_name": 7, "championship_points": "lots", "participant": "none",
	     "partial_standings": [{"points": "n/a", "race_id": "abc", "position": "first"}, null, true]}
	  ],
	  [{"id": 77}]
	]`))

	require.Len(t, got.Entries, 2)
	for _, entry := range got.Entries {
		assert.Equal(t, int64(0), entry.ID)
		assert.Equal(t, "Unknown driver", entry.DisplayName)
		assert.Zero(t, entry.Points)
		assert.Nil(t, entry.Position)
	}

	var detailed Entry
	for _, entry := range got.Entries {
		if len(entry.RaceResults) > 0 {
			detailed = entry
		}
	}
	want := []RaceResult{
		{RaceIndex: 0},
		{RaceIndex: 1},
		{RaceIndex: 2},
	}
	if diff := cmp.Diff(want, detailed.RaceResults); diff != "" {
		t.Fatalf("unexpected race results (-want +got):\n%s", diff)
	}
}

func TestNeedsScrape(t *testing.T) {
	t.Parallel()

	races := []Race{{ID: 1, DisplayName: "R1"}}
	assert.False(t, NeedsScrape(Snapshot{}), "no races")
	assert.True(t, NeedsScrape(Snapshot{Races: races, Entries: []Entry{{DisplayName: "A"}}}))
	assert.True(t, NeedsScrape(Snapshot{Races: races, Entries: []Entry{{RaceResults: []RaceResult{{RaceIndex: 0, Points: ptr(1.0)}}}}}))
	assert.False(t, NeedsScrape(Snapshot{Races: races, Entries: []Entry{
		{DisplayName: "A"},
		{DisplayName: "B", RaceResults: []RaceResult{{RaceIndex: 0, Position: ptr(4)}}},
	}}))
}

func TestParsePayload_RaceIDSelection(t *testing.T) {
	t.Parallel()

	races := `[{"id": 901}, {"id": 902}, {"id": 903}, {"id": 904}]`
	tests := []struct {
		name   string
		result string
		want   *int64
	}{
		{name: "explicit race_id", result: `{"race_id": 55, "position": 2}`, want: ptr(int64(55))},
		{name: "raceId alias", result: `{"raceId": 56}`, want: ptr(int64(56))},
		{name: "truthy key wins over falsy one", result: `{"race_id": 0, "id": 57}`, want: ptr(int64(57))},
		{name: "present zero race_id is kept", result: `{"race_id": 0}`, want: ptr(int64(0))},
		{name: "present zero id is kept", result: `{"id": 0, "position": 3}`, want: ptr(int64(0))},
		{name: "null keys fall back to race list", result: `{"race_id": null, "position": 3}`, want: ptr(int64(901))},
		{name: "no keys fall back to race list", result: `{"position": 3}`, want: ptr(int64(901))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ParsePayload(decodePayload(t, `[[{"id": 1, "display_name": "A", "partial_standings": [`+tc.result+`]}], `+races+`]`))
			require.Len(t, got.Entries, 1)
			require.Len(t, got.Entries[0].RaceResults, 1)
			assert.Equal(t, tc.want, got.Entries[0].RaceResults[0].RaceID)
		})
	}
}

func TestParsePayload_BareBooleanIsNotARacePosition(t *testing.T) {
	t.Parallel()

	// Only JSON numbers count as bare positions. Python-style bool-as-int
	// coercion is not applied here, so true yields an empty result.
	got := ParsePayload(decodePayload(t, `[[{"id": 1, "display_name": "A", "partial_standings": [true, 4]}], [{"id": 901}, {"id": 902}]]`))

	require.Len(t, got.Entries, 1)
	want := []RaceResult{
		{RaceIndex: 0},
		{RaceIndex: 1, RaceID: ptr(int64(902)), Position: ptr(4)},
	}
	if diff := cmp.Diff(want, got.Entries[0].RaceResults); diff != "" {
		t.Fatalf("unexpected race results (-want +got):\n%s", diff)
	}
}
