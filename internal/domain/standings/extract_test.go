package standings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHTML_ReadsColumnsAndRows(t *testing.T) {
	t.Parallel()

	got, ok := ExtractHTML(standingsPageHTML)
	require.True(t, ok)

	want := &Scrape{
		RaceColumns: []RaceColumn{
			{RaceID: 501, RaceIndex: 0},
			{RaceID: 502, RaceIndex: 1},
			{RaceID: 503, RaceIndex: 2},
			{RaceID: 504, RaceIndex: 3},
		},
		Rows: []ScrapedRow{
			{
				NormalizedName: "jose perez",
				Position:       ptr(1),
				Cells:          []RaceCell{{Position: ptr(1)}, {Position: ptr(1)}, {}, {}},
			},
			{
				NormalizedName: "anna lena o brien",
				Position:       ptr(2),
				Cells:          []RaceCell{{DNS: true}, {Position: ptr(2)}, {DNS: true}, {}},
			},
			{
				NormalizedName: "mark doe",
				Position:       ptr(3),
				Cells:          []RaceCell{{Position: ptr(3)}, {Position: ptr(7)}, {}, {}},
				DSQ:            true,
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected scrape (-want +got):\n%s", diff)
	}
}

func TestExtractHTML_FailsWithoutResultsTable(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty document": "",
		"plain table":    `<table class="table"><tr><td><a class="entrant-name">A</a></td></tr></table>`,
		"markers in wrong order": `<table class="table-v2 table-results">` +
			`<tr><td><a class="entrant-name">A</a></td></tr></table>`,
	}
	for name, doc := range tests {
		got, ok := ExtractHTML(doc)
		assert.False(t, ok, name)
		assert.Nil(t, got, name)
	}
}

func TestExtractHTML_FailsWithoutEntrantRows(t *testing.T) {
	t.Parallel()

	doc := `<TABLE class="table-results table-v2"><tr><th><a href="?race_id=1">R1</a></th></tr></TABLE>`
	got, ok := ExtractHTML(doc)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestExtractHTML_RowWithoutColumnsHasNoCells(t *testing.T) {
	t.Parallel()

	doc := `<table class="table-results x table-v2"><tr><td><a class="entrant-name" href="#">Solo</a></td>` +
		`<td><span class="show_positions">1 · 1</span></td></tr></table>`
	got, ok := ExtractHTML(doc)
	require.True(t, ok)
	assert.Empty(t, got.RaceColumns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "solo", got.Rows[0].NormalizedName)
	assert.Nil(t, got.Rows[0].Position)
	assert.Empty(t, got.Rows[0].Cells)
}

func TestRaceCellTexts_KeepsNestedSpans(t *testing.T) {
	t.Parallel()

	row := `<td><span class="show_positions">2<span class="sep">·</span>1</span> <span class="show_points">25</span></td>` +
		`<td><span class="show_positions"><span>DNS</span></span>
		</td><td><span class="show_positions">unterminated</span><span class="other">x</span>`

	got := raceCellTexts(row)
	assert.Equal(t, []string{`2<span class="sep">·</span>1`, `<span>DNS</span>`}, got)
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`<b>A</b>&amp;<i>B</i>`:                "A & B",
		"  Jos&eacute;\n  P&eacute;rez ":       "José Pérez",
		`2<span class="mx-1">·</span>1`:        "2 · 1",
		"":                                     "",
		`<span class="show_positions"></span>`: "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripHTML(in), "input %q", in)
	}
}
