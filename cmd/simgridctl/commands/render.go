package commands

import (
	"fmt"
	"io"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/skf-site/simgrid-proxy/internal/domain/championship"
	"github.com/skf-site/simgrid-proxy/internal/domain/standings"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func renderChampionships(w io.Writer, items []championship.ListItem) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, item := range items {
		t.AppendRow(table.Row{item.ID, item.Name})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d championships", len(items))})
	t.Render()
}

func renderChampionship(w io.Writer, item championship.Details) {
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"ID", item.ID},
		{"Name", item.Name},
		{"Game", item.GameName},
		{"Host", item.HostName},
		{"Start", optional(item.StartDate)},
		{"End", optional(item.EndDate)},
		{"Spots", spots(item.SpotsTaken, item.Capacity)},
		{"Registrations open", item.AcceptingRegistrations},
		{"URL", item.URL},
	})
	t.Render()
}

// renderStandings prints one row per entry with a column per race. Race
// cells show the finish position, DNS, or "-" when there is nothing.
func renderStandings(w io.Writer, snapshot standings.Snapshot) {
	t := newTable(w)

	header := table.Row{"Pos", "Driver", "Car", "Points", "Pen", "Score"}
	for _, race := range snapshot.Races {
		header = append(header, race.DisplayName)
	}
	t.AppendHeader(header)

	for _, entry := range snapshot.Entries {
		name := entry.DisplayName
		if entry.DSQ {
			name += " (DSQ)"
		}
		row := table.Row{optionalInt(entry.Position), name, entry.Car, entry.Points, entry.Penalties, entry.Score}
		cells := make([]string, len(snapshot.Races))
		for i := range cells {
			cells[i] = "-"
		}
		for _, result := range entry.RaceResults {
			if result.RaceIndex < 0 || result.RaceIndex >= len(cells) {
				continue
			}
			cells[result.RaceIndex] = raceCell(result)
		}
		for _, cell := range cells {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}

	configs := []table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

func raceCell(result standings.RaceResult) string {
	switch {
	case result.DNS && result.Position == nil:
		return "DNS"
	case result.Position != nil:
		return "P" + strconv.Itoa(*result.Position)
	case result.Points != nil:
		return strconv.FormatFloat(*result.Points, 'f', -1, 64) + " pts"
	default:
		return "-"
	}
}

func optional(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func spots(taken, capacity *int) string {
	return optionalInt(taken) + "/" + optionalInt(capacity)
}
