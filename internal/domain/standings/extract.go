package standings

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	resultsTableRegex   = regexp.MustCompile(`(?i)<table[^>]*class="[^"]*table-results[^"]*table-v2[^"]*"[^>]*>[\s\S]*?</table>`)
	raceIDRegex         = regexp.MustCompile(`race_id=(\d+)`)
	tableRowRegex       = regexp.MustCompile(`(?i)<tr[\s\S]*?</tr>`)
	entrantNameRegex    = regexp.MustCompile(`(?i)class="entrant-name[^"]*"[^>]*>([\s\S]*?)</a>`)
	resultPositionRegex = regexp.MustCompile(`(?i)class="[^"]*result-position[^"]*"[^>]*>[\s\S]*?<strong>\s*([^<]+)\s*</strong>`)
	positionsOpenRegex  = regexp.MustCompile(`(?i)<span class="show_positions">`)
	positionsEndRegex   = regexp.MustCompile(`(?i)</span>\s*(<span class="show_points|</td>)`)
	disqualifiedRegex   = regexp.MustCompile(`(?i)<span[^>]*title="Disqualified"[^>]*>\s*DSQ\s*</span>`)
)

const entrantNameMarker = "entrant-name"

// RaceColumn is one race column of the scraped results table.
type RaceColumn struct {
	RaceID    int64
	RaceIndex int
}

// ScrapedRow is one driver row of the scraped results table. Cells are
// aligned with the table's race columns.
type ScrapedRow struct {
	NormalizedName string
	Position       *int
	Cells          []RaceCell
	DSQ            bool
}

// Scrape is what ExtractHTML reads from a standings page.
type Scrape struct {
	RaceColumns []RaceColumn
	Rows        []ScrapedRow
}

// ExtractHTML locates the results table in a standings page and reads its
// race columns and driver rows. It reports false when the table is missing or
// has no driver rows.
func ExtractHTML(document string) (*Scrape, bool) {
	table := resultsTableRegex.FindString(document)
	if table == "" {
		return nil, false
	}

	columns := extractRaceColumns(table)
	rows := make([]ScrapedRow, 0)
	for _, row := range tableRowRegex.FindAllString(table, -1) {
		if !strings.Contains(row, entrantNameMarker) {
			continue
		}
		rows = append(rows, extractRow(row, len(columns)))
	}
	if len(rows) == 0 {
		return nil, false
	}

	return &Scrape{RaceColumns: columns, Rows: rows}, true
}

func extractRaceColumns(table string) []RaceColumn {
	seen := make(map[int64]struct{})
	out := make([]RaceColumn, 0)
	for _, match := range raceIDRegex.FindAllStringSubmatch(table, -1) {
		raceID, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		if _, ok := seen[raceID]; ok {
			continue
		}
		seen[raceID] = struct{}{}
		out = append(out, RaceColumn{RaceID: raceID, RaceIndex: len(out)})
	}
	return out
}

func extractRow(row string, columnCount int) ScrapedRow {
	out := ScrapedRow{
		Cells: make([]RaceCell, columnCount),
		DSQ:   disqualifiedRegex.MatchString(row),
	}

	if match := entrantNameRegex.FindStringSubmatch(row); match != nil {
		out.NormalizedName = NormalizeName(StripHTML(match[1]))
	}
	if match := resultPositionRegex.FindStringSubmatch(row); match != nil {
		out.Position = lastInt(StripHTML(match[1]))
	}

	texts := raceCellTexts(row)
	for i := 0; i < columnCount && i < len(texts); i++ {
		out.Cells[i] = ParseRaceCell(StripHTML(texts[i]))
	}
	return out
}

// raceCellTexts returns the inner markup of every show_positions span. A
// span may nest others, so its content runs up to the closing tag that is
// followed by the points span or the end of the cell.
func raceCellTexts(row string) []string {
	var out []string
	offset := 0
	for offset < len(row) {
		open := positionsOpenRegex.FindStringIndex(row[offset:])
		if open == nil {
			break
		}
		contentStart := offset + open[1]
		end := positionsEndRegex.FindStringSubmatchIndex(row[contentStart:])
		if end == nil {
			break
		}
		out = append(out, row[contentStart:contentStart+end[0]])
		offset = contentStart + end[2]
	}
	return out
}

// StripHTML returns the text of a markup fragment with tags treated as word
// breaks, entities decoded and whitespace collapsed.
func StripHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(html.UnescapeString(fragment)), " ")
	}

	var parts []string
	for _, node := range doc.Selection.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		*parts = append(*parts, node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}
