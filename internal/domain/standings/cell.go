package standings

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	zeroWidthRegex = regexp.MustCompile(`[\x{200B}-\x{200F}\x{FEFF}]`)
	cellSplitRegex = regexp.MustCompile(`\s*\x{00B7}\s*`)
	dnsTokenRegex  = regexp.MustCompile(`(?i)\bDNS\b`)
	integerRegex   = regexp.MustCompile(`-?\d+`)
)

// RaceCell is the parsed content of one scraped standings cell.
type RaceCell struct {
	Position *int
	DNS      bool
}

// HasSignal reports whether the cell carries a position or a DNS flag.
func (c RaceCell) HasSignal() bool {
	return c.Position != nil || c.DNS
}

// ParseRaceCell reads a "qualifying · race" cell. Only the race half is used
// for the finish position. DNS in the qualifying half counts only when the
// race half has no number.
func ParseRaceCell(text string) RaceCell {
	cleaned := strings.TrimSpace(zeroWidthRegex.ReplaceAllString(text, ""))
	if cleaned == "" || cleaned == "-" || cleaned == "\u2014" {
		return RaceCell{}
	}

	racePart := cleaned
	if parts := cellSplitRegex.Split(cleaned, -1); len(parts) >= 2 {
		racePart = strings.TrimSpace(parts[len(parts)-1])
	}

	position := lastInt(racePart)
	dns := dnsTokenRegex.MatchString(racePart) || (position == nil && dnsTokenRegex.MatchString(cleaned))
	return RaceCell{Position: position, DNS: dns}
}

func lastInt(text string) *int {
	matches := integerRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	v, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return nil
	}
	return &v
}
