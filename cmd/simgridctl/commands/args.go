package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type championshipArgs struct {
	ChampionshipID int64 `validate:"gt=0"`
}

type archiveArgs struct {
	CacheKey string `validate:"required,max=255"`
}

func parseChampionshipArgs(args []string) (championshipArgs, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return championshipArgs{}, fmt.Errorf("invalid championship id %q", args[0])
	}
	parsed := championshipArgs{ChampionshipID: id}
	if err := validate.Struct(parsed); err != nil {
		return championshipArgs{}, fmt.Errorf("invalid championship id %q: must be > 0", args[0])
	}
	return parsed, nil
}

func parseArchiveArgs(args []string) (archiveArgs, error) {
	parsed := archiveArgs{CacheKey: strings.TrimSpace(args[0])}
	if err := validate.Struct(parsed); err != nil {
		return archiveArgs{}, fmt.Errorf("invalid cache key: %w", err)
	}
	return parsed, nil
}
