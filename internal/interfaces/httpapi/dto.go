package httpapi

type cacheInvalidationDTO struct {
	ChampionshipID int64 `json:"championshipId"`
	Invalidated    bool  `json:"invalidated"`
}
