package rawdata

import "time"

const SourceSimGrid = "simgrid"

// Payload is an upstream JSON response archived under a cache key such as
// "championships/42/standings".
type Payload struct {
	CacheKey    string
	Source      string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
