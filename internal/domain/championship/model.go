package championship

// ListItem is one championship in the public listing.
type ListItem struct {
	ID   int64
	Name string
}

// Details describes a single championship as published upstream.
type Details struct {
	ID                     int64
	Name                   string
	StartDate              *string
	EndDate                *string
	Capacity               *int
	SpotsTaken             *int
	AcceptingRegistrations bool
	HostName               string
	GameName               string
	URL                    string
}
