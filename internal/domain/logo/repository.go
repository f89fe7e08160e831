package logo

import "context"

// Team is one club as listed by a badge provider.
type Team struct {
	Name     string
	League   string
	BadgeURL string
}

// TeamSource lists the teams of a league.
type TeamSource interface {
	TeamsByLeague(ctx context.Context, league string) ([]Team, error)
}

// ImageFetcher downloads one badge. ext includes the leading dot.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) (data []byte, ext string, err error)
}

// Repository stores badge files and the name-to-path map built from them.
type Repository interface {
	ListImages(ctx context.Context) ([]string, error)
	HasImage(ctx context.Context, slug string) (bool, error)
	SaveImage(ctx context.Context, filename string, data []byte) error
	SaveMap(ctx context.Context, lookup Lookup) error
	LoadMap(ctx context.Context) (Lookup, error)
}
