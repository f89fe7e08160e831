package match

import "time"

const (
	OriginStreamed = "streamed"
	OriginTopEmbed = "topembed"
	OriginCarried  = "carried"
)

// Stream source tags as exposed to the client player.
const (
	SourceStreamed = "spk"
	SourceTopEmbed = "te"
)

// Stream is one alternate place to watch an event. ID holds the encoded
// locator, see EncodeLocator.
type Stream struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// TeamUI is the badge rendered for one side of a fixture.
type TeamUI struct {
	Name   string `json:"name"`
	Letter string `json:"letter"`
	Color  string `json:"color"`
	Logo   string `json:"logo,omitempty"`
}

// Match is one real-world event after normalization. The fields after Origin
// are derived by the ranker on every run and never trusted from input.
type Match struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Sport            string   `json:"sport"`
	League           string   `json:"league"`
	StartTime        int64    `json:"start_time"`
	Viewers          int      `json:"viewers"`
	ViewersEstimated bool     `json:"viewers_estimated"`
	Streams          []Stream `json:"streams"`
	Origin           []string `json:"origin"`

	IsLive      bool     `json:"is_live"`
	RunningTime string   `json:"running_time"`
	DisplayTime string   `json:"display_time"`
	DisplayDate string   `json:"display_date"`
	TeamsUI     []TeamUI `json:"teams_ui"`
	ShowButton  bool     `json:"show_button"`
	Score       int64    `json:"score"`
}

func (m Match) Start() time.Time {
	return time.UnixMilli(m.StartTime)
}

// HasOrigin reports whether the given adapter contributed to m.
func (m Match) HasOrigin(origin string) bool {
	for _, o := range m.Origin {
		if o == origin {
			return true
		}
	}
	return false
}

// ClearDerived drops every computed field so a record loaded from a previous
// run is ranked from scratch. An estimated viewer count is computed too, so it
// goes back to zero with its flag.
func (m Match) ClearDerived() Match {
	if m.ViewersEstimated {
		m.Viewers = 0
		m.ViewersEstimated = false
	}
	m.IsLive = false
	m.RunningTime = ""
	m.DisplayTime = ""
	m.DisplayDate = ""
	m.TeamsUI = nil
	m.ShowButton = false
	m.Score = 0
	return m
}

// Clone copies the slices so merges never alias adapter output.
func (m Match) Clone() Match {
	m.Streams = append([]Stream(nil), m.Streams...)
	m.Origin = append([]string(nil), m.Origin...)
	m.TeamsUI = append([]TeamUI(nil), m.TeamsUI...)
	return m
}

// withEmptyLists replaces nil slices so the encoded record never carries null.
func (m Match) withEmptyLists() Match {
	if m.Streams == nil {
		m.Streams = []Stream{}
	}
	if m.Origin == nil {
		m.Origin = []string{}
	}
	if m.TeamsUI == nil {
		m.TeamsUI = []TeamUI{}
	}
	return m
}
