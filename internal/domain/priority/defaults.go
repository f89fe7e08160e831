package priority

import "strings"

// Default returns the built-in table for region. Unknown regions get the US table.
func Default(region string) Table {
	switch strings.ToUpper(strings.TrimSpace(region)) {
	case RegionUK:
		return Table{Entries: map[string]Entry{
			"Premier League":   {Score: 100, IsLeague: true, HasLink: true},
			"Champions League": {Score: 95, IsLeague: true, HasLink: true},
			"Championship":     {Score: 90, IsLeague: true},
			"The Ashes":        {Score: 85, IsLeague: true},
			"Cricket":          {Score: 80},
			"Rugby":            {Score: 75},
			"Snooker":          {Score: 70},
			"Darts":            {Score: 65},
			"F1":               {Score: 60, IsLeague: true, HasLink: true},
			"Formula 1":        {Score: 60, IsLeague: true, HasLink: true},
			"Boxing":           {Score: 50},
			"NFL":              {Score: 40, IsLeague: true},
		}}
	default:
		return Table{Entries: map[string]Entry{
			"NFL":              {Score: 100, IsLeague: true, HasLink: true},
			"NBA":              {Score: 95, IsLeague: true, HasLink: true},
			"MLB":              {Score: 90, IsLeague: true, HasLink: true},
			"College Football": {Score: 88, IsLeague: true},
			"NCAA":             {Score: 87, IsLeague: true},
			"NHL":              {Score: 85, IsLeague: true},
			"UFC":              {Score: 80, IsLeague: true},
			"Premier League":   {Score: 75, IsLeague: true},
			"MLS":              {Score: 70, IsLeague: true},
			"Champions League": {Score: 65, IsLeague: true},
			"Boxing":           {Score: 50},
			"Formula 1":        {Score: 45, IsLeague: true},
			"Tennis":           {Score: 40},
		}}
	}
}

// Timezone is the display zone for a region.
func Timezone(region string) string {
	switch strings.ToUpper(strings.TrimSpace(region)) {
	case RegionUS:
		return "America/New_York"
	case RegionUK:
		return "Europe/London"
	default:
		return "UTC"
	}
}
