package model

// Item is a dated phase shown on the timeline.
// Dates are calendar days in YYYY-MM-DD form; the lane packer parses them.
type Item struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
}

// LanedItem is an Item placed on a 0-based lane.
type LanedItem struct {
	Item `yaml:",inline"`
	Lane int `json:"lane" yaml:"lane"`
}
