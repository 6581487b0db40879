package model

// Country is a top-level location.
type Country struct {
	ID   int64  `json:"country_id"`
	Name string `json:"name"`
}

// State belongs to a Country.
type State struct {
	ID        int64  `json:"state_id"`
	Name      string `json:"name"`
	CountryID int64  `json:"country_id"`
}

// City belongs to a State.
type City struct {
	ID      int64  `json:"city_id"`
	Name    string `json:"name"`
	StateID int64  `json:"state_id"`
}
