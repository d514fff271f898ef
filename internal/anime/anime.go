package anime

import (
	"encoding/json"
)

// Kind is the upstream media type accepted by ListTitles.
type Kind string

const (
	KindTV    Kind = "tv"
	KindMovie Kind = "movie"
)

func (k Kind) Valid() bool {
	return k == KindTV || k == KindMovie
}

// ListItem is the minimal shape returned by list and search queries.
type ListItem struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Poster *string `json:"poster"`
}

// Season is a related title kept from the relations listing.
type Season struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type Episode struct {
	Number int             `json:"number"`
	Title  *string         `json:"title"`
	Aired  json.RawMessage `json:"aired"`
	Filler bool            `json:"filler"`
	Recap  bool            `json:"recap"`
	URL    *string         `json:"url"`
}

// EpisodeMap maps an episode number to its preferred title, or nil when the
// episode has none.
type EpisodeMap map[string]*string

type Episodes struct {
	Count int        `json:"count"`
	Items []Episode  `json:"items"`
	Map   EpisodeMap `json:"map"`
}

// DetailResult is assembled once per id and cached whole. Callers must treat it
// as read-only.
type DetailResult struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Poster   *string  `json:"poster"`
	Seasons  []Season `json:"seasons"`
	Episodes Episodes `json:"episodes"`
}
