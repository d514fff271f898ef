package anime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// MaxEpisodePages bounds how many episode pages are requested for one title.
const MaxEpisodePages = 10

// FetchEpisodes walks the episode listing of id page by page until the
// upstream reports no further page or MaxEpisodePages pages were read.
func FetchEpisodes(ctx context.Context, upstream Upstream, id int) (Episodes, error) {
	raw, err := fetchEpisodePages(ctx, upstream, id)
	if err != nil {
		return Episodes{}, err
	}
	return BuildEpisodes(raw), nil
}

func fetchEpisodePages(ctx context.Context, upstream Upstream, id int) ([]json.RawMessage, error) {
	path := fmt.Sprintf("/anime/%d/episodes", id)

	var all []json.RawMessage
	for page := 1; page <= MaxEpisodePages; page++ {
		payload, err := upstream.Get(ctx, path, url.Values{"page": {strconv.Itoa(page)}})
		if err != nil {
			return nil, err
		}
		if payload.IsArray() {
			var items []json.RawMessage
			if err := json.Unmarshal(payload.Data, &items); err == nil {
				all = append(all, items...)
			}
		}
		if !payload.HasNextPage() {
			break
		}
	}
	return all, nil
}

// BuildEpisodes derives the simplified list and the number→title map from the
// same raw episodes. Entries that are not objects or have no usable number
// are skipped in both. A repeated number keeps its last title in the map.
func BuildEpisodes(raw []json.RawMessage) Episodes {
	eps := Episodes{
		Items: make([]Episode, 0, len(raw)),
		Map:   make(EpisodeMap, len(raw)),
	}
	for _, item := range raw {
		var r RawEpisode
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		ep, ok := toEpisode(r)
		if !ok {
			continue
		}
		eps.Items = append(eps.Items, ep)
		eps.Map[strconv.Itoa(ep.Number)] = ep.Title
	}
	eps.Count = len(eps.Items)
	return eps
}

// episodeNumber resolves mal_id, then episode, then number.
func (r RawEpisode) episodeNumber() (int, bool) {
	return firstNumber(r.MalID, r.Episode, r.Number)
}

func (r RawEpisode) preferredTitle() *string {
	return optionalString(r.Title, r.TitleRomanji, r.TitleJapanese, r.TitleRomanized)
}

func toEpisode(r RawEpisode) (Episode, bool) {
	n, ok := r.episodeNumber()
	if !ok {
		return Episode{}, false
	}
	return Episode{
		Number: n,
		Title:  r.preferredTitle(),
		Aired:  optionalRaw(r.Aired),
		Filler: r.Filler != nil && *r.Filler,
		Recap:  r.Recap != nil && *r.Recap,
		URL:    optionalString(r.URL),
	}, true
}

// optionalRaw drops null, empty-string and false values.
func optionalRaw(m json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(m)
	switch string(trimmed) {
	case "", "null", `""`, "false":
		return nil
	}
	return m
}
