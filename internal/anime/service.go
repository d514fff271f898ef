package anime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"jikanproxy/internal/cache"
)

// seasonRelations are the relation tags that count as seasons of a title.
var seasonRelations = map[string]bool{
	"Prequel":             true,
	"Sequel":              true,
	"Side story":          true,
	"Alternative version": true,
	"Spin-off":            true,
}

// Service answers list, search and detail queries from the cache, falling
// back to the upstream on a miss.
type Service struct {
	upstream Upstream
	cache    *cache.Cache[any]
}

// NewService creates a service. A nil cache disables caching.
func NewService(upstream Upstream, c *cache.Cache[any]) *Service {
	return &Service{upstream: upstream, cache: c}
}

func titlesKey(kind Kind, page int) string {
	return fmt.Sprintf("titles:%s:page:%d", kind, page)
}

func searchKey(keyword string) string {
	return "search:" + strings.ToLower(keyword)
}

func detailsKey(id int) string {
	return "details:" + strconv.Itoa(id)
}

// ListTitles returns one upstream page of titles of the given kind.
func (s *Service) ListTitles(ctx context.Context, kind Kind, page int) ([]ListItem, error) {
	if !kind.Valid() {
		return nil, invalidInputError(fmt.Sprintf("unknown kind %q", kind))
	}
	if page < 1 {
		page = 1
	}

	key := titlesKey(kind, page)
	if items, ok := cached[[]ListItem](s.cache, key); ok {
		return items, nil
	}

	items, err := s.fetchList(ctx, url.Values{
		"type": {string(kind)},
		"page": {strconv.Itoa(page)},
	})
	if err != nil {
		return nil, err
	}
	s.store(key, items)
	return items, nil
}

// Search returns titles matching keyword, best scored first.
func (s *Service) Search(ctx context.Context, keyword string) ([]ListItem, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, invalidInputError("keyword is required")
	}

	key := searchKey(keyword)
	if items, ok := cached[[]ListItem](s.cache, key); ok {
		return items, nil
	}

	items, err := s.fetchList(ctx, url.Values{
		"q":        {keyword},
		"order_by": {"score"},
		"sort":     {"desc"},
	})
	if err != nil {
		return nil, err
	}
	s.store(key, items)
	return items, nil
}

// GetDetails assembles the base record, its seasons and its episodes.
func (s *Service) GetDetails(ctx context.Context, id int) (*DetailResult, error) {
	key := detailsKey(id)
	if result, ok := cached[*DetailResult](s.cache, key); ok {
		return result, nil
	}

	result, err := s.assembleDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(key, result)
	return result, nil
}

func (s *Service) fetchList(ctx context.Context, params url.Values) ([]ListItem, error) {
	payload, err := s.upstream.Get(ctx, "/anime", params)
	if err != nil {
		return nil, upstreamError(err)
	}

	items := make([]ListItem, 0)
	if !payload.IsArray() {
		return items, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(payload.Data, &records); err != nil {
		return items, nil
	}
	for i, raw := range records {
		var r RawRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			log.Printf("list record dropped index=%d error=%v", i, err)
			continue
		}
		item, ok := ToListItem(r)
		if !ok {
			log.Printf("list record dropped index=%d error=missing mal_id", i)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) assembleDetails(ctx context.Context, id int) (*DetailResult, error) {
	record, err := s.fetchRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &DetailResult{
		ID:     id,
		Title:  PickTitle(record),
		Poster: PickPoster(record),
	}
	if record.MalID.Valid {
		result.ID = record.MalID.Value
	}

	// Relations are best-effort; the episode walk is not.
	result.Seasons = s.fetchSeasons(ctx, id)

	eps, err := FetchEpisodes(ctx, s.upstream, id)
	if err != nil {
		return nil, upstreamError(err)
	}
	result.Episodes = eps
	return result, nil
}

func (s *Service) fetchRecord(ctx context.Context, id int) (RawRecord, error) {
	var r RawRecord

	payload, err := s.upstream.Get(ctx, fmt.Sprintf("/anime/%d/full", id), nil)
	if err != nil {
		return r, upstreamError(err)
	}
	if payload.IsEmpty() {
		return r, notFoundError(id)
	}
	if err := json.Unmarshal(payload.Data, &r); err != nil {
		return r, &Error{
			Status:  http.StatusInternalServerError,
			Message: "malformed anime record",
			Err:     ErrUpstreamUnavailable,
			Cause:   err,
		}
	}
	return r, nil
}

// fetchSeasons never fails: any upstream or decode error yields no seasons.
func (s *Service) fetchSeasons(ctx context.Context, id int) []Season {
	seasons := make([]Season, 0)

	payload, err := s.upstream.Get(ctx, fmt.Sprintf("/anime/%d/relations", id), nil)
	if err != nil {
		log.Printf("relations fetch failed anime_id=%d error=%v", id, err)
		return seasons
	}
	if !payload.IsArray() {
		return seasons
	}

	var relations []json.RawMessage
	if err := json.Unmarshal(payload.Data, &relations); err != nil {
		log.Printf("relations decode failed anime_id=%d error=%v", id, err)
		return seasons
	}
	for _, raw := range relations {
		var rel RawRelation
		if err := json.Unmarshal(raw, &rel); err != nil {
			continue
		}
		if rel.Relation == nil || !seasonRelations[*rel.Relation] {
			continue
		}
		for _, entry := range rel.Entry {
			season := Season{ID: entry.MalID.Value}
			if entry.Name != nil {
				season.Title = *entry.Name
			}
			seasons = append(seasons, season)
		}
	}
	return seasons
}

func cached[T any](c *cache.Cache[any], key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func (s *Service) store(key string, value any) {
	if s.cache != nil {
		s.cache.Set(key, value)
	}
}
