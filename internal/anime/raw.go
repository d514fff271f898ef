package anime

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawRecord is an upstream anime record. Every field is optional: absent
// strings stay nil and absent numbers stay invalid.
type RawRecord struct {
	MalID         Number     `json:"mal_id"`
	Title         *string    `json:"title"`
	TitleJapanese *string    `json:"title_japanese"`
	Titles        []RawTitle `json:"titles"`
	Images        *RawImages `json:"images"`
}

// RawTitle is one entry of a record's titles list, e.g. {"type":"English"}.
type RawTitle struct {
	Type  *string `json:"type"`
	Title *string `json:"title"`
}

// RawImages holds the poster variants per image format.
type RawImages struct {
	JPG  *RawImage `json:"jpg"`
	WebP *RawImage `json:"webp"`
}

type RawImage struct {
	ImageURL      *string `json:"image_url"`
	SmallImageURL *string `json:"small_image_url"`
	LargeImageURL *string `json:"large_image_url"`
}

// RawEpisode is one item of an episodes page. The episode number may sit in
// mal_id, episode or number.
type RawEpisode struct {
	MalID          Number          `json:"mal_id"`
	Episode        Number          `json:"episode"`
	Number         Number          `json:"number"`
	Title          *string         `json:"title"`
	TitleRomanji   *string         `json:"title_romanji"`
	TitleJapanese  *string         `json:"title_japanese"`
	TitleRomanized *string         `json:"title_romanized"`
	Aired          json.RawMessage `json:"aired"`
	Filler         *bool           `json:"filler"`
	Recap          *bool           `json:"recap"`
	URL            *string         `json:"url"`
}

// RawRelation groups the entries linked to a record under one relation tag
// such as "Sequel".
type RawRelation struct {
	Relation *string            `json:"relation"`
	Entry    []RawRelationEntry `json:"entry"`
}

// RawRelationEntry is a title linked through a RawRelation.
type RawRelationEntry struct {
	MalID Number  `json:"mal_id"`
	Type  *string `json:"type"`
	Name  *string `json:"name"`
	URL   *string `json:"url"`
}

// UnmarshalJSON decodes each field on its own so that one field of an
// unexpected type does not lose the rest of the record. Only a value that is
// not a JSON object fails.
func (r *RawRecord) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*r = RawRecord{}
	decodeField(fields, "mal_id", &r.MalID)
	decodeField(fields, "title", &r.Title)
	decodeField(fields, "title_japanese", &r.TitleJapanese)
	decodeField(fields, "titles", &r.Titles)
	decodeField(fields, "images", &r.Images)
	return nil
}

// decodeField leaves dst untouched when key is absent or does not decode.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// Number is an optional integer. It accepts JSON integers, integral floats
// and strings holding an integer; anything else leaves it invalid without
// failing the enclosing decode.
type Number struct {
	Value int
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*n = Number{Value: v, Valid: true}
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return nil
		}
		*n = Number{Value: int(f), Valid: true}
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Value)), nil
}
