package anime

const untitled = "Untitled"

// firstString returns the first candidate that is present and non-empty.
func firstString(candidates ...*string) (string, bool) {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c, true
		}
	}
	return "", false
}

// firstNumber returns the first valid candidate.
func firstNumber(candidates ...Number) (int, bool) {
	for _, c := range candidates {
		if c.Valid {
			return c.Value, true
		}
	}
	return 0, false
}

func optionalString(candidates ...*string) *string {
	s, ok := firstString(candidates...)
	if !ok {
		return nil
	}
	return &s
}

// titleOfType returns the title of the first entry in titles with the given type.
func (r RawRecord) titleOfType(typ string) *string {
	for _, t := range r.Titles {
		if t.Type != nil && *t.Type == typ {
			return t.Title
		}
	}
	return nil
}

// PickTitle prefers the English title, then the default title, then the
// Japanese title (title_japanese, else the "Japanese" titles entry). It never
// returns an empty string.
func PickTitle(r RawRecord) string {
	if s, ok := firstString(r.titleOfType("English"), r.Title, r.TitleJapanese, r.titleOfType("Japanese")); ok {
		return s
	}
	return untitled
}

// PickPoster prefers webp over jpg and large over standard images. It returns
// nil when no candidate URL is set.
func PickPoster(r RawRecord) *string {
	var webp, jpg RawImage
	if r.Images != nil {
		if r.Images.WebP != nil {
			webp = *r.Images.WebP
		}
		if r.Images.JPG != nil {
			jpg = *r.Images.JPG
		}
	}
	return optionalString(webp.LargeImageURL, webp.ImageURL, jpg.LargeImageURL, jpg.ImageURL)
}

// ToListItem maps a record to its list shape. Records without an id are
// rejected since they cannot be looked up afterwards.
func ToListItem(r RawRecord) (ListItem, bool) {
	if !r.MalID.Valid {
		return ListItem{}, false
	}
	return ListItem{
		ID:     r.MalID.Value,
		Title:  PickTitle(r),
		Poster: PickPoster(r),
	}, true
}
