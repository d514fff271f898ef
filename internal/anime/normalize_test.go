package anime

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decodeRecord(t *testing.T, s string) RawRecord {
	t.Helper()
	var r RawRecord
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}

func TestPickTitle(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
	}{
		{
			name:   "english entry wins",
			record: `{"title":"Shingeki no Kyojin","title_japanese":"進撃の巨人","titles":[{"type":"Default","title":"Shingeki no Kyojin"},{"type":"English","title":"Attack on Titan"}]}`,
			want:   "Attack on Titan",
		},
		{
			name:   "default title when no english entry",
			record: `{"title":"Shingeki no Kyojin","title_japanese":"進撃の巨人","titles":[{"type":"Japanese","title":"進撃の巨人"}]}`,
			want:   "Shingeki no Kyojin",
		},
		{
			name:   "empty english entry falls through",
			record: `{"title":"Default","titles":[{"type":"English","title":""}]}`,
			want:   "Default",
		},
		{
			name:   "japanese field after default",
			record: `{"title_japanese":"進撃の巨人","titles":[{"type":"Japanese","title":"別"}]}`,
			want:   "進撃の巨人",
		},
		{
			name:   "japanese titles entry last",
			record: `{"titles":[{"type":"Synonym","title":""},{"type":"Japanese","title":"五"}]}`,
			want:   "五",
		},
		{
			name:   "no titles at all",
			record: `{}`,
			want:   "Untitled",
		},
		{
			name:   "explicit nulls",
			record: `{"title":null,"title_japanese":null,"titles":null}`,
			want:   "Untitled",
		},
		{
			name:   "english entry without title",
			record: `{"titles":[{"type":"English"}]}`,
			want:   "Untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickTitle(decodeRecord(t, tt.record))
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestPickPoster(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   *string
	}{
		{
			name:   "webp large first",
			record: `{"images":{"jpg":{"image_url":"a.jpg","large_image_url":"al.jpg"},"webp":{"image_url":"a.webp","large_image_url":"al.webp"}}}`,
			want:   strPtr("al.webp"),
		},
		{
			name:   "webp standard second",
			record: `{"images":{"jpg":{"image_url":"a.jpg","large_image_url":"al.jpg"},"webp":{"image_url":"a.webp"}}}`,
			want:   strPtr("a.webp"),
		},
		{
			name:   "jpg large third",
			record: `{"images":{"jpg":{"image_url":"a.jpg","large_image_url":"al.jpg"},"webp":{"large_image_url":""}}}`,
			want:   strPtr("al.jpg"),
		},
		{
			name:   "jpg standard last",
			record: `{"images":{"jpg":{"image_url":"a.jpg"}}}`,
			want:   strPtr("a.jpg"),
		},
		{
			name:   "no images",
			record: `{}`,
			want:   nil,
		},
		{
			name:   "all candidates empty",
			record: `{"images":{"jpg":{"image_url":"","large_image_url":""},"webp":{"image_url":"","large_image_url":""}}}`,
			want:   nil,
		},
		{
			name:   "url is not validated",
			record: `{"images":{"webp":{"image_url":"not a url"}}}`,
			want:   strPtr("not a url"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickPoster(decodeRecord(t, tt.record))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PickPoster() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToListItem(t *testing.T) {
	t.Run("japanese fallback scenario", func(t *testing.T) {
		r := decodeRecord(t, `{"mal_id":5,"titles":[{"type":"Japanese","title":"五"}],"images":{"jpg":{"image_url":"u.jpg"}}}`)

		item, ok := ToListItem(r)
		require.True(t, ok)
		want := ListItem{ID: 5, Title: "五", Poster: strPtr("u.jpg")}
		if diff := cmp.Diff(want, item); diff != "" {
			t.Errorf("ToListItem() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("string id is coerced", func(t *testing.T) {
		item, ok := ToListItem(decodeRecord(t, `{"mal_id":"21","title":"One Piece"}`))
		require.True(t, ok)
		assert.Equal(t, 21, item.ID)
		assert.Nil(t, item.Poster)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		_, ok := ToListItem(decodeRecord(t, `{"title":"Orphan"}`))
		assert.False(t, ok)
	})
}

func TestListItem_JSONShape(t *testing.T) {
	b, err := json.Marshal(ListItem{ID: 1, Title: "Cowboy Bebop"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"Cowboy Bebop","poster":null}`, string(b))
}

func TestRawRecord_UnmarshalJSON(t *testing.T) {
	t.Run("mistyped field keeps the rest", func(t *testing.T) {
		r := decodeRecord(t, `{"mal_id":"9","title":["bad"],"title_japanese":"九","images":{"webp":{"image_url":"9.webp"}}}`)

		assert.Equal(t, Number{Value: 9, Valid: true}, r.MalID)
		assert.Nil(t, r.Title)
		assert.Equal(t, "九", PickTitle(r))
		assert.Equal(t, strPtr("9.webp"), PickPoster(r))
	})

	t.Run("non-object fails", func(t *testing.T) {
		var r RawRecord
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
	})
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in    string
		want  int
		valid bool
	}{
		{`12`, 12, true},
		{`12.0`, 12, true},
		{`-3`, -3, true},
		{`"7"`, 7, true},
		{`" 8 "`, 8, true},
		{`12.5`, 0, false},
		{`"abc"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`true`, 0, false},
		{`{"a":1}`, 0, false},
		{`[1]`, 0, false},
		{`1e300`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var holder struct {
				N Number `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"n":`+tt.in+`}`), &holder))
			assert.Equal(t, tt.valid, holder.N.Valid)
			assert.Equal(t, tt.want, holder.N.Value)
		})
	}
}
