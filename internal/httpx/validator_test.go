package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleQuery struct {
	Kind    string `query:"type" validate:"required,oneof=series movie"`
	ID      int    `query:"id" validate:"gte=1"`
	Keyword string `validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, ValidateStruct(sampleQuery{Kind: "series", ID: 1}))
	})

	t.Run("field names from query tag", func(t *testing.T) {
		details := ValidateStruct(sampleQuery{Kind: "ova", ID: 0, Keyword: "too long"})
		require.Len(t, details, 3)

		byField := make(map[string]string, len(details))
		for _, d := range details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "type must be one of: series, movie", byField["type"])
		assert.Equal(t, "id must be greater than or equal to 1", byField["id"])
		assert.Equal(t, "Keyword must be at most 5 characters", byField["Keyword"])
	})

	t.Run("required", func(t *testing.T) {
		details := ValidateStruct(sampleQuery{ID: 2})
		require.Len(t, details, 1)
		assert.Equal(t, "type is required", details[0].Message)
	})
}
