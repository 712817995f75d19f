package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestEncode_EmptyListIsArray(t *testing.T) {
	b, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestEncode_WritesOnlyTitleAndDescription(t *testing.T) {
	b, err := Encode([]model.Record{
		{ID: "id-1", Title: "Buy milk", Description: "2%"},
		{ID: "id-2", Title: "Call Bob"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"title": "Buy milk", "description": "2%"},
		{"title": "Call Bob", "description": ""}
	]`, string(b))
}

func TestDecode_RoundTrip(t *testing.T) {
	in := []model.Record{
		model.NewRecord("Buy milk", "2%"),
		model.NewRecord("Call Bob", ""),
		model.NewRecord("Write report", "multi\nline"),
	}
	b, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.True(t, in[i].Equal(out[i]), "record %d: got %+v want %+v", i, out[i], in[i])
		assert.NotEmpty(t, out[i].ID)
	}
}

func TestDecode_AcceptsLegacyShapes(t *testing.T) {
	out, err := Decode([]byte(`[
		{"title": "a"},
		{"title": "b", "description": null},
		{"title": "c", "description": "d", "extra": 1}
	]`))
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "", out[0].Description)
	assert.Equal(t, "", out[1].Description)
	assert.Equal(t, "d", out[2].Description)
}

func TestDecode_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"garbage", "not json"},
		{"null", "null"},
		{"object", `{"title": "x"}`},
		{"array of numbers", `[1, 2]`},
		{"missing title", `[{"description": "x"}]`},
		{"empty title", `[{"title": ""}]`},
		{"blank title", `[{"title": "   "}]`},
		{"numeric title", `[{"title": 3}]`},
		{"truncated", `[{"title": "a"`},
		{"trailing data", `[] []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
			assert.Nil(t, out)
		})
	}
}

func TestDecodeLenient_AcceptsCommentsAndTrailingCommas(t *testing.T) {
	out, err := DecodeLenient([]byte(`[
		// groceries
		{"title": "Buy milk", "description": "2%",},
		/* calls */
		{"title": "Call Bob",},
	]`))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Buy milk", out[0].Title)
	assert.Equal(t, "Call Bob", out[1].Title)
}

func TestDecodeLenient_StillValidatesShape(t *testing.T) {
	_, err := DecodeLenient([]byte(`[{"title": "",}]`))
	assert.ErrorIs(t, err, ErrMalformed)
}
