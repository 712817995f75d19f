package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/model"
)

func sample() []model.Record {
	return []model.Record{
		model.NewRecord("Buy milk", "2%"),
		model.NewRecord("Call Bob", ""),
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Options{Format: "json"}))
	assert.JSONEq(t, `[
		{"index": 1, "title": "Buy milk", "description": "2%"},
		{"index": 2, "title": "Call Bob", "description": ""}
	]`, buf.String())
}

func TestWrite_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, Options{Format: "json"}))
	var out []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Options{Format: "yaml"}))

	var out []entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, []entry{
		{Index: 1, Title: "Buy milk", Description: "2%"},
		{Index: 2, Title: "Call Bob", Description: ""},
	}, out)
}

func TestWrite_Plain(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Options{}))
	out := buf.String()
	assert.Contains(t, out, " 1. ✅ Buy milk")
	assert.Contains(t, out, "2%")
	assert.Contains(t, out, " 2. ✅ Call Bob")
	assert.Contains(t, out, "Total 2")
}

func TestWrite_PlainEmptyShowsPlaceholder(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	assert.Contains(t, Plain(nil), "Add Todo Here...")
}

func TestMarkdownSource(t *testing.T) {
	src := MarkdownSource([]model.Record{
		model.NewRecord("fix *all* the_things", "line one\nline two"),
	})
	assert.Equal(t, "# Todo List\n\n1. **fix \\*all\\* the\\_things**\n   line one\n   line two\n\n", src)
	assert.Contains(t, MarkdownSource(nil), "_Add Todo Here..._")
}

func TestWrite_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Options{Format: "markdown", MarkdownStyle: "notty", Width: 60}))
	out := buf.String()
	assert.Contains(t, out, "Todo List")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Call Bob")
	assert.Less(t, strings.Index(out, "Buy milk"), strings.Index(out, "Call Bob"), "display order kept")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, nil, Options{Format: "xml"})
	assert.Error(t, err)
}
