package view

import (
	"bytes"
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes map[string]string

func (r routes) URL(name string, params map[string]string) (string, error) {
	out := r[name]
	for k, v := range params {
		out += k + "=" + v
	}
	return out, nil
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html":  {Data: []byte(`{{define "layout"}}<h1>{{template "title" .}}</h1>{{template "content" .}}{{end}}`)},
		"partials/card.html": {Data: []byte(`{{define "card"}}[{{.}}]{{end}}`)},
		"pages/a.html":       {Data: []byte(`{{define "title"}}A{{end}}{{define "content"}}{{template "card" .Name}} {{money .Price}} {{url "customer" "id" 3}}{{end}}`)},
		"pages/b.html":       {Data: []byte(`{{define "title"}}B{{end}}{{define "content"}}{{date .When}} {{.Name}}{{end}}`)},
	}
}

func TestPagesKeepTheirOwnBlocks(t *testing.T) {
	e, err := New(testFS(), map[string]any{"url": URLFunc(routes{"customer": "/customers/"})})
	require.NoError(t, err)
	assert.True(t, e.Has("a"))
	assert.False(t, e.Has("missing"))

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "a", Data{"Name": "<b>x</b>", "Price": decimal.RequireFromString("9.9")}))
	assert.Equal(t, "<h1>A</h1>[&lt;b&gt;x&lt;/b&gt;] 9.90 /customers/id=3", buf.String())

	buf.Reset()
	when := time.Date(2024, 5, 6, 15, 4, 0, 0, time.UTC)
	require.NoError(t, e.Render(&buf, "b", Data{"When": when, "Name": "y"}))
	assert.Equal(t, "<h1>B</h1>May 6, 2024, 3:04 p.m. y", buf.String())

	buf.Reset()
	require.NoError(t, e.Render(&buf, "b", Data{"When": when.Add(-12 * time.Hour), "Name": "y"}))
	assert.Equal(t, "<h1>B</h1>May 6, 2024, 3:04 a.m. y", buf.String())
}

func TestRenderErrorsWriteNothing(t *testing.T) {
	e, err := New(testFS(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, e.Render(&buf, "a", Data{"Name": "x", "Price": decimal.Zero}), "url without a router")
	assert.Empty(t, buf.String())

	assert.Error(t, e.Render(&buf, "missing", nil))
}
