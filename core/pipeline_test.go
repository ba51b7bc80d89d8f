package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/opuspipe/core/htmlrender"
	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

type stubFetcher struct {
	detail *opus.Detail
	err    error
	gotID  string
}

func (f *stubFetcher) Fetch(_ context.Context, id string) (*opus.Detail, error) {
	f.gotID = id
	return f.detail, f.err
}

func mustDetail(t *testing.T, raw string) *opus.Detail {
	t.Helper()
	var d opus.Detail
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

func TestPipelineRun(t *testing.T) {
	fetcher := &stubFetcher{detail: mustDetail(t, `{"item":{"modules":[
		{"module_type":"MODULE_TYPE_TITLE","module_title":{"text":"Title"}},
		{"module_type":"MODULE_TYPE_AUTHOR","module_author":{"mid":"7","name":"bob","pub_ts":1762066480}},
		{"module_type":"MODULE_TYPE_CONTENT","module_content":{"paragraphs":[
			{"para_type":1,"text":{"nodes":[{"type":"TEXT_NODE_TYPE_WORD","word":{"words":"hi"}}]}}
		]}}
	]}}`)}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &Pipeline{
		Fetcher:  fetcher,
		Renderer: htmlrender.New(htmlrender.DefaultOptions()),
		Now:      func() time.Time { return fixed },
	}

	doc, err := p.Run(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", fetcher.gotID)
	assert.Equal(t, `<p style="text-align:left;" data-v-2505e99a=""><span data-v-2505e99a="">hi</span></p>`, doc.Fragment)
	assert.Equal(t, Metadata{
		ID:          "123",
		URL:         "https://www.bilibili.com/opus/123",
		Title:       "Title",
		Author:      "bob",
		AuthorID:    "7",
		PublishedAt: "2025-11-02T06:54:40Z",
		FetchedAt:   "2026-01-02T03:04:05Z",
	}, doc.Meta)
}

func TestPipelineMissingContent(t *testing.T) {
	p := &Pipeline{
		Fetcher:  &stubFetcher{detail: mustDetail(t, `{"item":{"modules":[]}}`)},
		Renderer: htmlrender.New(htmlrender.DefaultOptions()),
	}

	doc, err := p.Run(context.Background(), "1")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, opus.ErrMissingContent)
}

func TestPipelineFetchError(t *testing.T) {
	apiErr := &opus.APIError{Code: -352, Message: "risk control"}
	p := &Pipeline{
		Fetcher:  &stubFetcher{err: apiErr},
		Renderer: htmlrender.New(htmlrender.DefaultOptions()),
	}

	_, err := p.Run(context.Background(), "1")
	var got *opus.APIError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, -352, got.Code)
}
