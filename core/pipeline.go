package core

import (
	"context"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/opuspipe/core/htmlrender"
	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

// PageURL is the public page of an opus.
const PageURL = "https://www.bilibili.com/opus/"

// Document is a fetched opus with its rendered content fragment.
type Document struct {
	Meta     Metadata
	Fragment string
}

// Pipeline fetches an opus and renders its content paragraphs.
type Pipeline struct {
	Fetcher  Fetcher
	Renderer *htmlrender.Renderer
	// Now stamps Metadata.FetchedAt. Defaults to time.Now.
	Now func() time.Time
}

// Run fetches id and renders it. A detail without content yields an error
// wrapping opus.ErrMissingContent; nothing is rendered in that case.
func (p *Pipeline) Run(ctx context.Context, id string) (*Document, error) {
	detail, err := p.Fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	paragraphs, err := detail.Content()
	if err != nil {
		return nil, fmt.Errorf("opus %s: %w", id, err)
	}

	return &Document{
		Meta:     BuildMetadata(id, detail, p.now()),
		Fragment: p.Renderer.Document(paragraphs),
	}, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// BuildMetadata constructs Metadata from the detail's title and author modules.
func BuildMetadata(id string, detail *opus.Detail, fetchedAt time.Time) Metadata {
	meta := Metadata{
		ID:        id,
		URL:       PageURL + id,
		Title:     detail.Title(),
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339),
	}
	if author := detail.Author(); author != nil {
		meta.Author = author.Name
		meta.AuthorID = author.Mid.String()
		if ts := int64(author.PubTS.Float()); ts > 0 {
			meta.PublishedAt = time.Unix(ts, 0).UTC().Format(time.RFC3339)
		}
	}
	return meta
}
