package opus

import (
	"errors"
	"fmt"
)

// ErrMissingContent is returned when a detail carries no content module or
// the content module has no paragraph sequence. It usually means the id is
// wrong or the session cookie was rejected.
var ErrMissingContent = errors.New("opus: content module not found")

// APIError is a non-zero code in the response envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("opus API error %d: %s", e.Code, e.Message)
}

// Response is the envelope every API endpoint wraps its payload in.
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TTL     int    `json:"ttl"`
	Data    *T     `json:"data"`
}

// Err returns an *APIError when the envelope reports failure.
func (r *Response[T]) Err() error {
	if r.Code != 0 {
		return &APIError{Code: r.Code, Message: r.Message}
	}
	return nil
}

// ModuleType identifies a page module.
type ModuleType string

// Module types present on an opus detail page.
const (
	ModuleTitle      ModuleType = "MODULE_TYPE_TITLE"
	ModuleAuthor     ModuleType = "MODULE_TYPE_AUTHOR"
	ModuleCollection ModuleType = "MODULE_TYPE_COLLECTION"
	ModuleContent    ModuleType = "MODULE_TYPE_CONTENT"
	ModuleBottom     ModuleType = "MODULE_TYPE_BOTTOM"
	ModuleStat       ModuleType = "MODULE_TYPE_STAT"
)

// Detail is the data payload of the opus detail endpoint.
type Detail struct {
	Item Item `json:"item"`
}

// Item is the opus itself.
type Item struct {
	IDStr   string   `json:"id_str"`
	Type    Number   `json:"type"`
	Basic   Basic    `json:"basic"`
	Modules []Module `json:"modules"`
}

// Basic holds ownership and title information.
type Basic struct {
	CommentIDStr string `json:"comment_id_str"`
	RIDStr       string `json:"rid_str"`
	Title        string `json:"title"`
	UID          ID     `json:"uid"`
}

// Module is one page module. Exactly one of the payload pointers is set,
// matching Type; modules this package does not model keep only Type.
type Module struct {
	Type       ModuleType        `json:"module_type"`
	Title      *TitleModule      `json:"module_title"`
	Author     *AuthorModule     `json:"module_author"`
	Collection *CollectionModule `json:"module_collection"`
	Content    *ContentModule    `json:"module_content"`
}

// TitleModule is the article title.
type TitleModule struct {
	Text string `json:"text"`
}

// AuthorModule describes the publisher.
type AuthorModule struct {
	Mid       ID     `json:"mid"`
	Name      string `json:"name"`
	Face      string `json:"face"`
	JumpURL   string `json:"jump_url"`
	PubTime   string `json:"pub_time"`
	PubTS     Number `json:"pub_ts"`
	ViewsText string `json:"views_text"`
}

// CollectionModule names the collection the opus belongs to.
type CollectionModule struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Count string `json:"count"`
}

// ContentModule holds the paragraphs.
type ContentModule struct {
	Paragraphs Paragraphs `json:"paragraphs"`
}

// Module returns the first module of type t, or nil.
func (d *Detail) Module(t ModuleType) *Module {
	if d == nil {
		return nil
	}
	for i := range d.Item.Modules {
		if d.Item.Modules[i].Type == t {
			return &d.Item.Modules[i]
		}
	}
	return nil
}

// Content returns the content paragraphs. It returns ErrMissingContent when
// there is no content module or the module lacks a paragraph sequence; an
// empty sequence is not an error.
func (d *Detail) Content() (Paragraphs, error) {
	m := d.Module(ModuleContent)
	if m == nil || m.Content == nil || m.Content.Paragraphs == nil {
		return nil, ErrMissingContent
	}
	return m.Content.Paragraphs, nil
}

// Title returns the title module text, falling back to the basic title.
func (d *Detail) Title() string {
	if m := d.Module(ModuleTitle); m != nil && m.Title != nil && m.Title.Text != "" {
		return m.Title.Text
	}
	if d == nil {
		return ""
	}
	return d.Item.Basic.Title
}

// Author returns the author module, or nil.
func (d *Detail) Author() *AuthorModule {
	if m := d.Module(ModuleAuthor); m != nil {
		return m.Author
	}
	return nil
}

// ValidID reports whether id looks like an opus id: 1 to 32 decimal digits.
func ValidID(id string) bool {
	if id == "" || len(id) > 32 {
		return false
	}
	for _, ch := range id {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
