package models

import "time"

// ──────────────────── Catalog ────────────────────

type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Category sentinels understood by the category filter. Anything else is
// matched against Entry.Category verbatim (case-sensitive).
const (
	CategoryAll       = "All"
	CategoryFavorites = "Favorites"
)

// Episode is embedded in its parent series Entry and is replaced in full
// whenever the parent is saved. IDs are draft-scoped, not globally stable.
type Episode struct {
	ID           string `json:"id"`
	Season       int    `json:"season"`
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Duration     string `json:"duration"`
	DeliveryCode string `json:"delivery_code"`
}

// Entry is a single catalog item, either a standalone movie or a series
// container. Year, quality and views are free-text tokens by design.
type Entry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail"`
	Category     string    `json:"category"`
	Kind         Kind      `json:"kind"`
	DeliveryCode string    `json:"delivery_code,omitempty"`
	Rating       float64   `json:"rating"`
	Views        string    `json:"views"`
	Year         string    `json:"year,omitempty"`
	Quality      string    `json:"quality,omitempty"`
	Description  string    `json:"description,omitempty"`
	Episodes     []Episode `json:"episodes,omitempty"`

	// Promotional placements. The sub-fields are nil whenever their flag
	// is off; the admin workflow nulls them out on publish.
	IsTopTen       bool    `json:"is_top_ten"`
	TopTenPosition *int    `json:"top_ten_position,omitempty"`
	StoryEnabled   bool    `json:"story_enabled"`
	StoryImage     *string `json:"story_image,omitempty"`
	StoryOrder     *int    `json:"story_order,omitempty"`
	IsFeatured     bool    `json:"is_featured"`
	FeaturedOrder  *int    `json:"featured_order,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (e *Entry) IsSeries() bool {
	return e.Kind == KindSeries
}

// StoryThumbnail returns the image shown in the story circle, falling back
// to the regular thumbnail when no override is set.
func (e *Entry) StoryThumbnail() string {
	if e.StoryImage != nil && *e.StoryImage != "" {
		return *e.StoryImage
	}
	return e.Thumbnail
}

// ──────────────────── Settings ────────────────────

// AppSettings is the singleton site-wide configuration record. It is
// overwritten wholesale on every admin save; there are no partial patches.
type AppSettings struct {
	BotUsername       string `json:"bot_username"`
	ChannelLink       string `json:"channel_link"`
	GroupLink         string `json:"group_link,omitempty"`
	NoticeText        string `json:"notice_text,omitempty"`
	NoticeLink        string `json:"notice_link,omitempty"`
	NoticeEnabled     bool   `json:"notice_enabled"`
	AutoViewIncrement bool   `json:"auto_view_increment"`
	EnableTopTen      bool   `json:"enable_top_ten"`
	EnableStories     bool   `json:"enable_stories"`
	EnableBanners     bool   `json:"enable_banners"`
	PrimaryColor      string `json:"primary_color"`
	AppName           string `json:"app_name"`
}

// DefaultSettings returns the shipped configuration. Stored records are
// decoded over a copy of this value so absent fields keep their default.
func DefaultSettings() AppSettings {
	return AppSettings{
		NoticeEnabled:     true,
		AutoViewIncrement: true,
		EnableTopTen:      true,
		EnableStories:     true,
		EnableBanners:     true,
		PrimaryColor:      "#E50914",
		AppName:           "StreamBox",
	}
}

// ──────────────────── Admins ────────────────────

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
