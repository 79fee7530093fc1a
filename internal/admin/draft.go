package admin

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cast"

	"github.com/mehedi/streambox/internal/models"
)

// Validation failures. Each blocks the operation before any remote call.
var (
	ErrTitleRequired       = errors.New("title is required")
	ErrThumbnailRequired   = errors.New("thumbnail is required")
	ErrDeliveryCodeMissing = errors.New("delivery code is required for movies")
	ErrNoEpisodes          = errors.New("at least one episode is required for series")
	ErrEpisodeTitleMissing = errors.New("episode title is required")
	ErrEpisodeCodeMissing  = errors.New("episode delivery code is required")
)

// EpisodeForm is the episode-add sub-form. Numeric fields stay string
// tokens until publish, like every other form field.
type EpisodeForm struct {
	Season       string
	Number       string
	Title        string
	Duration     string
	DeliveryCode string
}

// Draft is the in-progress admin form for one catalog entry. It is an
// immutable value: every update goes through Reduce and yields a new Draft,
// so publish validation is a pure function of a single value.
type Draft struct {
	Kind      models.Kind
	EditingID string // non-empty while editing an existing entry

	Title        string
	Thumbnail    string
	Category     string
	DeliveryCode string
	Year         string
	Rating       string
	Quality      string
	Description  string
	Views        string

	TopTen         bool
	TopTenPosition string
	Story          bool
	StoryImage     string
	StoryOrder     string
	Featured       bool
	FeaturedOrder  string

	Episodes    []models.Episode
	EpisodeForm EpisodeForm

	// Draft-scoped monotonic counter for embedded episode IDs. Counter
	// IDs keep tests deterministic; wall clocks do not.
	nextEpisodeID int

	// Original of an episode edit in progress, nil when none. Cancelling
	// the edit restores it instead of silently losing the episode.
	episodeEdit *models.Episode
}

// NewDraft returns the empty form with the shipped field defaults.
func NewDraft() Draft {
	return Draft{
		Kind:           models.KindMovie,
		Category:       "Exclusive",
		Year:           "2025",
		Rating:         "9.0",
		Quality:        "4K HDR",
		Views:          "0",
		TopTenPosition: "1",
		StoryOrder:     "1",
		FeaturedOrder:  "1",
		EpisodeForm:    EpisodeForm{Season: "1", Number: "1"},
		nextEpisodeID:  1,
	}
}

// EditingEpisode reports whether an episode edit is in progress and which
// episode it started from.
func (d Draft) EditingEpisode() (models.Episode, bool) {
	if d.episodeEdit == nil {
		return models.Episode{}, false
	}
	return *d.episodeEdit, true
}

// ──────────────────── actions ────────────────────

type Field int

const (
	FieldTitle Field = iota
	FieldThumbnail
	FieldCategory
	FieldDeliveryCode
	FieldYear
	FieldRating
	FieldQuality
	FieldDescription
	FieldViews
	FieldTopTenPosition
	FieldStoryImage
	FieldStoryOrder
	FieldFeaturedOrder
	FieldEpisodeSeason
	FieldEpisodeNumber
	FieldEpisodeTitle
	FieldEpisodeDuration
	FieldEpisodeCode
)

type Flag int

const (
	FlagTopTen Flag = iota
	FlagStory
	FlagFeatured
)

// Action is one dispatched form update.
type Action interface {
	apply(Draft) Draft
}

// Reduce applies a to d and returns the new draft. d is never mutated.
func Reduce(d Draft, a Action) Draft {
	return a.apply(d)
}

type SetField struct {
	Field Field
	Value string
}

func (a SetField) apply(d Draft) Draft {
	switch a.Field {
	case FieldTitle:
		d.Title = a.Value
	case FieldThumbnail:
		d.Thumbnail = a.Value
	case FieldCategory:
		d.Category = a.Value
	case FieldDeliveryCode:
		d.DeliveryCode = a.Value
	case FieldYear:
		d.Year = a.Value
	case FieldRating:
		d.Rating = a.Value
	case FieldQuality:
		d.Quality = a.Value
	case FieldDescription:
		d.Description = a.Value
	case FieldViews:
		d.Views = a.Value
	case FieldTopTenPosition:
		d.TopTenPosition = a.Value
	case FieldStoryImage:
		d.StoryImage = a.Value
	case FieldStoryOrder:
		d.StoryOrder = a.Value
	case FieldFeaturedOrder:
		d.FeaturedOrder = a.Value
	case FieldEpisodeSeason:
		d.EpisodeForm.Season = a.Value
	case FieldEpisodeNumber:
		d.EpisodeForm.Number = a.Value
	case FieldEpisodeTitle:
		d.EpisodeForm.Title = a.Value
	case FieldEpisodeDuration:
		d.EpisodeForm.Duration = a.Value
	case FieldEpisodeCode:
		d.EpisodeForm.DeliveryCode = a.Value
	}
	return d
}

type SetFlag struct {
	Flag Flag
	On   bool
}

func (a SetFlag) apply(d Draft) Draft {
	switch a.Flag {
	case FlagTopTen:
		d.TopTen = a.On
	case FlagStory:
		d.Story = a.On
	case FlagFeatured:
		d.Featured = a.On
	}
	return d
}

type SetKind struct {
	Kind models.Kind
}

func (a SetKind) apply(d Draft) Draft {
	d.Kind = a.Kind
	return d
}

// RemoveEpisode drops the episode outright; no edit buffer involved.
type RemoveEpisode struct {
	ID string
}

func (a RemoveEpisode) apply(d Draft) Draft {
	out := make([]models.Episode, 0, len(d.Episodes))
	for _, ep := range d.Episodes {
		if ep.ID != a.ID {
			out = append(out, ep)
		}
	}
	d.Episodes = out
	return d
}

// EditEpisode starts an edit: the episode leaves the list, its fields fill
// the add form and the original is buffered. Starting a second edit first
// restores the buffered one.
type EditEpisode struct {
	ID string
}

func (a EditEpisode) apply(d Draft) Draft {
	var target *models.Episode
	for i := range d.Episodes {
		if d.Episodes[i].ID == a.ID {
			ep := d.Episodes[i]
			target = &ep
			break
		}
	}
	if target == nil {
		return d
	}

	d = CancelEpisodeEdit{}.apply(d)
	d = RemoveEpisode{ID: target.ID}.apply(d)
	d.episodeEdit = target
	d.EpisodeForm = EpisodeForm{
		Season:       strconv.Itoa(target.Season),
		Number:       strconv.Itoa(target.Number),
		Title:        target.Title,
		Duration:     target.Duration,
		DeliveryCode: target.DeliveryCode,
	}
	return d
}

// CancelEpisodeEdit abandons an in-progress episode edit and puts the
// original back.
type CancelEpisodeEdit struct{}

func (CancelEpisodeEdit) apply(d Draft) Draft {
	if d.episodeEdit == nil {
		return d
	}
	d.Episodes = insertSorted(d.Episodes, *d.episodeEdit)
	d.episodeEdit = nil
	d.EpisodeForm = EpisodeForm{Season: "1", Number: "1"}
	return d
}

// ──────────────────── episode add ────────────────────

// AddEpisode validates the episode form, appends the episode and keeps the
// list sorted by (season, number). The suggested next episode number is
// auto-incremented for convenience; it is neither reserved nor unique.
func (d Draft) AddEpisode() (Draft, error) {
	if d.EpisodeForm.Title == "" {
		return d, ErrEpisodeTitleMissing
	}
	if d.EpisodeForm.DeliveryCode == "" {
		return d, ErrEpisodeCodeMissing
	}

	season := cast.ToInt(d.EpisodeForm.Season)
	if season <= 0 {
		season = 1
	}
	number := cast.ToInt(d.EpisodeForm.Number)
	if number <= 0 {
		number = len(d.Episodes) + 1
	}
	duration := d.EpisodeForm.Duration
	if duration == "" {
		duration = "N/A"
	}

	ep := models.Episode{
		ID:           fmt.Sprintf("ep-%d", d.nextEpisodeID),
		Season:       season,
		Number:       number,
		Title:        d.EpisodeForm.Title,
		Duration:     duration,
		DeliveryCode: d.EpisodeForm.DeliveryCode,
	}
	d.nextEpisodeID++
	d.Episodes = insertSorted(d.Episodes, ep)

	// Adding while editing commits the edit.
	d.episodeEdit = nil
	d.EpisodeForm = EpisodeForm{
		Season: d.EpisodeForm.Season,
		Number: strconv.Itoa(number + 1),
	}
	return d, nil
}

// insertSorted appends ep and re-applies the (season asc, number asc)
// ordering invariant. The input slice is not modified.
func insertSorted(eps []models.Episode, ep models.Episode) []models.Episode {
	out := make([]models.Episode, 0, len(eps)+1)
	out = append(out, eps...)
	out = append(out, ep)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// ──────────────────── validation & publish record ────────────────────

// Validate checks the publish requirements. It runs before any remote call
// and returns the first specific failure.
func (d Draft) Validate() error {
	if d.Title == "" {
		return ErrTitleRequired
	}
	if d.Thumbnail == "" {
		return ErrThumbnailRequired
	}
	if d.Kind == models.KindMovie && d.DeliveryCode == "" {
		return ErrDeliveryCodeMissing
	}
	if d.Kind == models.KindSeries && len(d.Episodes) == 0 {
		return ErrNoEpisodes
	}
	return nil
}

// BuildEntry assembles the full replacement record. Sub-fields of disabled
// placements come out nil, series drop the top-level delivery code and
// movies carry no episode list.
func (d Draft) BuildEntry() models.Entry {
	e := models.Entry{
		ID:           d.EditingID,
		Title:        d.Title,
		Thumbnail:    d.Thumbnail,
		Category:     d.Category,
		Kind:         d.Kind,
		Rating:       ratingToken(d.Rating),
		Views:        viewsToken(d.Views),
		Year:         d.Year,
		Quality:      d.Quality,
		Description:  d.Description,
		IsTopTen:     d.TopTen,
		StoryEnabled: d.Story,
		IsFeatured:   d.Featured,
	}

	if d.Kind == models.KindMovie {
		e.DeliveryCode = d.DeliveryCode
	} else {
		e.Episodes = append([]models.Episode(nil), d.Episodes...)
	}

	if d.TopTen {
		pos := cast.ToInt(d.TopTenPosition)
		e.TopTenPosition = &pos
	}
	if d.Story {
		img := d.StoryImage
		order := cast.ToInt(d.StoryOrder)
		e.StoryImage = &img
		e.StoryOrder = &order
	}
	if d.Featured {
		order := cast.ToInt(d.FeaturedOrder)
		e.FeaturedOrder = &order
	}
	return e
}

// DraftFromEntry populates every form field from an existing record,
// substituting the form defaults for any absent sub-field.
func DraftFromEntry(e models.Entry) Draft {
	d := NewDraft()
	d.EditingID = e.ID
	d.Kind = e.Kind
	if d.Kind == "" {
		d.Kind = models.KindMovie
	}
	d.Title = e.Title
	d.Thumbnail = e.Thumbnail
	d.Category = e.Category
	d.DeliveryCode = e.DeliveryCode
	if e.Year != "" {
		d.Year = e.Year
	}
	if e.Rating != 0 {
		d.Rating = strconv.FormatFloat(e.Rating, 'f', -1, 64)
	}
	if e.Quality != "" {
		d.Quality = e.Quality
	}
	d.Description = e.Description
	if e.Views != "" {
		d.Views = e.Views
	}

	d.TopTen = e.IsTopTen
	if e.TopTenPosition != nil {
		d.TopTenPosition = strconv.Itoa(*e.TopTenPosition)
	}
	d.Story = e.StoryEnabled
	if e.StoryImage != nil {
		d.StoryImage = *e.StoryImage
	}
	if e.StoryOrder != nil {
		d.StoryOrder = strconv.Itoa(*e.StoryOrder)
	}
	d.Featured = e.IsFeatured
	if e.FeaturedOrder != nil {
		d.FeaturedOrder = strconv.Itoa(*e.FeaturedOrder)
	}

	d.Episodes = append([]models.Episode(nil), e.Episodes...)
	// Continue the counter past any loaded counter-style IDs so re-added
	// episodes never collide.
	d.nextEpisodeID = len(d.Episodes) + 1
	for _, ep := range d.Episodes {
		var n int
		if _, err := fmt.Sscanf(ep.ID, "ep-%d", &n); err == nil && n >= d.nextEpisodeID {
			d.nextEpisodeID = n + 1
		}
	}
	return d
}

func ratingToken(s string) float64 {
	r := cast.ToFloat64(s)
	if r == 0 {
		return 9.0
	}
	return r
}

func viewsToken(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
