package admin

import (
	"errors"
	"testing"

	"github.com/mehedi/streambox/internal/models"
)

func draftWithEpisodes(t *testing.T, specs ...[2]string) Draft {
	t.Helper()
	d := NewDraft()
	d = Reduce(d, SetKind{Kind: models.KindSeries})
	for i, spec := range specs {
		d = Reduce(d, SetField{Field: FieldEpisodeSeason, Value: spec[0]})
		d = Reduce(d, SetField{Field: FieldEpisodeNumber, Value: spec[1]})
		d = Reduce(d, SetField{Field: FieldEpisodeTitle, Value: "Episode"})
		d = Reduce(d, SetField{Field: FieldEpisodeCode, Value: "code"})
		next, err := d.AddEpisode()
		if err != nil {
			t.Fatalf("add episode %d: %v", i, err)
		}
		d = next
	}
	return d
}

func TestEpisodeSortInvariant(t *testing.T) {
	d := draftWithEpisodes(t, [2]string{"1", "2"}, [2]string{"2", "1"}, [2]string{"1", "1"})

	want := [][2]int{{1, 1}, {1, 2}, {2, 1}}
	if len(d.Episodes) != len(want) {
		t.Fatalf("expected %d episodes, got %d", len(want), len(d.Episodes))
	}
	for i, w := range want {
		ep := d.Episodes[i]
		if ep.Season != w[0] || ep.Number != w[1] {
			t.Fatalf("episode %d: got s%d n%d want s%d n%d", i, ep.Season, ep.Number, w[0], w[1])
		}
	}
}

func TestEpisodeIDsAreUnique(t *testing.T) {
	d := draftWithEpisodes(t, [2]string{"1", "1"}, [2]string{"1", "2"}, [2]string{"1", "3"})

	seen := map[string]bool{}
	for _, ep := range d.Episodes {
		if seen[ep.ID] {
			t.Fatalf("duplicate episode id %q", ep.ID)
		}
		seen[ep.ID] = true
	}
}

func TestAddEpisodeValidation(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, SetField{Field: FieldEpisodeCode, Value: "code"})
	if _, err := d.AddEpisode(); !errors.Is(err, ErrEpisodeTitleMissing) {
		t.Fatalf("expected missing title error, got %v", err)
	}

	d = Reduce(d, SetField{Field: FieldEpisodeTitle, Value: "Pilot"})
	d = Reduce(d, SetField{Field: FieldEpisodeCode, Value: ""})
	if _, err := d.AddEpisode(); !errors.Is(err, ErrEpisodeCodeMissing) {
		t.Fatalf("expected missing code error, got %v", err)
	}
}

func TestAddEpisodeAutoIncrementsNumber(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, SetField{Field: FieldEpisodeTitle, Value: "Pilot"})
	d = Reduce(d, SetField{Field: FieldEpisodeCode, Value: "c1"})
	d = Reduce(d, SetField{Field: FieldEpisodeNumber, Value: "4"})
	d, err := d.AddEpisode()
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if d.EpisodeForm.Number != "5" {
		t.Fatalf("expected suggested number 5, got %q", d.EpisodeForm.Number)
	}
	if d.EpisodeForm.Title != "" || d.EpisodeForm.DeliveryCode != "" {
		t.Fatalf("episode form not cleared: %+v", d.EpisodeForm)
	}
}

func TestEditEpisodeBuffersOriginal(t *testing.T) {
	d := draftWithEpisodes(t, [2]string{"1", "1"}, [2]string{"1", "2"})
	target := d.Episodes[0]

	d = Reduce(d, EditEpisode{ID: target.ID})
	if len(d.Episodes) != 1 {
		t.Fatalf("edited episode should leave the list, have %d", len(d.Episodes))
	}
	if orig, ok := d.EditingEpisode(); !ok || orig.ID != target.ID {
		t.Fatalf("expected buffered original %s", target.ID)
	}
	if d.EpisodeForm.Title != target.Title || d.EpisodeForm.DeliveryCode != target.DeliveryCode {
		t.Fatalf("episode form not populated: %+v", d.EpisodeForm)
	}
}

func TestCancelEpisodeEditRestoresOriginal(t *testing.T) {
	d := draftWithEpisodes(t, [2]string{"1", "1"}, [2]string{"1", "2"})
	target := d.Episodes[1]

	d = Reduce(d, EditEpisode{ID: target.ID})
	d = Reduce(d, CancelEpisodeEdit{})

	if len(d.Episodes) != 2 {
		t.Fatalf("abandoned edit lost the episode: %d left", len(d.Episodes))
	}
	if _, ok := d.EditingEpisode(); ok {
		t.Fatalf("edit buffer should be empty after cancel")
	}
	// Ordering invariant re-applied on restore.
	if d.Episodes[1].ID != target.ID {
		t.Fatalf("restored episode out of order: %+v", d.Episodes)
	}
}

func TestValidateMovieRequiresDeliveryCode(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, SetField{Field: FieldTitle, Value: "A Movie"})
	d = Reduce(d, SetField{Field: FieldThumbnail, Value: "thumb.jpg"})

	if err := d.Validate(); !errors.Is(err, ErrDeliveryCodeMissing) {
		t.Fatalf("expected delivery code error, got %v", err)
	}

	d = Reduce(d, SetField{Field: FieldDeliveryCode, Value: "abc"})
	if err := d.Validate(); err != nil {
		t.Fatalf("expected valid movie draft, got %v", err)
	}
}

func TestValidateSeriesRequiresEpisodes(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, SetKind{Kind: models.KindSeries})
	d = Reduce(d, SetField{Field: FieldTitle, Value: "A Show"})
	d = Reduce(d, SetField{Field: FieldThumbnail, Value: "thumb.jpg"})

	if err := d.Validate(); !errors.Is(err, ErrNoEpisodes) {
		t.Fatalf("expected episodes error, got %v", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	d := NewDraft()
	if err := d.Validate(); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected title error, got %v", err)
	}
	d = Reduce(d, SetField{Field: FieldTitle, Value: "T"})
	if err := d.Validate(); !errors.Is(err, ErrThumbnailRequired) {
		t.Fatalf("expected thumbnail error, got %v", err)
	}
}

func TestBuildEntryNullsDisabledPlacements(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, SetField{Field: FieldTitle, Value: "T"})
	d = Reduce(d, SetField{Field: FieldThumbnail, Value: "t.jpg"})
	d = Reduce(d, SetField{Field: FieldDeliveryCode, Value: "code"})
	d = Reduce(d, SetFlag{Flag: FlagStory, On: true})
	d = Reduce(d, SetField{Field: FieldStoryImage, Value: "story.jpg"})
	d = Reduce(d, SetField{Field: FieldStoryOrder, Value: "3"})

	e := d.BuildEntry()
	if e.TopTenPosition != nil || e.FeaturedOrder != nil {
		t.Fatalf("disabled placement sub-fields must be nil: %+v", e)
	}
	if e.StoryImage == nil || *e.StoryImage != "story.jpg" {
		t.Fatalf("story image missing: %+v", e.StoryImage)
	}
	if e.StoryOrder == nil || *e.StoryOrder != 3 {
		t.Fatalf("story order missing: %+v", e.StoryOrder)
	}
}

func TestBuildEntryMovieHasNoEpisodes(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, SetField{Field: FieldTitle, Value: "T"})
	d = Reduce(d, SetField{Field: FieldThumbnail, Value: "t.jpg"})
	d = Reduce(d, SetField{Field: FieldDeliveryCode, Value: "code"})

	e := d.BuildEntry()
	if e.Episodes != nil {
		t.Fatalf("movie record must not carry episodes")
	}
	if e.DeliveryCode != "code" {
		t.Fatalf("movie delivery code lost")
	}
}

func TestBuildEntrySeriesDropsTopLevelCode(t *testing.T) {
	d := draftWithEpisodes(t, [2]string{"1", "1"})
	d = Reduce(d, SetField{Field: FieldTitle, Value: "T"})
	d = Reduce(d, SetField{Field: FieldThumbnail, Value: "t.jpg"})
	d = Reduce(d, SetField{Field: FieldDeliveryCode, Value: "ignored"})

	e := d.BuildEntry()
	if e.DeliveryCode != "" {
		t.Fatalf("series must not carry a top-level delivery code")
	}
	if len(e.Episodes) != 1 {
		t.Fatalf("series episodes missing")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	d := draftWithEpisodes(t, [2]string{"1", "1"}, [2]string{"1", "2"})
	before := len(d.Episodes)

	Reduce(d, RemoveEpisode{ID: d.Episodes[0].ID})
	if len(d.Episodes) != before {
		t.Fatalf("input draft mutated")
	}
}

func TestDraftFromEntryDefaults(t *testing.T) {
	e := models.Entry{
		ID:        "id-1",
		Title:     "Old",
		Thumbnail: "old.jpg",
		Category:  "Series",
		Kind:      models.KindSeries,
		Episodes:  []models.Episode{{ID: "ep-7", Season: 1, Number: 1, Title: "P", DeliveryCode: "c"}},
	}

	d := DraftFromEntry(e)
	if d.EditingID != "id-1" || d.Kind != models.KindSeries {
		t.Fatalf("identity fields not loaded: %+v", d)
	}
	// Absent sub-fields fall back to the form defaults.
	if d.TopTenPosition != "1" || d.StoryOrder != "1" || d.FeaturedOrder != "1" {
		t.Fatalf("placement defaults not applied: %+v", d)
	}
	if d.Year != "2025" || d.Rating != "9.0" {
		t.Fatalf("token defaults not applied: %+v", d)
	}

	// Counter continues past loaded IDs.
	d = Reduce(d, SetField{Field: FieldEpisodeTitle, Value: "New"})
	d = Reduce(d, SetField{Field: FieldEpisodeCode, Value: "c2"})
	d, err := d.AddEpisode()
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, ep := range d.Episodes {
		if ep.ID == "ep-7" && ep.Title == "New" {
			t.Fatalf("new episode collided with loaded id")
		}
	}
}
