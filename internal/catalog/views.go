package catalog

import (
	"sort"

	"github.com/mehedi/streambox/internal/models"
)

// Derived view projections over the live catalog. All of them are pure:
// inputs are never mutated and every call recomputes from scratch, which is
// fine at catalog scale.

const (
	topTenCap = 10
	bannerCap = 5
)

// FilterByCategory keeps entries matching the active category. "All" passes
// everything through unchanged, "Favorites" keeps entries whose ID is in the
// favorites set, anything else matches the category field exactly.
func FilterByCategory(entries []models.Entry, category string, favorites map[string]bool) []models.Entry {
	if category == models.CategoryAll {
		return append([]models.Entry(nil), entries...)
	}
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		switch category {
		case models.CategoryFavorites:
			if favorites[e.ID] {
				out = append(out, e)
			}
		default:
			if e.Category == category {
				out = append(out, e)
			}
		}
	}
	return out
}

// TopTen returns the flagged entries ordered by position, at most ten.
// A missing position sorts as zero, so unpositioned entries float first.
func TopTen(entries []models.Entry, settings models.AppSettings) []models.Entry {
	if !settings.EnableTopTen {
		return nil
	}
	out := filterSorted(entries,
		func(e models.Entry) bool { return e.IsTopTen },
		func(e models.Entry) int { return orderOf(e.TopTenPosition) })
	if len(out) > topTenCap {
		out = out[:topTenCap]
	}
	return out
}

// StoryReel returns the story-flagged entries in story order.
func StoryReel(entries []models.Entry, settings models.AppSettings) []models.Entry {
	if !settings.EnableStories {
		return nil
	}
	return filterSorted(entries,
		func(e models.Entry) bool { return e.StoryEnabled },
		func(e models.Entry) int { return orderOf(e.StoryOrder) })
}

// BannerSet returns the featured entries in banner order, at most five.
func BannerSet(entries []models.Entry, settings models.AppSettings) []models.Entry {
	if !settings.EnableBanners {
		return nil
	}
	out := filterSorted(entries,
		func(e models.Entry) bool { return e.IsFeatured },
		func(e models.Entry) int { return orderOf(e.FeaturedOrder) })
	if len(out) > bannerCap {
		out = out[:bannerCap]
	}
	return out
}

func filterSorted(entries []models.Entry, keep func(models.Entry) bool, order func(models.Entry) int) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	// Stable sort keeps catalog order for equal positions, which makes the
	// zero-default quirk deterministic.
	sort.SliceStable(out, func(i, j int) bool {
		return order(out[i]) < order(out[j])
	})
	return out
}

func orderOf(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
