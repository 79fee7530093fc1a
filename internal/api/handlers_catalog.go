package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/mehedi/streambox/internal/catalog"
	"github.com/mehedi/streambox/internal/deeplink"
	"github.com/mehedi/streambox/internal/favorites"
	"github.com/mehedi/streambox/internal/httputil"
	"github.com/mehedi/streambox/internal/models"
)

// ──────────────────── Health ────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "streambox",
		"clients": s.hub.ClientCount(),
	})
}

// ──────────────────── Bootstrap ────────────────────

// handleBootstrap is the first call a client makes. It applies the host
// chrome directives and returns the settings the client needs to render.
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	s.host.ExpandViewport()
	s.host.SetHeaderColor("#000000")
	s.host.SetBackgroundColor("#000000")

	snap := s.feed.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings":     snap.Settings,
		"banner_index": s.rotator.Index(),
	})
}

// ──────────────────── Catalog reads ────────────────────

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.feed.Snapshot())
}

// handleHome returns the derived views for the home screen: the active
// category slice plus the promotional rows, all computed from one snapshot.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = models.CategoryAll
	}

	var favs map[string]bool
	if device := deviceID(r); device != "" {
		store, err := s.favoritesFor(device)
		if err != nil {
			log.Printf("[api] favorites load failed for %s: %v", device, err)
		} else {
			favs = store.Set()
		}
	}

	snap := s.feed.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category":     category,
		"entries":      catalog.FilterByCategory(snap.Entries, category, favs),
		"top_ten":      catalog.TopTen(snap.Entries, snap.Settings),
		"stories":      storyItems(catalog.StoryReel(snap.Entries, snap.Settings)),
		"banners":      catalog.BannerSet(snap.Entries, snap.Settings),
		"banner_index": s.rotator.Index(),
		"settings":     snap.Settings,
	})
}

// storyItem pairs a story entry with the image its circle shows, which is
// the story override when set and the regular thumbnail otherwise.
type storyItem struct {
	models.Entry
	Image string `json:"image"`
}

func storyItems(entries []models.Entry) []storyItem {
	if entries == nil {
		return nil
	}
	out := make([]storyItem, len(entries))
	for i, e := range entries {
		out[i] = storyItem{Entry: e, Image: e.StoryThumbnail()}
	}
	return out
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookupEntry(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, httputil.CodeNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ──────────────────── Delivery links ────────────────────

// handleDeliveryLink resolves an entry (or one of its episodes, via the
// episode query param) into a messaging deep link. A successful resolution
// schedules the view-counter bump when auto increment is enabled.
func (s *Server) handleDeliveryLink(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookupEntry(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, httputil.CodeNotFound, "entry not found")
		return
	}

	var code string
	if entry.IsSeries() {
		episodeID := r.URL.Query().Get("episode")
		if episodeID == "" {
			writeError(w, http.StatusBadRequest, httputil.CodeEpisodeRequired, "episode id is required for series")
			return
		}
		found := false
		for _, ep := range entry.Episodes {
			if ep.ID == episodeID {
				code = ep.DeliveryCode
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusNotFound, httputil.CodeNotFound, "episode not found")
			return
		}
	} else {
		code = entry.DeliveryCode
	}

	settings := s.feed.Snapshot().Settings
	link, err := deeplink.NewBuilder(settings.BotUsername).Link(code)
	if err != nil {
		if errors.Is(err, deeplink.ErrBotNotConfigured) {
			writeError(w, http.StatusConflict, httputil.CodeBotNotConfigured, "delivery bot is not configured")
			return
		}
		writeError(w, http.StatusConflict, httputil.CodeNoDeliveryCode, "entry has no delivery code")
		return
	}

	if settings.AutoViewIncrement && s.queue != nil {
		s.queue.EnqueueViewIncrement(entry.ID)
	}
	s.host.OpenLink(link)

	writeJSON(w, http.StatusOK, map[string]string{"link": link})
}

func (s *Server) lookupEntry(id string) (models.Entry, bool) {
	for _, e := range s.feed.Snapshot().Entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.Entry{}, false
}

// ──────────────────── Favorites ────────────────────

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	store, ok := s.deviceStore(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ids": store.IDs()})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	store, ok := s.deviceStore(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	favorite, err := store.Toggle(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, httputil.CodeStorage, "favorites could not be saved")
		return
	}
	if favorite {
		s.host.HapticPulse(deeplink.HapticSuccess)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"favorite": favorite,
		"ids":      store.IDs(),
	})
}

func (s *Server) deviceStore(w http.ResponseWriter, r *http.Request) (*favorites.Store, bool) {
	device := deviceID(r)
	if device == "" {
		writeError(w, http.StatusBadRequest, httputil.CodeDeviceRequired, "device identifier is required")
		return nil, false
	}
	store, err := s.favoritesFor(device)
	if err != nil {
		writeError(w, http.StatusInternalServerError, httputil.CodeStorage, "favorites could not be loaded")
		return nil, false
	}
	return store, true
}
