package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/mehedi/streambox/internal/admin"
	"github.com/mehedi/streambox/internal/auth"
	"github.com/mehedi/streambox/internal/deeplink"
	"github.com/mehedi/streambox/internal/httputil"
	"github.com/mehedi/streambox/internal/models"
	"github.com/mehedi/streambox/internal/repository"
)

// ──────────────────── Unlock & session ────────────────────

// handleAdminUnlock records one tap on the hidden admin trigger. Five taps
// inside the window reveal the login panel.
func (s *Server) handleAdminUnlock(w http.ResponseWriter, r *http.Request) {
	device := deviceID(r)
	if device == "" {
		writeError(w, http.StatusBadRequest, httputil.CodeDeviceRequired, "device identifier is required")
		return
	}

	revealed := s.tapWindowFor(device).Tap()
	if revealed {
		s.host.HapticPulse(deeplink.HapticSuccess)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"revealed": revealed})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, httputil.CodeBadRequest, "invalid request body")
		return
	}

	if err := s.workflow.Login(r.Context(), req.Email, req.Password); err != nil {
		s.host.HapticPulse(deeplink.HapticError)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, httputil.CodeInvalidCredentials, "email or password is incorrect")
			return
		}
		writeError(w, http.StatusInternalServerError, httputil.CodeLoginFailed, "login could not be processed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": s.workflow.Token()})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if claims := auth.AdminFromContext(r.Context()); claims != nil {
		log.Printf("[api] admin %s logged out", claims.Email)
	}
	s.workflow.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ──────────────────── Entry lists ────────────────────

// handleAdminEntries serves the movie or series tab, selected by the kind
// query param.
func (s *Server) handleAdminEntries(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Entry
		err  error
	)
	switch r.URL.Query().Get("kind") {
	case string(models.KindSeries):
		list, err = s.workflow.FetchSeries(r.Context())
	default:
		list, err = s.workflow.FetchMovies(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": list})
}

// ──────────────────── Draft ────────────────────

var draftFields = map[string]admin.Field{
	"title":            admin.FieldTitle,
	"thumbnail":        admin.FieldThumbnail,
	"category":         admin.FieldCategory,
	"delivery_code":    admin.FieldDeliveryCode,
	"year":             admin.FieldYear,
	"rating":           admin.FieldRating,
	"quality":          admin.FieldQuality,
	"description":      admin.FieldDescription,
	"views":            admin.FieldViews,
	"top_ten_position": admin.FieldTopTenPosition,
	"story_image":      admin.FieldStoryImage,
	"story_order":      admin.FieldStoryOrder,
	"featured_order":   admin.FieldFeaturedOrder,
	"episode_season":   admin.FieldEpisodeSeason,
	"episode_number":   admin.FieldEpisodeNumber,
	"episode_title":    admin.FieldEpisodeTitle,
	"episode_duration": admin.FieldEpisodeDuration,
	"episode_code":     admin.FieldEpisodeCode,
}

var draftFlags = map[string]admin.Flag{
	"top_ten":  admin.FlagTopTen,
	"story":    admin.FlagStory,
	"featured": admin.FlagFeatured,
}

type draftActionRequest struct {
	Field             string `json:"field,omitempty"`
	Value             string `json:"value,omitempty"`
	Flag              string `json:"flag,omitempty"`
	On                bool   `json:"on,omitempty"`
	Kind              string `json:"kind,omitempty"`
	RemoveEpisode     string `json:"remove_episode,omitempty"`
	EditEpisode       string `json:"edit_episode,omitempty"`
	CancelEpisodeEdit bool   `json:"cancel_episode_edit,omitempty"`
}

// handleDraftAction dispatches one form update to the draft reducer and
// returns the resulting draft.
func (s *Server) handleDraftAction(w http.ResponseWriter, r *http.Request) {
	var req draftActionRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, httputil.CodeBadRequest, "invalid request body")
		return
	}

	var action admin.Action
	switch {
	case req.Field != "":
		field, ok := draftFields[req.Field]
		if !ok {
			writeError(w, http.StatusBadRequest, httputil.CodeUnknownField, "unknown draft field: "+req.Field)
			return
		}
		action = admin.SetField{Field: field, Value: req.Value}
	case req.Flag != "":
		flag, ok := draftFlags[req.Flag]
		if !ok {
			writeError(w, http.StatusBadRequest, httputil.CodeUnknownFlag, "unknown draft flag: "+req.Flag)
			return
		}
		action = admin.SetFlag{Flag: flag, On: req.On}
	case req.Kind != "":
		kind := models.Kind(req.Kind)
		if kind != models.KindMovie && kind != models.KindSeries {
			writeError(w, http.StatusBadRequest, httputil.CodeUnknownKind, "unknown entry kind: "+req.Kind)
			return
		}
		action = admin.SetKind{Kind: kind}
	case req.RemoveEpisode != "":
		action = admin.RemoveEpisode{ID: req.RemoveEpisode}
	case req.EditEpisode != "":
		action = admin.EditEpisode{ID: req.EditEpisode}
	case req.CancelEpisodeEdit:
		action = admin.CancelEpisodeEdit{}
	default:
		writeError(w, http.StatusBadRequest, httputil.CodeBadRequest, "no action in request")
		return
	}

	if err := s.workflow.Dispatch(action); err != nil {
		writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
		return
	}
	writeJSON(w, http.StatusOK, draftView(s.workflow.Draft()))
}

func (s *Server) handleDraftGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, draftView(s.workflow.Draft()))
}

func (s *Server) handleDraftAddEpisode(w http.ResponseWriter, r *http.Request) {
	if err := s.workflow.AddEpisode(); err != nil {
		if errors.Is(err, admin.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, httputil.CodeValidation, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, draftView(s.workflow.Draft()))
}

// ──────────────────── Publish / delete / edit ────────────────────

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if err := s.workflow.Publish(r.Context()); err != nil {
		switch {
		case errors.Is(err, admin.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
		case errors.Is(err, admin.ErrTitleRequired),
			errors.Is(err, admin.ErrThumbnailRequired),
			errors.Is(err, admin.ErrDeliveryCodeMissing),
			errors.Is(err, admin.ErrNoEpisodes):
			writeError(w, http.StatusUnprocessableEntity, httputil.CodeValidation, err.Error())
		case errors.Is(err, repository.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, httputil.CodeNotFound, "entry no longer exists")
		default:
			writeError(w, http.StatusInternalServerError, httputil.CodeWriteFailed, "entry could not be saved")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": s.workflow.Message(),
		"draft":   draftView(s.workflow.Draft()),
	})
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	err := s.workflow.Delete(r.Context(), r.PathValue("id"), confirmed)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
		case errors.Is(err, admin.ErrDeleteNotConfirmed):
			writeError(w, http.StatusBadRequest, httputil.CodeConfirmRequired, "delete requires confirm=true")
		case errors.Is(err, repository.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, httputil.CodeNotFound, "entry not found")
		default:
			writeError(w, http.StatusInternalServerError, httputil.CodeWriteFailed, "entry could not be deleted")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": s.workflow.Message()})
}

// handleEditLoad fetches the record by identifier and populates the draft
// from it so the admin form opens pre-filled.
func (s *Server) handleEditLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.workflow.EditLoadByID(r.Context(), r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, admin.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
		case errors.Is(err, repository.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, httputil.CodeNotFound, "entry not found")
		default:
			writeError(w, http.StatusInternalServerError, httputil.CodeStorage, "entry could not be loaded")
		}
		return
	}
	writeJSON(w, http.StatusOK, draftView(s.workflow.Draft()))
}

// ──────────────────── Settings ────────────────────

func (s *Server) handleAdminSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.workflow.FetchSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleAdminSettingsSave overwrites the singleton record wholesale.
func (s *Server) handleAdminSettingsSave(w http.ResponseWriter, r *http.Request) {
	var settings models.AppSettings
	if err := httputil.ReadJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, httputil.CodeBadRequest, "invalid request body")
		return
	}

	if err := s.workflow.SaveSettings(r.Context(), settings); err != nil {
		if errors.Is(err, admin.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "admin session required")
			return
		}
		writeError(w, http.StatusInternalServerError, httputil.CodeWriteFailed, "settings could not be saved")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": s.workflow.Message()})
}

// ──────────────────── Views ────────────────────

// draftPayload is the wire shape of the in-progress form, including the
// buffered original when an episode edit is active.
type draftPayload struct {
	Kind      models.Kind `json:"kind"`
	EditingID string      `json:"editing_id,omitempty"`

	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	Category     string `json:"category"`
	DeliveryCode string `json:"delivery_code"`
	Year         string `json:"year"`
	Rating       string `json:"rating"`
	Quality      string `json:"quality"`
	Description  string `json:"description"`
	Views        string `json:"views"`

	TopTen         bool   `json:"top_ten"`
	TopTenPosition string `json:"top_ten_position"`
	Story          bool   `json:"story"`
	StoryImage     string `json:"story_image"`
	StoryOrder     string `json:"story_order"`
	Featured       bool   `json:"featured"`
	FeaturedOrder  string `json:"featured_order"`

	Episodes       []models.Episode `json:"episodes"`
	EpisodeForm    episodeFormView  `json:"episode_form"`
	EditingEpisode *models.Episode  `json:"editing_episode,omitempty"`
}

type episodeFormView struct {
	Season       string `json:"season"`
	Number       string `json:"number"`
	Title        string `json:"title"`
	Duration     string `json:"duration"`
	DeliveryCode string `json:"delivery_code"`
}

func draftView(d admin.Draft) draftPayload {
	p := draftPayload{
		Kind:           d.Kind,
		EditingID:      d.EditingID,
		Title:          d.Title,
		Thumbnail:      d.Thumbnail,
		Category:       d.Category,
		DeliveryCode:   d.DeliveryCode,
		Year:           d.Year,
		Rating:         d.Rating,
		Quality:        d.Quality,
		Description:    d.Description,
		Views:          d.Views,
		TopTen:         d.TopTen,
		TopTenPosition: d.TopTenPosition,
		Story:          d.Story,
		StoryImage:     d.StoryImage,
		StoryOrder:     d.StoryOrder,
		Featured:       d.Featured,
		FeaturedOrder:  d.FeaturedOrder,
		Episodes:       d.Episodes,
		EpisodeForm: episodeFormView{
			Season:       d.EpisodeForm.Season,
			Number:       d.EpisodeForm.Number,
			Title:        d.EpisodeForm.Title,
			Duration:     d.EpisodeForm.Duration,
			DeliveryCode: d.EpisodeForm.DeliveryCode,
		},
	}
	if ep, ok := d.EditingEpisode(); ok {
		p.EditingEpisode = &ep
	}
	return p
}
