package api

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mehedi/streambox/internal/admin"
	"github.com/mehedi/streambox/internal/auth"
	"github.com/mehedi/streambox/internal/catalog"
	"github.com/mehedi/streambox/internal/config"
	"github.com/mehedi/streambox/internal/deeplink"
	"github.com/mehedi/streambox/internal/favorites"
	"github.com/mehedi/streambox/internal/httputil"
	"github.com/mehedi/streambox/internal/jobs"
)

// Server is the HTTP surface: the public browsing API, the websocket feed
// and the embedded admin panel endpoints.
type Server struct {
	cfg      *config.Config
	feed     *catalog.Feed
	workflow *admin.Workflow
	auth     *auth.Auth
	queue    *jobs.Queue
	host     deeplink.Host
	hub      *WSHub
	rotator  *catalog.Rotator
	router   *http.ServeMux

	favKV   favorites.KV
	favMu   sync.Mutex
	favs    map[string]*favorites.Store
	tapsMu  sync.Mutex
	taps    map[string]*admin.TapWindow
	limMu   sync.Mutex
	loginRL map[string]*rate.Limiter
}

func NewServer(cfg *config.Config, feed *catalog.Feed, workflow *admin.Workflow,
	authService *auth.Auth, queue *jobs.Queue, favKV favorites.KV, host deeplink.Host) *Server {

	s := &Server{
		cfg:      cfg,
		feed:     feed,
		workflow: workflow,
		auth:     authService,
		queue:    queue,
		host:     host,
		favKV:    favKV,
		favs:     make(map[string]*favorites.Store),
		taps:     make(map[string]*admin.TapWindow),
		loginRL:  make(map[string]*rate.Limiter),
		router:   http.NewServeMux(),
	}
	s.hub = NewWSHub(feed)
	s.rotator = catalog.NewRotator(cfg.BannerRotate, s.hub.BroadcastBannerIndex)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /api/v1/bootstrap", s.handleBootstrap)
	s.router.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	s.router.HandleFunc("GET /api/v1/home", s.handleHome)
	s.router.HandleFunc("GET /api/v1/entries/{id}", s.handleEntry)
	s.router.HandleFunc("GET /api/v1/entries/{id}/link", s.handleDeliveryLink)
	s.router.HandleFunc("GET /api/v1/favorites", s.handleFavorites)
	s.router.HandleFunc("POST /api/v1/favorites/{id}", s.handleToggleFavorite)
	s.router.HandleFunc("GET /api/v1/ws", s.handleWebSocket)

	s.router.HandleFunc("POST /api/v1/admin/unlock", s.handleAdminUnlock)
	s.router.HandleFunc("POST /api/v1/admin/login", s.rlLogin(s.handleAdminLogin))
	s.router.Handle("POST /api/v1/admin/logout", s.requireAdmin(s.handleAdminLogout))
	s.router.Handle("GET /api/v1/admin/entries", s.requireAdmin(s.handleAdminEntries))
	s.router.Handle("POST /api/v1/admin/draft/actions", s.requireAdmin(s.handleDraftAction))
	s.router.Handle("GET /api/v1/admin/draft", s.requireAdmin(s.handleDraftGet))
	s.router.Handle("POST /api/v1/admin/draft/episodes", s.requireAdmin(s.handleDraftAddEpisode))
	s.router.Handle("POST /api/v1/admin/publish", s.requireAdmin(s.handlePublish))
	s.router.Handle("DELETE /api/v1/admin/entries/{id}", s.requireAdmin(s.handleAdminDelete))
	s.router.Handle("POST /api/v1/admin/entries/{id}/edit", s.requireAdmin(s.handleEditLoad))
	s.router.Handle("GET /api/v1/admin/settings", s.requireAdmin(s.handleAdminSettingsGet))
	s.router.Handle("PUT /api/v1/admin/settings", s.requireAdmin(s.handleAdminSettingsSave))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start spins up the websocket hub and banner rotation.
func (s *Server) Start() {
	s.hub.Run()
	snap := s.feed.Snapshot()
	s.rotator.Resize(len(catalog.BannerSet(snap.Entries, snap.Settings)))
	s.hub.OnSnapshot(func(snap catalog.Snapshot) {
		s.rotator.Resize(len(catalog.BannerSet(snap.Entries, snap.Settings)))
	})
	s.rotator.Start()
}

// Stop halts the rotator and hub; in-flight requests simply complete.
func (s *Server) Stop() {
	s.rotator.Stop()
	s.hub.Close()
}

func (s *Server) requireAdmin(h http.HandlerFunc) http.Handler {
	return s.auth.RequireAdmin(h)
}

// favoritesFor returns the device-scoped favorites store, creating it on
// first use. Each device owns its own durable key.
func (s *Server) favoritesFor(device string) (*favorites.Store, error) {
	s.favMu.Lock()
	defer s.favMu.Unlock()
	if store, ok := s.favs[device]; ok {
		return store, nil
	}
	store, err := favorites.NewStore(s.favKV, "streambox_favs:"+device)
	if err != nil {
		return nil, err
	}
	s.favs[device] = store
	return store, nil
}

func (s *Server) tapWindowFor(device string) *admin.TapWindow {
	s.tapsMu.Lock()
	defer s.tapsMu.Unlock()
	if tw, ok := s.taps[device]; ok {
		return tw
	}
	tw := admin.NewTapWindow()
	s.taps[device] = tw
	return tw
}

// rlLogin rate-limits credential submissions per client IP.
func (s *Server) rlLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.limMu.Lock()
		lim, ok := s.loginRL[r.RemoteAddr]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(float64(s.cfg.LoginRatePerMin)/60.0), s.cfg.LoginRatePerMin)
			s.loginRL[r.RemoteAddr] = lim
		}
		s.limMu.Unlock()

		if !lim.Allow() {
			writeError(w, http.StatusTooManyRequests, httputil.CodeRateLimited, "too many login attempts")
			return
		}
		next(w, r)
	}
}
