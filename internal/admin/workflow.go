package admin

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mehedi/streambox/internal/catalog"
	"github.com/mehedi/streambox/internal/models"
)

var (
	ErrNotAuthenticated   = errors.New("admin authentication required")
	ErrDeleteNotConfirmed = errors.New("delete requires confirmation")
)

// messageTTL is how long transient success confirmations stay visible.
const messageTTL = 3 * time.Second

type Tab string

const (
	TabMovies   Tab = "movies"
	TabSeries   Tab = "series"
	TabSettings Tab = "settings"
)

// EntryStore is the remote catalog collection as the workflow sees it.
type EntryStore interface {
	List(ctx context.Context) ([]models.Entry, error)
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	Create(ctx context.Context, e *models.Entry) error
	Update(ctx context.Context, e *models.Entry) error
	Delete(ctx context.Context, id string) error
}

// SettingsStore is the singleton settings record.
type SettingsStore interface {
	Get(ctx context.Context) (models.AppSettings, bool, error)
	Set(ctx context.Context, s models.AppSettings) error
}

// Authenticator signs an admin in and returns a session token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Publisher announces catalog mutations to the subscription feed.
type Publisher interface {
	Publish(ctx context.Context, channel string) error
}

// Workflow owns the admin panel state: session, draft form, list views and
// the in-memory settings record. All mutations funnel through it one at a
// time; remote writes are single-record atomic but multi-step sequences
// (publish then refetch) are not.
type Workflow struct {
	mu       sync.Mutex
	entries  EntryStore
	settings SettingsStore
	auth     Authenticator
	notifier Publisher

	token      string // empty while unauthenticated
	activeTab  Tab
	draft      Draft
	movieList  []models.Entry
	seriesList []models.Entry
	current    models.AppSettings

	message   string
	messageAt time.Time
	now       func() time.Time
}

func NewWorkflow(entries EntryStore, settings SettingsStore, auth Authenticator, notifier Publisher) *Workflow {
	return &Workflow{
		entries:   entries,
		settings:  settings,
		auth:      auth,
		notifier:  notifier,
		activeTab: TabMovies,
		draft:     NewDraft(),
		current:   models.DefaultSettings(),
		now:       time.Now,
	}
}

// ──────────────────── session ────────────────────

// Login moves the workflow to Authenticated. On failure the error surfaces
// inline and the state stays Unauthenticated; it never panics.
func (w *Workflow) Login(ctx context.Context, email, password string) error {
	token, err := w.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.token = token
	w.mu.Unlock()
	return nil
}

func (w *Workflow) Logout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.token = ""
	w.draft = NewDraft()
}

func (w *Workflow) Authenticated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token != ""
}

func (w *Workflow) Token() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token
}

func (w *Workflow) requireAuth() error {
	if w.token == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// ──────────────────── list & settings fetch ────────────────────

// FetchMovies refreshes the movie tab. A fetch failure is logged and the
// prior list stays in place.
func (w *Workflow) FetchMovies(ctx context.Context) ([]models.Entry, error) {
	return w.fetchList(ctx, false)
}

// FetchSeries refreshes the series tab, same fail-soft contract.
func (w *Workflow) FetchSeries(ctx context.Context) ([]models.Entry, error) {
	return w.fetchList(ctx, true)
}

func (w *Workflow) fetchList(ctx context.Context, series bool) ([]models.Entry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return nil, err
	}

	all, err := w.entries.List(ctx)
	if err != nil {
		log.Printf("[admin] list fetch failed, keeping prior list: %v", err)
		if series {
			return w.seriesList, nil
		}
		return w.movieList, nil
	}

	var movies, shows []models.Entry
	for _, e := range all {
		if e.IsSeries() {
			shows = append(shows, e)
		} else {
			movies = append(movies, e)
		}
	}
	w.movieList, w.seriesList = movies, shows
	if series {
		return shows, nil
	}
	return movies, nil
}

// FetchSettings pulls the singleton record. Absence is not an error; the
// stored fields merge over the defaults inside the repository.
func (w *Workflow) FetchSettings(ctx context.Context) (models.AppSettings, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return w.current, err
	}

	s, _, err := w.settings.Get(ctx)
	if err != nil {
		log.Printf("[admin] settings fetch failed, keeping current: %v", err)
		return w.current, nil
	}
	w.current = s
	return s, nil
}

// ──────────────────── draft editing ────────────────────

func (w *Workflow) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Dispatch applies one form update to the draft.
func (w *Workflow) Dispatch(a Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return err
	}
	w.draft = Reduce(w.draft, a)
	return nil
}

// AddEpisode validates and appends the episode form to the draft.
func (w *Workflow) AddEpisode() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return err
	}
	next, err := w.draft.AddEpisode()
	if err != nil {
		return err
	}
	w.draft = next
	return nil
}

// EditLoad populates the draft from an already-fetched entry and switches
// the active tab to the entry's kind.
func (w *Workflow) EditLoad(e models.Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return err
	}
	w.loadDraft(e)
	return nil
}

// EditLoadByID fetches the stored record and populates the draft from it.
// The store's not-found error passes through untouched.
func (w *Workflow) EditLoadByID(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return err
	}
	e, err := w.entries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	w.loadDraft(*e)
	return nil
}

func (w *Workflow) loadDraft(e models.Entry) {
	w.draft = DraftFromEntry(e)
	if w.draft.Kind == models.KindSeries {
		w.activeTab = TabSeries
	} else {
		w.activeTab = TabMovies
	}
}

// ──────────────────── publish / delete / settings ────────────────────

// Publish validates the draft, writes the full replacement record, clears
// the form and refreshes the relevant list. A write failure leaves the
// draft intact for retry.
func (w *Workflow) Publish(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return err
	}
	if err := w.draft.Validate(); err != nil {
		return err
	}

	entry := w.draft.BuildEntry()
	editing := w.draft.EditingID != ""
	var err error
	if editing {
		err = w.entries.Update(ctx, &entry)
	} else {
		err = w.entries.Create(ctx, &entry)
	}
	if err != nil {
		return err
	}

	if editing {
		w.setMessage("Content updated successfully")
	} else {
		w.setMessage("Content published successfully")
	}

	kind := w.draft.Kind
	w.draft = NewDraft()
	w.draft.Kind = kind

	w.refreshLists(ctx)
	w.announce(ctx)
	return nil
}

// Delete removes the record by identifier. The confirmed flag carries the
// interactive confirmation; without it nothing happens.
func (w *Workflow) Delete(ctx context.Context, id string, confirmed bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return err
	}
	if !confirmed {
		return ErrDeleteNotConfirmed
	}
	if err := w.entries.Delete(ctx, id); err != nil {
		return err
	}
	w.setMessage("Content deleted successfully")
	w.refreshLists(ctx)
	w.announce(ctx)
	return nil
}

// SaveSettings overwrites the singleton record wholesale. The in-memory
// record keeps the admin's edits even when the remote write fails, so a
// retry resubmits them.
func (w *Workflow) SaveSettings(ctx context.Context, s models.AppSettings) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireAuth(); err != nil {
		return err
	}

	w.current = s
	if err := w.settings.Set(ctx, s); err != nil {
		return err
	}
	w.setMessage("Settings saved successfully")
	if err := w.notifier.Publish(ctx, catalog.ChannelSettings); err != nil {
		log.Printf("[admin] settings change notification failed: %v", err)
	}
	return nil
}

func (w *Workflow) Settings() models.AppSettings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Workflow) ActiveTab() Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeTab
}

func (w *Workflow) SetActiveTab(tab Tab) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activeTab = tab
}

// Message returns the transient confirmation, empty once it expired.
func (w *Workflow) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.now().Sub(w.messageAt) > messageTTL {
		return ""
	}
	return w.message
}

// ──────────────────── internals (mu held) ────────────────────

func (w *Workflow) setMessage(msg string) {
	w.message = msg
	w.messageAt = w.now()
}

func (w *Workflow) refreshLists(ctx context.Context) {
	all, err := w.entries.List(ctx)
	if err != nil {
		log.Printf("[admin] list refresh failed, keeping prior lists: %v", err)
		return
	}
	var movies, shows []models.Entry
	for _, e := range all {
		if e.IsSeries() {
			shows = append(shows, e)
		} else {
			movies = append(movies, e)
		}
	}
	w.movieList, w.seriesList = movies, shows
}

func (w *Workflow) announce(ctx context.Context) {
	if err := w.notifier.Publish(ctx, catalog.ChannelCatalog); err != nil {
		log.Printf("[admin] catalog change notification failed: %v", err)
	}
}

// MovieList and SeriesList return the last fetched tab contents.
func (w *Workflow) MovieList() []models.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Entry(nil), w.movieList...)
}

func (w *Workflow) SeriesList() []models.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Entry(nil), w.seriesList...)
}
