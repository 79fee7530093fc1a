package deeplink

// Host is the optional messaging-app bridge: viewport expansion, theming
// and haptic pulses. Core logic talks to this interface and never checks
// whether the host platform is actually present.
type Host interface {
	ExpandViewport()
	SetHeaderColor(hex string)
	SetBackgroundColor(hex string)
	HapticPulse(kind string)
	OpenLink(url string)
}

// Haptic pulse kinds recognized by the messaging host.
const (
	HapticSuccess = "success"
	HapticError   = "error"
)

// NoopHost is the fallback when no host platform is attached; links open in
// a generic browser context on the client instead.
type NoopHost struct{}

func (NoopHost) ExpandViewport()           {}
func (NoopHost) SetHeaderColor(string)     {}
func (NoopHost) SetBackgroundColor(string) {}
func (NoopHost) HapticPulse(string)        {}
func (NoopHost) OpenLink(string)           {}
