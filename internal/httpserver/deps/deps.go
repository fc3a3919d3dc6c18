package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/generation"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/prompt"
	"github.com/MrSnakeDoc/contentideas/internal/session"
	"github.com/MrSnakeDoc/contentideas/internal/website"
)

// MixStatus reports on the content-mix reloader.
type MixStatus interface {
	Enabled() bool
	Status() (time.Time, error)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // defaults to time.Now

	AllowedHosts []string // Host headers allowed on ops endpoints
	AllowedCIDRs []string // IPs allowed on ops endpoints
	TrustProxy   bool     // resolve client IPs from proxy headers

	Generator      generation.Generator // backs the stateless edge endpoint
	Sessions       *session.Manager
	Website        *website.Extractor
	Prompts        *prompt.Builder
	RepositoryKind string // "memory" | "redis"
	ModelName      string
	LeadTargets    map[string]bool // target name -> configured

	Mix           MixStatus
	ReloadTrigger chan struct{} // manual content-mix reload

	// Throttle limits generation-heavy routes; nil means no limit.
	Throttle     func(http.Handler) http.Handler
	MaxBodyBytes int64
}

// Now returns the configured clock.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
