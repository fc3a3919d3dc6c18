package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Sessions   *int   `json:"sessions,omitempty"`
	Categories *int   `json:"categories,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	ServiceMode string                     `json:"service_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"model":      {OK: true, Mode: d.ModelName},
			"repository": checkRepository(ctx, d),
			"mix":        checkMix(d),
		}
		for name, ok := range d.LeadTargets {
			st := componentStatus{OK: true, Mode: "enabled"}
			if !ok {
				st.Mode = "disabled"
				st.Impact = "leads-not-forwarded"
			}
			components["leads_"+name] = st
		}

		writeJSON(w, http.StatusOK, infraResponse{
			ServiceMode: serviceMode(components),
			Components:  components,
		})
	}
}

// serviceMode is "critical" when sessions cannot be stored, "degraded" when
// any other component reports a problem.
func serviceMode(components map[string]componentStatus) string {
	if repo, ok := components["repository"]; ok && !repo.OK {
		return "critical"
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !components[name].OK {
			return "degraded"
		}
	}
	return "operational"
}

func checkRepository(ctx context.Context, d deps.Deps) componentStatus {
	repo := d.Sessions.Repository()
	if err := repo.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.RepositoryKind, Impact: "sessions-unavailable", Error: err.Error()}
	}
	st := componentStatus{OK: true, Mode: d.RepositoryKind}
	if n, err := repo.Count(ctx); err == nil {
		st.Sessions = &n
	}
	return st
}

func checkMix(d deps.Deps) componentStatus {
	st := componentStatus{OK: true, Mode: "built-in"}
	if d.Prompts != nil {
		n := len(d.Prompts.Mix().Categories)
		st.Categories = &n
	}
	if d.Mix == nil || !d.Mix.Enabled() {
		return st
	}

	st.Mode = "file"
	last, err := d.Mix.Status()
	st.LastReload = "never"
	if !last.IsZero() {
		st.LastReload = last.Format(time.RFC3339)
	}
	if err != nil {
		st.OK = false
		st.Impact = "previous-mix-in-use"
		st.Error = err.Error()
	}
	return st
}
