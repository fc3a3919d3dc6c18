package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/contentideas/internal/session"
)

// sessionView is the client-facing snapshot of a session.
type sessionView struct {
	ID         string                 `json:"id"`
	Ideas      []domain.Idea          `json:"ideas"`
	Groups     []domain.BookmarkGroup `json:"groups"`
	Loading    bool                   `json:"loading"`
	Error      string                 `json:"error,omitempty"`
	HasContext bool                   `json:"hasContext"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

func viewOf(s *session.Session) sessionView {
	v := sessionView{
		ID:         s.ID,
		Ideas:      s.State.Ideas,
		Groups:     s.State.Groups,
		Loading:    s.State.Loading,
		Error:      s.State.Error,
		HasContext: s.Context != nil,
		UpdatedAt:  s.UpdatedAt,
	}
	if v.Ideas == nil {
		v.Ideas = []domain.Idea{}
	}
	if v.Groups == nil {
		v.Groups = []domain.BookmarkGroup{}
	}
	return v
}

// generatedStatus is 200 unless the generation left an error on the state.
func generatedStatus(s *session.Session) int {
	if s.State.Error != "" {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func CreateSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Create(r.Context())
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(s))
	}
}

func GetSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func DeleteSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GenerateSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bc domain.BusinessContext
		if err := decodeBody(d, r, &bc); err != nil {
			writeError(w, d, r, err)
			return
		}
		if err := bc.Validate(); err != nil {
			writeError(w, d, r, err)
			return
		}

		s, err := d.Sessions.Generate(r.Context(), chi.URLParam(r, "id"), bc)
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, generatedStatus(s), viewOf(s))
	}
}

type generateMoreRequest struct {
	Context     *domain.BusinessContext `json:"context,omitempty"`
	LikedTitles []string                `json:"likedTitles,omitempty"`
}

func GenerateMoreSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateMoreRequest
		if r.ContentLength != 0 {
			if err := decodeBody(d, r, &req); err != nil {
				writeError(w, d, r, err)
				return
			}
		}
		if req.Context != nil {
			if err := req.Context.Validate(); err != nil {
				writeError(w, d, r, err)
				return
			}
		}

		s, err := d.Sessions.GenerateMore(r.Context(), chi.URLParam(r, "id"), req.Context, req.LikedTitles)
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, generatedStatus(s), viewOf(s))
	}
}

func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.ToggleBookmark(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "ideaID"))
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func ClearBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.ClearBookmarks(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

type commitGroupRequest struct {
	Name string `json:"name"`
}

type commitGroupResponse struct {
	Session sessionView           `json:"session"`
	Group   *domain.BookmarkGroup `json:"group"`
}

// CommitGroup answers 200 with a null group when nothing was bookmarked.
func CommitGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commitGroupRequest
		if r.ContentLength != 0 {
			if err := decodeBody(d, r, &req); err != nil {
				writeError(w, d, r, err)
				return
			}
		}

		s, g, err := d.Sessions.CommitGroup(r.Context(), chi.URLParam(r, "id"), req.Name)
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		status := http.StatusOK
		if g != nil {
			status = http.StatusCreated
		}
		writeJSON(w, status, commitGroupResponse{Session: viewOf(s), Group: g})
	}
}

func DeleteGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.DeleteGroup(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "groupID"))
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

// ExportSession streams the selection as a text attachment.
func ExportSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exp, err := d.Sessions.Export(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(r.URL.Query().Get("group")))
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		w.Header().Set("Content-Type", session.ExportContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+exp.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(exp.Content))
	}
}
