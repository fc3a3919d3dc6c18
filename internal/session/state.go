package session

import (
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// State is an immutable snapshot of one user's ideas and bookmark groups.
// Every transition returns a new State and leaves the receiver untouched.
type State struct {
	Ideas   []domain.Idea          `json:"ideas"`
	Groups  []domain.BookmarkGroup `json:"groups"`
	Loading bool                   `json:"loading"`
	Error   string                 `json:"error,omitempty"`
}

// NewState returns an empty, idle state.
func NewState() State {
	return State{Ideas: []domain.Idea{}, Groups: []domain.BookmarkGroup{}}
}

func (s State) clone() State {
	out := s
	out.Ideas = domain.CloneIdeas(s.Ideas)
	if out.Ideas == nil {
		out.Ideas = []domain.Idea{}
	}
	out.Groups = make([]domain.BookmarkGroup, len(s.Groups))
	for i, g := range s.Groups {
		g.Ideas = domain.CloneIdeas(g.Ideas)
		out.Groups[i] = g
	}
	return out
}

// BeginRequest marks a generation as in flight and clears the last error.
func (s State) BeginRequest() State {
	out := s.clone()
	out.Loading = true
	out.Error = ""
	return out
}

// FailRequest records msg and ends the request. Ideas are kept.
func (s State) FailRequest(msg string) State {
	out := s.clone()
	out.Loading = false
	out.Error = msg
	return out
}

// ReplaceIdeas swaps the whole active list and ends the request.
func (s State) ReplaceIdeas(ideas []domain.Idea) State {
	out := s.clone()
	out.Ideas = domain.CloneIdeas(ideas)
	if out.Ideas == nil {
		out.Ideas = []domain.Idea{}
	}
	out.Loading = false
	return out
}

// AppendIdeas adds ideas after the existing ones and ends the request.
func (s State) AppendIdeas(ideas []domain.Idea) State {
	out := s.clone()
	out.Ideas = append(out.Ideas, ideas...)
	out.Loading = false
	return out
}

// ToggleBookmark flips the bookmark flag of the idea with id. Unknown ids
// leave the state unchanged.
func (s State) ToggleBookmark(id string) State {
	out := s.clone()
	for i := range out.Ideas {
		if out.Ideas[i].ID == id {
			out.Ideas[i].IsBookmarked = !out.Ideas[i].IsBookmarked
		}
	}
	return out
}

// ClearBookmarks unsets every bookmark flag on the active list.
func (s State) ClearBookmarks() State {
	out := s.clone()
	for i := range out.Ideas {
		out.Ideas[i].IsBookmarked = false
	}
	return out
}

// CommitGroup snapshots the bookmarked ideas into a new group named name and
// clears their flags. With nothing bookmarked the state is returned as is
// and ok is false.
func (s State) CommitGroup(id, name string, at time.Time) (next State, group domain.BookmarkGroup, ok bool) {
	picked := s.Bookmarked()
	if len(picked) == 0 {
		return s, domain.BookmarkGroup{}, false
	}

	group = domain.BookmarkGroup{
		ID:        id,
		Name:      name,
		Ideas:     picked,
		CreatedAt: at,
	}
	next = s.ClearBookmarks()
	next.Groups = append(next.Groups, group)
	return next, group, true
}

// DeleteGroup removes the group with id, if any.
func (s State) DeleteGroup(id string) (State, bool) {
	out := s.clone()
	for i, g := range out.Groups {
		if g.ID == id {
			out.Groups = append(out.Groups[:i], out.Groups[i+1:]...)
			return out, true
		}
	}
	return out, false
}

// Bookmarked returns copies of the bookmarked ideas in list order.
func (s State) Bookmarked() []domain.Idea {
	var out []domain.Idea
	for _, idea := range s.Ideas {
		if idea.IsBookmarked {
			out = append(out, idea)
		}
	}
	return out
}

// LikedTitles returns the titles of the bookmarked ideas.
func (s State) LikedTitles() []string {
	var out []string
	for _, idea := range s.Ideas {
		if idea.IsBookmarked {
			out = append(out, idea.Title)
		}
	}
	return out
}

// Group looks a bookmark group up by id.
func (s State) Group(id string) (domain.BookmarkGroup, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			g.Ideas = domain.CloneIdeas(g.Ideas)
			return g, true
		}
	}
	return domain.BookmarkGroup{}, false
}
