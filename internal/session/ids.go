package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// reidentify returns copies of ideas with fresh, locally unique ids of the
// form <unix-millis>_<index>_<9 random chars>. Bookmark flags are reset.
func reidentify(ideas []domain.Idea, now time.Time) []domain.Idea {
	out := make([]domain.Idea, len(ideas))
	ms := now.UnixMilli()
	for i, idea := range ideas {
		idea.ID = fmt.Sprintf("%d_%d_%s", ms, i, randomSuffix())
		idea.IsBookmarked = false
		out[i] = idea
	}
	return out
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// NewID returns an opaque identifier for sessions and bookmark groups.
func NewID() string {
	return uuid.NewString()
}
