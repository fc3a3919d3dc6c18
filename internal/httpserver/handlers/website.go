package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
)

type websiteRequest struct {
	URL string `json:"url"`
}

// Website returns the metadata extracted for a URL.
func Website(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Website == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "website extraction is disabled"})
			return
		}

		var req websiteRequest
		if err := decodeBody(d, r, &req); err != nil {
			writeError(w, d, r, err)
			return
		}

		data, err := d.Website.Extract(r.Context(), req.URL)
		if err != nil {
			writeError(w, d, r, err)
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}
