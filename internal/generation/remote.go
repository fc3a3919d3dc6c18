package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/utils"
)

// Remote is a Generator backed by a deployed generation endpoint.
type Remote struct {
	baseURL string
	client  *http.Client
}

func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	return &Remote{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *Remote) Generate(ctx context.Context, bc domain.BusinessContext) domain.GenerationResult {
	return r.post(ctx, r.baseURL, Request{BusinessContext: bc})
}

func (r *Remote) GenerateMore(ctx context.Context, bc domain.BusinessContext, likedTitles []string) domain.GenerationResult {
	return r.post(ctx, r.baseURL+"/generate-more", Request{BusinessContext: bc, SelectedIdeas: likedTitles})
}

func (r *Remote) post(ctx context.Context, url string, body Request) domain.GenerationResult {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.Failed(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return domain.Failed(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Failed(err)
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Failed(fmt.Errorf("HTTP error! status: %d", resp.StatusCode))
	}

	var res domain.GenerationResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return domain.Failed(fmt.Errorf("decode response: %w", err))
	}
	return res
}
