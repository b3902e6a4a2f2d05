package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/civicresolve/backend/internal/models"
)

// HTTPAdapter calls an analysis microservice exposing POST /analyze.
type HTTPAdapter struct {
	BaseURL string
	Client  *http.Client
}

type responseBody struct {
	Success  bool               `json:"success"`
	Analysis *models.AIAnalysis `json:"analysis"`
}

func (h HTTPAdapter) Analyze(ctx context.Context, req AnalysisRequest) (models.AIAnalysis, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 15 * time.Second}
	}

	b, err := json.Marshal(req)
	if err != nil {
		return models.AIAnalysis{}, err
	}
	url := strings.TrimRight(h.BaseURL, "/") + "/analyze"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return models.AIAnalysis{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(httpReq)
	if err != nil {
		return models.AIAnalysis{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.AIAnalysis{}, fmt.Errorf("analysis service error: %s", resp.Status)
	}

	var r responseBody
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return models.AIAnalysis{}, err
	}
	if r.Analysis == nil {
		return models.AIAnalysis{}, fmt.Errorf("analysis service returned no analysis")
	}
	return *r.Analysis, nil
}
