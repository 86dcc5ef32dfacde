package generative

import (
	"bytes"
	"context"
	"ecomap-score-service/internal/platform/metrics"
	"ecomap-score-service/internal/platform/obs"
	"ecomap-score-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.0-flash-exp"
)

// GeminiTextGenerator implements TextGenerator using the Gemini
// generateContent REST endpoint.
//
// One Generate call issues exactly one HTTP request; there is no retry.
// The generator is safe for concurrent use.
type GeminiTextGenerator struct {
	session *http.Client
	apiKey  string
	baseURL string
	model   string
}

type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewGeminiTextGenerator accepts an empty key; calls then fail with
// ErrCollaboratorUnavailable instead of the process refusing to start.
func NewGeminiTextGenerator(cfg GeminiConfig) *GeminiTextGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &GeminiTextGenerator{
		session: &http.Client{Timeout: cfg.Timeout},
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (g *GeminiTextGenerator) Generate(ctx context.Context, prompt string) (_ string, err error) {
	defer obs.Time(ctx, "gemini.Generate")(&err)

	if g.apiKey == "" {
		return "", fmt.Errorf("gemini: %w: api key not configured", ports.ErrCollaboratorUnavailable)
	}

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := g.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: %w: %w", ports.ErrCollaboratorUnavailable, err)
	}

	start := time.Now()
	resp, err := g.do(req)
	observeRequest(start, err)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	var decoded generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("gemini: %w: decode response: %w", ports.ErrCollaboratorUnavailable, err)
	}

	if len(decoded.Candidates) == 0 {
		reason := decoded.PromptFeedback.BlockReason
		if reason == "" {
			reason = "no candidates returned"
		}
		return "", fmt.Errorf("gemini: %w: %s", ports.ErrCollaboratorUnavailable, reason)
	}

	var b strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// classify maps transport and status failures onto the port's sentinels.
func classify(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) && he.Code == http.StatusTooManyRequests {
		return fmt.Errorf("gemini: %w: %w: %w", ports.ErrQuotaExceeded, ports.ErrCollaboratorUnavailable, err)
	}
	return fmt.Errorf("gemini: %w: %w", ports.ErrCollaboratorUnavailable, err)
}

func observeRequest(start time.Time, err error) {
	status := "200"
	if err != nil {
		status = "error"
		var he *httpStatusError
		if errors.As(err, &he) {
			status = strconv.Itoa(he.Code)
		}
	}
	metrics.GeneratorRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
