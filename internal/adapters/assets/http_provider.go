package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/retry"
)

// HTTPProvider fetches guide assets (fonts, logo) from their configured
// URLs. Every fetch is bounded by a short retry budget; callers treat any
// returned error as a cue to fall back, never as a generation failure.
type HTTPProvider struct {
	fontRegularURL string
	fontBoldURL    string
	logoURL        string
	httpClient     *http.Client
}

// NewHTTPProvider creates a new HTTP asset provider
func NewHTTPProvider(cfg *config.AssetsConfig) providers.AssetProvider {
	return &HTTPProvider{
		fontRegularURL: cfg.FontRegularURL,
		fontBoldURL:    cfg.FontBoldURL,
		logoURL:        cfg.LogoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FontPair fetches the regular and bold font files concurrently. The pair is
// all-or-nothing: if either fetch fails, both are discarded so the renderer
// falls back to its built-in fonts as a matched set.
func (p *HTTPProvider) FontPair(ctx context.Context) (*providers.FontPair, error) {
	if p.fontRegularURL == "" || p.fontBoldURL == "" {
		return nil, fmt.Errorf("font URLs are not configured")
	}

	type fetchResult struct {
		data []byte
		err  error
	}

	regularCh := make(chan fetchResult, 1)
	boldCh := make(chan fetchResult, 1)

	go func() {
		data, err := p.fetch(ctx, p.fontRegularURL)
		regularCh <- fetchResult{data, err}
	}()
	go func() {
		data, err := p.fetch(ctx, p.fontBoldURL)
		boldCh <- fetchResult{data, err}
	}()

	regular := <-regularCh
	bold := <-boldCh

	if regular.err != nil {
		return nil, fmt.Errorf("regular font fetch failed: %w", regular.err)
	}
	if bold.err != nil {
		return nil, fmt.Errorf("bold font fetch failed: %w", bold.err)
	}

	return &providers.FontPair{
		Family:  "GuideSans",
		Regular: regular.data,
		Bold:    bold.data,
	}, nil
}

// Logo fetches the clinic logo image
func (p *HTTPProvider) Logo(ctx context.Context) (*providers.LogoImage, error) {
	if p.logoURL == "" {
		return nil, fmt.Errorf("logo URL is not configured")
	}

	data, err := p.fetch(ctx, p.logoURL)
	if err != nil {
		return nil, fmt.Errorf("logo fetch failed: %w", err)
	}

	return &providers.LogoImage{
		Format: imageFormat(p.logoURL),
		Data:   data,
	}, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := retry.Do(ctx, retry.AssetConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})

	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body from %s", url)
	}
	return body, nil
}

func imageFormat(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "jpg"
	case strings.HasSuffix(lower, ".gif"):
		return "gif"
	default:
		return "png"
	}
}
