// Package content fetches the remote announcement rule list and adhkar
// text bodies. Failures degrade to the last good snapshot; they never stop
// the tick loop.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/masjidtech/minaret/internal/model"
	"github.com/masjidtech/minaret/internal/rules"
)

// maxBodyBytes bounds how much of a response we are willing to read.
const maxBodyBytes = 4 << 20

// Source talks to the content server.
type Source struct {
	client   *http.Client
	rulesURL string
}

func NewSource(rulesURL string) *Source {
	return &Source{
		client:   &http.Client{Timeout: 15 * time.Second},
		rulesURL: rulesURL,
	}
}

// FetchRules downloads and decodes the rule list. The raw body comes back
// too so the caller can persist the snapshot it decoded.
func (s *Source) FetchRules(ctx context.Context) (model.RuleSet, []byte, error) {
	body, err := s.get(ctx, s.rulesURL)
	if err != nil {
		return model.RuleSet{}, nil, fmt.Errorf("fetch rules: %w", err)
	}
	set, skipped := rules.Decode(body, time.Now().UTC())
	if len(set.Rules) == 0 && skipped > 0 {
		return model.RuleSet{}, nil, fmt.Errorf("fetch rules: all %d entries invalid", skipped)
	}
	return set, body, nil
}

// FetchAdhkarText loads one adhkar text body. Relative sources resolve
// against the rule list URL.
func (s *Source) FetchAdhkarText(ctx context.Context, source string) (string, error) {
	u, err := s.resolve(source)
	if err != nil {
		return "", err
	}
	body, err := s.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("fetch adhkar text %s: %w", source, err)
	}
	return string(body), nil
}

func (s *Source) resolve(source string) (string, error) {
	ref, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("bad adhkar text source %q: %w", source, err)
	}
	if ref.IsAbs() {
		return source, nil
	}
	base, err := url.Parse(s.rulesURL)
	if err != nil {
		return "", fmt.Errorf("bad rules URL %q: %w", s.rulesURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (s *Source) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
