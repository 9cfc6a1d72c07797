// Package assets resolves asset references (local paths or remote URLs) to
// opaque handles the scene composer and randomization rules can instantiate.
package assets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/synthgrid/internal/ctxlog"
)

// Ref is an asset reference: a filesystem path or an http(s) URL.
type Ref string

// Asset is an opaque handle to a resolved, instantiable asset.
type Asset struct {
	Ref    Ref
	Name   string
	Remote bool
}

// Source resolves asset references to instantiable handles.
type Source interface {
	Resolve(ctx context.Context, ref Ref) (*Asset, error)
}

// Library is the default Source. Local references must exist on disk;
// remote references are accepted by scheme and optionally verified with a
// HEAD request.
type Library struct {
	client       *http.Client
	verifyRemote bool
}

// Option configures a Library.
type Option func(*Library)

// WithRemoteVerification enables a HEAD request against remote references
// at resolve time. Disabled by default so offline runs and tests do not
// touch the network.
func WithRemoteVerification(client *http.Client) Option {
	return func(l *Library) {
		l.verifyRemote = true
		if client != nil {
			l.client = client
		}
	}
}

// NewLibrary creates a Library with the given options.
func NewLibrary(opts ...Option) *Library {
	l := &Library{client: http.DefaultClient}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve implements Source. A missing local file or an unsupported remote
// scheme is a configuration error; there is no retry.
func (l *Library) Resolve(ctx context.Context, ref Ref) (*Asset, error) {
	logger := ctxlog.FromContext(ctx)
	raw := string(ref)
	if raw == "" {
		return nil, fmt.Errorf("empty asset reference")
	}

	if u, err := url.Parse(raw); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if l.verifyRemote {
			if err := l.verify(ctx, raw); err != nil {
				return nil, fmt.Errorf("remote asset '%s' is unreachable: %w", raw, err)
			}
		}
		logger.Debug("Resolved remote asset reference.", "ref", raw)
		return &Asset{Ref: ref, Name: baseName(u.Path), Remote: true}, nil
	}

	if strings.Contains(raw, "://") {
		return nil, fmt.Errorf("unsupported asset reference scheme in '%s'", raw)
	}

	if _, err := os.Stat(raw); err != nil {
		return nil, fmt.Errorf("missing asset reference '%s': %w", raw, err)
	}
	logger.Debug("Resolved local asset reference.", "ref", raw)
	return &Asset{Ref: ref, Name: baseName(raw)}, nil
}

func (l *Library) verify(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}

func baseName(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
