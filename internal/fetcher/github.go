package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	DefaultAPIBaseURL = "https://api.github.com"
	DefaultRawBaseURL = "https://raw.githubusercontent.com"
	DefaultUserAgent  = "go-docsync"
	DefaultTimeout    = 15 * time.Second

	maxBodyBytes = 10 << 20

	metaRetryAfter = "retry_after"
)

// GitHubConfig configures the GitHub contents API source.
type GitHubConfig struct {
	Repo     string
	Branch   string
	DocsPath string
	Token    string

	APIBaseURL string
	RawBaseURL string
	UserAgent  string

	// Timeout bounds every HTTP request.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests; zero disables pacing.
	RequestsPerSecond float64
	// MaxRetries is the number of extra attempts on rate limits and 5xx.
	MaxRetries    uint
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	HTTPClient *http.Client
	Logger     interfaces.Logger
}

// GitHubSource lists a repository folder through the contents API and reads
// file bodies from the raw content host.
type GitHubSource struct {
	cfg     GitHubConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  interfaces.Logger
}

var _ interfaces.TreeSource = (*GitHubSource)(nil)

type githubEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// NewGitHubSource validates cfg and applies defaults.
func NewGitHubSource(cfg GitHubConfig) (*GitHubSource, error) {
	cfg.Repo = strings.Trim(strings.TrimSpace(cfg.Repo), "/")
	if cfg.Repo == "" || strings.Count(cfg.Repo, "/") != 1 {
		return nil, goerrors.New(fmt.Sprintf("github source: repo must be owner/name, got %q", cfg.Repo), goerrors.CategoryValidation).
			WithTextCode("GITHUB_REPO_INVALID")
	}
	if strings.TrimSpace(cfg.Branch) == "" {
		cfg.Branch = "main"
	}
	cfg.DocsPath = strings.Trim(strings.TrimSpace(cfg.DocsPath), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.RawBaseURL == "" {
		cfg.RawBaseURL = DefaultRawBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.RawBaseURL = strings.TrimRight(cfg.RawBaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.MaxRetryDelay <= 0 {
		cfg.MaxRetryDelay = 10 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	} else if client.Timeout <= 0 {
		copied := *client
		copied.Timeout = cfg.Timeout
		client = &copied
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &GitHubSource{cfg: cfg, client: client, limiter: limiter, logger: logger}, nil
}

// Root implements interfaces.TreeSource.
func (s *GitHubSource) Root() string {
	return s.cfg.DocsPath
}

// List implements interfaces.TreeSource using
// GET /repos/{repo}/contents/{dir}?ref={branch}.
func (s *GitHubSource) List(ctx context.Context, dir string) ([]interfaces.RemoteEntry, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s",
		s.cfg.APIBaseURL, s.cfg.Repo, escapePath(dir), url.QueryEscape(s.cfg.Branch))

	body, err := s.get(ctx, endpoint, "application/vnd.github.v3+json")
	if err != nil {
		return nil, err
	}

	var raw []githubEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		var single githubEntry
		if json.Unmarshal(body, &single) == nil && single.Type != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "github listing: decode response").
			WithTextCode(textCodeUpstream)
	}

	out := make([]interfaces.RemoteEntry, 0, len(raw))
	for _, item := range raw {
		var kind interfaces.EntryKind
		switch item.Type {
		case "file":
			kind = interfaces.EntryFile
		case "dir":
			kind = interfaces.EntryDir
		default:
			continue
		}
		out = append(out, interfaces.RemoteEntry{
			Name:        item.Name,
			Path:        item.Path,
			Kind:        kind,
			ContentHash: item.SHA,
		})
	}
	return out, nil
}

// Fetch implements interfaces.TreeSource by reading
// {raw}/{repo}/{branch}/{path}.
func (s *GitHubSource) Fetch(ctx context.Context, file interfaces.RemoteFile) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", s.cfg.RawBaseURL, s.cfg.Repo, escapePath(s.cfg.Branch), escapePath(file.RemotePath))
	return s.get(ctx, endpoint, "")
}

// EditURL returns the GitHub edit link for a document path.
func (s *GitHubSource) EditURL(docPath string) string {
	return EditURL(s.cfg.Repo, s.cfg.Branch, s.cfg.DocsPath, docPath)
}

// EditURL builds https://github.com/{repo}/edit/{branch}/{docsPath}/{path}.md.
func EditURL(repo, branch, docsPath, docPath string) string {
	repo = strings.Trim(repo, "/")
	if repo == "" || docPath == "" {
		return ""
	}
	parts := []string{"https://github.com", repo, "edit", branch}
	if trimmed := strings.Trim(docsPath, "/"); trimmed != "" && trimmed != "." {
		parts = append(parts, trimmed)
	}
	parts = append(parts, strings.Trim(docPath, "/")+MarkdownExt)
	return strings.Join(parts, "/")
}

func (s *GitHubSource) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	attempts := s.cfg.MaxRetries + 1

	return retry.DoWithData(
		func() ([]byte, error) {
			return s.attempt(ctx, endpoint, accept)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.cfg.RetryDelay),
		retry.MaxDelay(s.cfg.MaxRetryDelay),
		retry.DelayType(s.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(goerrors.IsRetryableError),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("fetcher.github.retry", "url", endpoint, "attempt", n+1, "error", err)
		}),
	)
}

// retryDelay honours a Retry-After hint carried by a rate limit error and
// otherwise backs off exponentially from RetryDelay. The base delay go-errors
// puts on every retryable error is not a server hint and is ignored.
func (s *GitHubSource) retryDelay(n uint, err error, cfg *retry.Config) time.Duration {
	if hinted := retryAfterHint(err); hinted > 0 {
		return min(hinted, s.cfg.MaxRetryDelay)
	}
	return retry.BackOffDelay(n, err, cfg)
}

func retryAfterHint(err error) time.Duration {
	var retryable *goerrors.RetryableError
	if !errors.As(err, &retryable) || retryable.BaseError == nil {
		return 0
	}
	hinted, _ := retryable.Metadata[metaRetryAfter].(time.Duration)
	return hinted
}

func (s *GitHubSource) attempt(ctx context.Context, endpoint, accept string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, retry.Unrecoverable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Unrecoverable(ctx.Err())
		}
		return nil, goerrors.WrapRetryable(err, goerrors.CategoryExternal, "github request failed").
			WithTextCode(textCodeTransport).
			WithMetadata(map[string]any{"url": endpoint})
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp, endpoint); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, goerrors.WrapRetryable(err, goerrors.CategoryExternal, "github read body").
			WithTextCode(textCodeTransport)
	}
	return body, nil
}

func classifyStatus(resp *http.Response, endpoint string) error {
	status := resp.StatusCode
	meta := map[string]any{"url": endpoint, "status": status}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests || (status == http.StatusForbidden && rateLimitExhausted(resp.Header)):
		retryErr := goerrors.NewRetryable("github rate limit exceeded", goerrors.CategoryRateLimit).
			WithTextCode(textCodeRateLimited).
			WithCode(status).
			WithMetadata(meta)
		if wait := retryAfter(resp.Header); wait > 0 {
			retryErr = retryErr.WithRetryDelay(wait).
				WithMetadata(map[string]any{metaRetryAfter: wait})
		}
		return retryErr
	case status == http.StatusNotFound:
		return goerrors.New("github resource not found", goerrors.CategoryNotFound).
			WithTextCode(textCodeNotFound).
			WithCode(status).
			WithMetadata(meta)
	case status >= 500:
		return goerrors.NewRetryable(fmt.Sprintf("github upstream error: %s", resp.Status), goerrors.CategoryExternal).
			WithTextCode(textCodeUpstream).
			WithCode(status).
			WithMetadata(meta)
	default:
		return goerrors.New(fmt.Sprintf("github request rejected: %s", resp.Status), goerrors.CategoryExternal).
			WithTextCode(textCodeUpstream).
			WithCode(status).
			WithMetadata(meta)
	}
}

func rateLimitExhausted(h http.Header) bool {
	return h.Get("X-RateLimit-Remaining") == "0" || h.Get("Retry-After") != ""
}

func retryAfter(h http.Header) time.Duration {
	if value := h.Get("Retry-After"); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
