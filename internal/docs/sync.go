package docs

import (
	"context"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docsync/internal/fetcher"
	"github.com/goliatone/go-docsync/internal/identity"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/markdown"
	"github.com/goliatone/go-docsync/internal/metrics"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// NavigationInvalidator drops the cached navigation tree.
type NavigationInvalidator interface {
	Invalidate(ctx context.Context) error
}

// SyncerConfig wires the collaborators of a sync pass.
type SyncerConfig struct {
	Store interfaces.DocumentStore
	// Source is used when a call does not supply its own.
	Source     interfaces.TreeSource
	Pipeline   *markdown.Pipeline
	Navigation NavigationInvalidator
	Metrics    *metrics.Metrics
	Logger     interfaces.Logger
	// Concurrency bounds parallel directory listings during the walk.
	Concurrency int
	// Shallow lists only the source root on every pass.
	Shallow bool
	Clock   func() time.Time
}

// Syncer runs the fetch, compare, transform and store cycle. Passes on the
// same Syncer never overlap.
type Syncer struct {
	store       interfaces.DocumentStore
	source      interfaces.TreeSource
	pipeline    *markdown.Pipeline
	navigation  NavigationInvalidator
	metrics     *metrics.Metrics
	logger      interfaces.Logger
	concurrency int
	shallow     bool
	now         func() time.Time

	running sync.Mutex
}

// NewSyncer validates cfg and fills in defaults.
func NewSyncer(cfg SyncerConfig) (*Syncer, error) {
	if cfg.Store == nil {
		return nil, ErrStoreRequired
	}
	pipeline := cfg.Pipeline
	if pipeline == nil {
		pipeline = markdown.NewPipeline(nil, markdown.LinkRewriter{})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Syncer{
		store:       cfg.Store,
		source:      cfg.Source,
		pipeline:    pipeline,
		navigation:  cfg.Navigation,
		metrics:     cfg.Metrics,
		logger:      logger,
		concurrency: cfg.Concurrency,
		shallow:     cfg.Shallow,
		now:         clock,
	}, nil
}

// Sync runs one pass. A failure to list the root returns an empty result and
// leaves the store untouched. A store write failure stops the pass and returns
// the paths written so far together with the error. Individual fetch failures
// and unreadable subtrees are reported in the result without an error.
func (s *Syncer) Sync(ctx context.Context, opts interfaces.SyncOptions) (interfaces.SyncResult, error) {
	if !s.running.TryLock() {
		return interfaces.SyncResult{}, goerrors.Wrap(ErrSyncInProgress, goerrors.CategoryConflict, "sync pass rejected").
			WithTextCode(TextCodeSyncInProgress)
	}
	defer s.running.Unlock()

	source := opts.Source
	if source == nil {
		source = s.source
	}
	if source == nil {
		return interfaces.SyncResult{}, ErrSourceRequired
	}

	if logging.SyncRun(ctx) == "" {
		ctx = logging.WithSyncRun(ctx, identity.RunID())
	}
	started := s.now()
	result := interfaces.SyncResult{Changed: []string{}}
	logger := s.logger.WithContext(ctx)

	// Navigation is dropped on every exit path once the pass has started.
	defer s.invalidateNavigation(ctx, logger)

	if opts.Force {
		deleted, err := s.store.DeleteAll(ctx)
		if err != nil {
			return s.finish(result, started, goerrors.Wrap(err, goerrors.CategoryInternal, "reset document store").
				WithTextCode(TextCodeResetFailed))
		}
		result.Deleted = deleted
		s.invalidateNavigation(ctx, logger)
		logger.Info("docs.sync.reset", "deleted", deleted)
	}

	walk, err := fetcher.Walk(ctx, source, fetcher.WalkOptions{
		Shallow:     s.shallow || opts.Shallow,
		Concurrency: s.concurrency,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("docs.sync.root_listing_failed", "root", source.Root(), "error", err)
		return s.finish(result, started, goerrors.Wrap(err, goerrors.CategoryExternal, "list documentation root").
			WithTextCode(TextCodeRootListingFailed).
			WithMetadata(map[string]any{"root": source.Root()}))
	}
	result.Listed = len(walk.Files)
	for _, failure := range walk.Failures {
		result.FailedSubtrees = append(result.FailedSubtrees, failure.Path)
	}

	root := source.Root()
	for _, file := range walk.Files {
		if err := ctx.Err(); err != nil {
			return s.finish(result, started, err)
		}
		if err := s.syncFile(ctx, source, root, file, &result); err != nil {
			return s.finish(result, started, err)
		}
	}

	return s.finish(result, started, nil)
}

func (s *Syncer) syncFile(ctx context.Context, source interfaces.TreeSource, root string, file interfaces.RemoteFile, result *interfaces.SyncResult) error {
	docPath := DocumentPath(root, file.RemotePath)
	logger := logging.WithDocumentContext(s.logger.WithContext(ctx), docPath, file.RemotePath, "")

	if docPath == "" {
		logger.Warn("docs.sync.empty_path")
		result.Failed = append(result.Failed, file.RemotePath)
		return nil
	}

	if s.unchanged(ctx, logger, docPath, file.ContentHash) {
		result.Skipped++
		return nil
	}

	raw, err := source.Fetch(ctx, file)
	if err != nil {
		logger.Warn("docs.sync.fetch_failed", "error", err)
		result.Failed = append(result.Failed, docPath)
		return nil
	}

	out := s.pipeline.Transform(docPath, raw)
	if !out.FrontMatterOK {
		logger.Warn("docs.sync.frontmatter_invalid")
	}

	if _, err := s.store.Upsert(ctx, &interfaces.Document{
		Path:        docPath,
		Title:       out.Title,
		Description: out.Description,
		ContentRaw:  out.Body,
		ContentHTML: out.HTML,
		ContentHash: file.ContentHash,
		Order:       out.Order,
	}); err != nil {
		logger.Error("docs.sync.store_failed", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "store document").
			WithTextCode(TextCodeStoreWriteFailed).
			WithMetadata(map[string]any{"path": docPath})
	}

	result.Changed = append(result.Changed, docPath)
	logging.WithDocumentContext(logger, "", "", "upserted").Debug("docs.sync.document")
	return nil
}

// unchanged reports whether docPath is already stored with hash. The hash
// index answers the common case; when identical content lives under several
// paths the hit may belong to a sibling, so the path record decides.
func (s *Syncer) unchanged(ctx context.Context, logger interfaces.Logger, docPath, hash string) bool {
	if hash == "" {
		return false
	}
	existing, err := s.store.FindByHash(ctx, hash)
	if err != nil {
		if !IsNotFound(err) {
			logger.Warn("docs.sync.hash_lookup_failed", "error", err)
		}
		return false
	}
	if existing.Path == docPath {
		return true
	}
	current, err := s.store.FindByPath(ctx, docPath)
	if err != nil {
		return false
	}
	return current.ContentHash == hash
}

func (s *Syncer) finish(result interfaces.SyncResult, started time.Time, err error) (interfaces.SyncResult, error) {
	finished := s.now()
	result.Duration = finished.Sub(started)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
	case result.Partial():
		outcome = metrics.OutcomePartial
	}
	s.metrics.ObserveSync(outcome, len(result.Changed), result.Skipped, len(result.Failed), len(result.FailedSubtrees), result.Duration, finished)

	fields := []any{
		"changed", len(result.Changed),
		"skipped", result.Skipped,
		"failed", len(result.Failed),
		"failed_subtrees", len(result.FailedSubtrees),
		"duration", result.Duration,
	}
	if err != nil {
		s.logger.Error("docs.sync.failed", append(fields, "error", err)...)
	} else {
		s.logger.Info("docs.sync.completed", fields...)
	}
	return result, err
}

func (s *Syncer) invalidateNavigation(ctx context.Context, logger interfaces.Logger) {
	if s.navigation == nil {
		return
	}
	if err := s.navigation.Invalidate(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("docs.sync.navigation_invalidate_failed", "error", err)
	}
}

// DocumentPath maps a remote file path to its document key by removing the
// root prefix and the Markdown extension.
func DocumentPath(root, remotePath string) string {
	p := strings.Trim(strings.TrimSpace(remotePath), "/")
	root = strings.Trim(strings.TrimSpace(root), "/")
	if root != "" && root != "." {
		if p == root {
			p = ""
		} else {
			p = strings.TrimPrefix(p, root+"/")
		}
	}
	return strings.TrimSuffix(p, fetcher.MarkdownExt)
}
