package sbfs

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/sbfs/cache"
	"github.com/arloliu/sbfs/compress"
	"github.com/arloliu/sbfs/crossval"
	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/internal/options"
	"github.com/arloliu/sbfs/regression"
	"github.com/arloliu/sbfs/score"
	"github.com/arloliu/sbfs/selection"
	"github.com/arloliu/sbfs/subset"
)

type sessionConfig struct {
	regressor       string
	crossValidation string
	scoring         []string
	preprocessor    string
	logger          *zap.Logger
	listener        selection.Listener
	cache           *cache.Cache
}

// SessionOption configures a Session.
type SessionOption = options.Option[*sessionConfig]

// WithRegressor selects the regression backend by registry name.
func WithRegressor(name string) SessionOption {
	return options.NoError(func(c *sessionConfig) { c.regressor = name })
}

// WithCrossValidation selects the cross-validator, e.g. "KFOLD_5" or "LOO".
func WithCrossValidation(name string) SessionOption {
	return options.NoError(func(c *sessionConfig) { c.crossValidation = name })
}

// WithScoring sets the ordered scorer names. The first metric dominates the
// comparison.
func WithScoring(names ...string) SessionOption {
	return options.New(func(c *sessionConfig) error {
		if len(names) == 0 {
			return errs.ErrNoScorers
		}
		c.scoring = append([]string(nil), names...)

		return nil
	})
}

// WithPreprocessor sets the preprocessing label reported in events.
func WithPreprocessor(name string) SessionOption {
	return options.NoError(func(c *sessionConfig) { c.preprocessor = name })
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return options.NoError(func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithListener receives the evaluation events of Select.
func WithListener(l selection.Listener) SessionOption {
	return options.NoError(func(c *sessionConfig) { c.listener = l })
}

// WithCache seeds the session with a previously restored cache. The cache
// must have been filled with the same regressor, validator and scorers.
func WithCache(ch *cache.Cache) SessionOption {
	return options.NoError(func(c *sessionConfig) { c.cache = ch })
}

// Search names the forced predictors and the optional starting subset of one
// selection. A nil Initial starts from every predictor.
type Search struct {
	Forced  []string
	Initial []string
}

// Session owns a frame, one evaluation configuration and the evaluation cache
// shared by every Select call.
//
// Select calls are serialized. Compare runs its searches concurrently, each
// with its own regressor and cache.
type Session struct {
	mu        sync.Mutex
	frame     *dataset.Frame
	cfg       sessionConfig
	scorers   score.Set
	validator crossval.Validator
	cache     *cache.Cache
}

// NewSession resolves every backend name and creates a session.
//
// Parameters:
//   - frame: predictor pool and target
//   - opts: regressor, validator, scorers, logger, listener, seed cache
//
// Returns:
//   - *Session: ready for Select and Compare
//   - error: ErrMissingFrame or an unknown backend name
func NewSession(frame *dataset.Frame, opts ...SessionOption) (*Session, error) {
	if frame == nil {
		return nil, errs.ErrMissingFrame
	}

	cfg := sessionConfig{
		regressor:       regression.DefaultName,
		crossValidation: crossval.DefaultName,
		scoring:         []string{"ADJ_R2"},
		preprocessor:    selection.DefaultPreprocessor,
		logger:          zap.NewNop(),
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if _, err := regression.Lookup(cfg.regressor); err != nil {
		return nil, err
	}
	scorers, err := score.NewSet(cfg.scoring...)
	if err != nil {
		return nil, err
	}
	validator, err := crossval.New(cfg.crossValidation)
	if err != nil {
		return nil, err
	}
	if cfg.cache == nil {
		cfg.cache = cache.New()
	}
	if frame.HasIDCollision() {
		cfg.logger.Warn("predictor identifiers collide; use names, not ids, to key reports")
	}

	return &Session{
		frame:     frame,
		cfg:       cfg,
		scorers:   scorers,
		validator: validator,
		cache:     cfg.cache,
	}, nil
}

// Frame returns the session's data frame.
func (s *Session) Frame() *dataset.Frame { return s.frame }

// Cache returns the session's evaluation cache.
func (s *Session) Cache() *cache.Cache { return s.cache }

// Select runs one search with the session regressor against the shared cache.
func (s *Session) Select(search Search) (*selection.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.selector(s.cfg.regressor, search, s.cache, s.cfg.listener, s.cfg.logger)
	if err != nil {
		return nil, err
	}

	return sel.Run(), nil
}

// Compare runs the same search once per regressor name, concurrently. Every
// search gets a fresh regressor and a private cache. The session regressor's
// search starts from a clone of the session cache, and its new evaluations are
// merged back once every search has finished.
//
// Results are keyed by regressor name as given. The first configuration error
// cancels searches that have not started yet.
func (s *Session) Compare(ctx context.Context, search Search, regressors ...string) (map[string]*selection.Result, error) {
	for _, name := range regressors {
		if _, err := regression.Lookup(name); err != nil {
			return nil, err
		}
	}

	results := make([]*selection.Result, len(regressors))
	caches := make([]*cache.Cache, len(regressors))
	own := s.regressorName()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range regressors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ch := cache.New()
			if b, _ := regression.Lookup(name); b.Name == own {
				ch = s.cache.Clone()
				caches[i] = ch
			}

			sel, err := s.selector(name, search, ch, nil, s.cfg.logger.With(zap.String("compare", name)))
			if err != nil {
				return fmt.Errorf("compare %s: %w", name, err)
			}
			results[i] = sel.Run()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ch := range caches {
		if ch != nil {
			s.cache.Merge(ch)
		}
	}

	out := make(map[string]*selection.Result, len(regressors))
	for i, name := range regressors {
		out[name] = results[i]
	}

	return out, nil
}

func (s *Session) regressorName() string {
	b, _ := regression.Lookup(s.cfg.regressor)
	return b.Name
}

func (s *Session) selector(name string, search Search, ch *cache.Cache, l selection.Listener, logger *zap.Logger) (*selection.Selector, error) {
	reg, err := regression.New(name, s.scorers, s.validator)
	if err != nil {
		return nil, err
	}

	opts := []selection.Option{
		selection.WithCache(ch),
		selection.WithLogger(logger),
		selection.WithPreprocessor(s.cfg.preprocessor),
		selection.WithListener(l),
	}

	forced, err := s.frame.Mask(search.Forced...)
	if err != nil {
		return nil, err
	}
	opts = append(opts, selection.WithForced(forced))

	if search.Initial != nil {
		initial, err := s.frame.Mask(search.Initial...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, selection.WithInitial(initial))
	}

	return selection.New(s.frame, reg, opts...)
}

// SaveCache writes a snapshot of the session cache to path.
func (s *Session) SaveCache(path string, codec compress.Type) error {
	data, err := s.cache.Snapshot(cache.WithCodec(codec))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache snapshot: %w", err)
	}

	return nil
}

// LoadCache merges the snapshot at path into the session cache. Snapshot
// entries whose key length does not match the pool are rejected. A missing
// file is not an error.
func (s *Session) LoadCache(path string) (int, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache snapshot: %w", err)
	}

	restored, err := cache.Restore(data)
	if err != nil {
		return 0, err
	}
	for _, key := range restored.Keys() {
		sub, err := subset.Parse(key)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
		}
		if sub.Len() != s.frame.Len() {
			return 0, fmt.Errorf("%w: key %q for a pool of %d predictors", errs.ErrLengthMismatch, key, s.frame.Len())
		}
	}

	return s.cache.Merge(restored), nil
}
