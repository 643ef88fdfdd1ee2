package selection

import (
	"go.uber.org/zap"

	"github.com/arloliu/sbfs/cache"
	"github.com/arloliu/sbfs/internal/options"
	"github.com/arloliu/sbfs/score"
	"github.com/arloliu/sbfs/subset"
)

// DefaultPreprocessor is the method label used when no preprocessing is set.
const DefaultPreprocessor = "NONE"

type config struct {
	forced       *subset.Subset
	initial      *subset.Subset
	cache        *cache.Cache
	comparator   score.Comparator
	listener     Listener
	logger       *zap.Logger
	preprocessor string
	nanTolerant  *bool
}

// Option configures a Selector.
type Option = options.Option[*config]

// WithForced sets the predictors that every evaluated subset must include.
func WithForced(mask subset.Subset) Option {
	return options.NoError(func(c *config) {
		m := mask.Clone()
		c.forced = &m
	})
}

// WithInitial sets the starting subset. The forced mask is ORed into it.
func WithInitial(s subset.Subset) Option {
	return options.NoError(func(c *config) {
		i := s.Clone()
		c.initial = &i
	})
}

// WithCache shares an evaluation cache, typically owned by a session, across
// selectors. Without it every Selector owns a private cache.
func WithCache(ch *cache.Cache) Option {
	return options.NoError(func(c *config) {
		c.cache = ch
	})
}

// WithComparator replaces the lexicographic comparator built from the
// regressor's scorers.
func WithComparator(cmp score.Comparator) Option {
	return options.NoError(func(c *config) {
		c.comparator = cmp
	})
}

// WithListener registers the receiver of evaluation events.
func WithListener(l Listener) Option {
	return options.NoError(func(c *config) {
		c.listener = l
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithPreprocessor sets the preprocessing label used in event methods.
func WithPreprocessor(name string) Option {
	return options.NoError(func(c *config) {
		if name != "" {
			c.preprocessor = name
		}
	})
}

// WithNaNTolerant overrides whether rows with missing predictor values are
// passed to the regressor. By default the regression registry decides.
func WithNaNTolerant(tolerant bool) Option {
	return options.NoError(func(c *config) {
		c.nanTolerant = &tolerant
	})
}
