// Package loader turns parser nodes into entity graphs and stores them.
package loader

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a2ldb/a2ldb/internal/a2l/model"
	"github.com/a2ldb/a2ldb/internal/store"
)

// Loader builds entities through a factory and writes them in one session
type Loader struct {
	factory *model.Factory
	logger  *zap.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the loader logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithFactory replaces the default factory
func WithFactory(f *model.Factory) Option {
	return func(l *Loader) {
		l.factory = f
	}
}

// New creates a loader over the default dispatch
func New(opts ...Option) *Loader {
	l := &Loader{
		factory: model.NewFactory(model.DefaultDispatch()),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result summarizes a finished load
type Result struct {
	Entities int
	Rows     int
	Roots    []int64
	Elapsed  time.Duration
}

// Load builds every root fully before anything is written, then stores all
// of them in a single session. On error nothing is committed.
func (l *Loader) Load(ctx context.Context, db *store.Database, roots ...*model.Node) (*Result, error) {
	start := time.Now()

	entities := make([]*model.Entity, 0, len(roots))
	total := 0
	for _, root := range roots {
		e, err := l.Build(root)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
		total += e.Count()
	}

	s, err := db.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	logger := l.logger.With(zap.String("session", s.ID.String()))
	logger.Info("loading", zap.Int("roots", len(entities)), zap.Int("entities", total))

	s.Add(entities...)
	if err := s.Flush(); err != nil {
		logger.Error("flush failed", zap.Error(err))
		return nil, err
	}
	if err := s.Commit(); err != nil {
		logger.Error("commit failed", zap.Error(err))
		return nil, err
	}

	res := &Result{
		Entities: total,
		Rows:     s.Rows(),
		Roots:    s.Roots(),
		Elapsed:  time.Since(start),
	}
	logger.Info("loaded",
		zap.Int("entities", res.Entities),
		zap.Int("rows", res.Rows),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// Build converts a node tree into an entity graph without touching storage
func (l *Loader) Build(n *model.Node) (*model.Entity, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", model.ErrInvalidValue)
	}

	e, err := l.factory.New(n.Tag, n.Params)
	if err != nil {
		return nil, err
	}

	if len(n.Items) > 0 {
		if err := l.assignItems(e, n.Items); err != nil {
			return nil, err
		}
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, child := range n.Children {
		if child == nil {
			return nil, fmt.Errorf("%w: nil child of %s", model.ErrInvalidValue, n.Tag)
		}
		elem, ok := e.Keyword().Child(child.Tag)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not allowed under %s", model.ErrUnexpectedChild, child.Tag, n.Tag)
		}
		if !elem.Multiple && seen[child.Tag] {
			return nil, fmt.Errorf("%w: %s given more than once under %s", model.ErrUnexpectedChild, child.Tag, n.Tag)
		}
		seen[child.Tag] = true

		class, err := l.factory.Dispatch().Lookup(child.Tag)
		if err != nil {
			return nil, err
		}
		if class.Kind.IsFlag() {
			if len(child.Params) > 0 || len(child.Items) > 0 || len(child.Children) > 0 {
				return nil, fmt.Errorf("%w: %s takes no parameters", model.ErrInvalidValue, child.Tag)
			}
			e.Flags[child.Tag] = true
			continue
		}

		built, err := l.Build(child)
		if err != nil {
			return nil, err
		}
		e.Children = append(e.Children, built)
	}
	return e, nil
}

// assignItems feeds node items to the single MULTIPLE parameter of the keyword
func (l *Loader) assignItems(e *model.Entity, items []any) error {
	params := e.Keyword().MultipleParams()
	if len(params) != 1 {
		return fmt.Errorf("%w: %s does not take list items", model.ErrInvalidValue, e.Tag())
	}
	return l.factory.Assign(e, params[0].Name, items)
}
