package infer

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrUnknownEntity indicates a name that is not part of the graph.
	ErrUnknownEntity = errors.New("infer: unknown entity")

	// ErrDuplicateEntity indicates two entities sharing one name.
	ErrDuplicateEntity = errors.New("infer: duplicate entity")

	// ErrCircularDependency indicates a dependency chain that loops.
	ErrCircularDependency = errors.New("infer: circular dependency")
)

// Entity describes one node of the dependency graph.
type Entity struct {
	// Name identifies the entity; it must be unique within an Engine.
	Name string

	// DependsOn lists entities that must be current before this one
	// can build.
	DependsOn []string

	// HowToMake runs in order to bring the entity up to date. Steps may
	// be empty for primitive entities whose state is set externally.
	HowToMake []func() error

	// AlsoUpdates names entities that this build brings up to date as a
	// side effect. Unknown names are ignored.
	AlsoUpdates []string
}

// node is an Entity plus the engine's bookkeeping.
type node struct {
	entity     Entity
	dependents []string
	upToDate   bool
}

// Engine tracks entity freshness over a validated dependency graph.
type Engine struct {
	nodes map[string]*node
	order []string
	log   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes build and invalidation messages to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New validates the entity graph and returns an Engine with every
// entity stale.
func New(entities []Entity, opts ...Option) (*Engine, error) {
	e := &Engine{nodes: make(map[string]*node, len(entities)), log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	for _, ent := range entities {
		if _, exists := e.nodes[ent.Name]; exists {
			return nil, fmt.Errorf("entity %q listed twice: %w", ent.Name, ErrDuplicateEntity)
		}
		e.nodes[ent.Name] = &node{entity: ent}
		e.order = append(e.order, ent.Name)
	}

	if err := e.buildBacklinks(); err != nil {
		return nil, err
	}
	if err := e.checkForCycles(); err != nil {
		return nil, err
	}

	return e, nil
}

// buildBacklinks connects dependencies to their dependents and validates
// that every dependency exists.
func (e *Engine) buildBacklinks() error {
	for _, name := range e.order {
		for _, dep := range e.nodes[name].entity.DependsOn {
			target, ok := e.nodes[dep]
			if !ok {
				return fmt.Errorf("dependency %q required by %q not found: %w",
					dep, name, ErrUnknownEntity)
			}
			target.dependents = append(target.dependents, name)
		}
	}

	return nil
}

// checkForCycles runs a depth-first search over the graph in insertion
// order, so a cycle is always reported against the same entity.
func (e *Engine) checkForCycles() error {
	visited := make(map[string]bool, len(e.nodes))
	onStack := make(map[string]bool, len(e.nodes))

	var walk func(name string) bool
	walk = func(name string) bool {
		visited[name] = true
		onStack[name] = true
		for _, dep := range e.nodes[name].entity.DependsOn {
			if !visited[dep] {
				if walk(dep) {
					return true
				}
			} else if onStack[dep] {
				return true
			}
		}
		onStack[name] = false

		return false
	}

	for _, name := range e.order {
		if !visited[name] && walk(name) {
			return fmt.Errorf("involving %q: %w", name, ErrCircularDependency)
		}
	}

	return nil
}

// Make brings name up to date, building stale dependencies depth-first.
// A failing build step aborts and leaves the target stale.
func (e *Engine) Make(name string) error {
	n, ok := e.nodes[name]
	if !ok {
		return fmt.Errorf("cannot build entity %q: %w", name, ErrUnknownEntity)
	}
	if n.upToDate {
		e.log.Debug("entity is current", "entity", name)

		return nil
	}

	for _, dep := range n.entity.DependsOn {
		if err := e.Make(dep); err != nil {
			return err
		}
	}

	e.log.Info("building entity", "entity", name)
	for _, step := range n.entity.HowToMake {
		if err := step(); err != nil {
			return fmt.Errorf("infer: make %q: %w", name, err)
		}
	}

	for _, also := range n.entity.AlsoUpdates {
		if other, ok := e.nodes[also]; ok {
			other.upToDate = true
		}
	}
	n.upToDate = true

	return nil
}

// Invalidate marks name and everything that depends on it stale.
func (e *Engine) Invalidate(name string) error {
	n, ok := e.nodes[name]
	if !ok {
		return fmt.Errorf("cannot invalidate entity %q: %w", name, ErrUnknownEntity)
	}
	if !n.upToDate {
		return nil
	}
	n.upToDate = false
	e.log.Debug("invalidated entity", "entity", name)
	for _, dependent := range n.dependents {
		if err := e.Invalidate(dependent); err != nil {
			return err
		}
	}

	return nil
}

// UpToDate reports whether name is current; unknown names are stale.
func (e *Engine) UpToDate(name string) bool {
	n, ok := e.nodes[name]

	return ok && n.upToDate
}

// SetUpToDate sets the freshness bit of a single entity without
// cascading; primitive entities are seeded this way.
func (e *Engine) SetUpToDate(name string, v bool) error {
	n, ok := e.nodes[name]
	if !ok {
		return fmt.Errorf("cannot mark entity %q: %w", name, ErrUnknownEntity)
	}
	n.upToDate = v

	return nil
}
