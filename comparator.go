package ordering

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Comparator resolves priorities for candidates known to a Registry. It holds
// no mutable state beyond a per-type capability cache and may be shared
// between goroutines, provided the registry is not mutated during a sort.
type Comparator struct {
	registry     Registry
	cfg          comparatorConfig
	capabilities sync.Map // reflect.Type -> orderCapability
}

// New constructs a Comparator bound to registry. A nil registry disables
// producer-method attribute lookup but leaves every other strategy intact.
func New(registry Registry, opts ...Option) *Comparator {
	cfg := applyOptions(opts)
	if cfg.evaluator == nil {
		cfg.evaluator = defaultEvaluator(cfg)
	}
	return &Comparator{registry: registry, cfg: cfg}
}

func defaultEvaluator(cfg comparatorConfig) Evaluator {
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	return NewExprEvaluator(exprOpts...)
}

// ResolveOrder returns the priority of candidate. The precedence chain is
// evaluated top to bottom and short-circuits on the first strategy that
// yields a value; candidates with no ordering signal, including nil, resolve
// to LowestPrecedence. The only error conditions are a failing GetOrder
// invocation and an unusable order value, both of which mean the candidate is
// broken rather than unordered.
func (c *Comparator) ResolveOrder(candidate any) (int, error) {
	res, err := c.resolve(candidate)
	if err != nil {
		return 0, err
	}
	return res.Order, nil
}

// Compare resolves both priorities and returns their signed comparison:
// negative when a sorts before b, zero when equal, positive otherwise.
func (c *Comparator) Compare(a, b any) (int, error) {
	orderA, err := c.ResolveOrder(a)
	if err != nil {
		return 0, err
	}
	orderB, err := c.ResolveOrder(b)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(orderA, orderB), nil
}

// Explain resolves candidate and reports which strategy produced the
// priority, alongside the merged attributes when the annotation strategy won.
func (c *Comparator) Explain(candidate any) (Resolution, error) {
	return c.resolve(candidate)
}

func (c *Comparator) resolve(candidate any) (Resolution, error) {
	start := time.Now()
	res, err := c.runChain(candidate)
	c.logEvent(ResolutionLogEvent{
		Strategy:  res.Strategy,
		Candidate: res.Candidate,
		Order:     res.Order,
		Duration:  time.Since(start),
		Err:       err,
	})
	return res, err
}

func (c *Comparator) runChain(candidate any) (Resolution, error) {
	res := Resolution{
		Candidate: candidateTypeName(candidate),
		Strategy:  StrategyDefault,
		Order:     LowestPrecedence,
	}
	if candidate == nil {
		return res, nil
	}
	for _, s := range defaultChain {
		handled, err := s.resolve(c, candidate, &res)
		if err != nil {
			res.Strategy = s.name()
			return res, err
		}
		if handled {
			res.Strategy = s.name()
			return res, nil
		}
	}
	return res, nil
}

// Sort stably sorts items in place by resolved priority, lowest first. Each
// candidate is resolved exactly once per call; equal priorities keep their
// original relative positions.
func Sort[T any](c *Comparator, items []T) error {
	type ranked struct {
		item  T
		order int
		index int
	}
	rankedItems := make([]ranked, len(items))
	for i, item := range items {
		order, err := c.ResolveOrder(item)
		if err != nil {
			return err
		}
		rankedItems[i] = ranked{item: item, order: order, index: i}
	}
	slices.SortStableFunc(rankedItems, func(a, b ranked) int {
		if n := cmp.Compare(a.order, b.order); n != 0 {
			return n
		}
		return cmp.Compare(a.index, b.index)
	})
	for i, r := range rankedItems {
		items[i] = r.item
	}
	return nil
}

// SortedByPriority returns a sorted copy of items using a Comparator bound to
// registry. The input slice is left untouched.
func SortedByPriority[T any](registry Registry, items []T, opts ...Option) ([]T, error) {
	out := slices.Clone(items)
	if err := Sort(New(registry, opts...), out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveOrder resolves the priority of candidate against registry with a
// one-shot Comparator.
func ResolveOrder(registry Registry, candidate any, opts ...Option) (int, error) {
	return New(registry, opts...).ResolveOrder(candidate)
}

// ResolveAttributes resolves the merged annotation attributes of kind for
// candidate against registry with a one-shot Comparator.
func ResolveAttributes(registry Registry, kind string, candidate any, opts ...Option) AttributeMap {
	return New(registry, opts...).ResolveAttributes(kind, candidate)
}
