package ordering

import (
	"math"
	"reflect"
	"time"
)

// Priority sentinels. Lower values sort first.
const (
	// HighestPrecedence is the strongest priority a candidate can claim.
	HighestPrecedence = math.MinInt32
	// LowestPrecedence is resolved when no ordering signal is present.
	LowestPrecedence = math.MaxInt32
)

// OrderAnnotation is the default annotation kind consulted for priorities.
const OrderAnnotation = "order"

// ValueAttribute is the conventional attribute name holding the priority.
const ValueAttribute = "value"

// Ordered is the structural ordering capability. Candidates implementing it
// report their own priority when no annotation resolves one first.
type Ordered interface {
	Order() int
}

// AttributeMap holds the decoded payload of one annotation instance, keyed by
// attribute name.
type AttributeMap map[string]any

func (m AttributeMap) clone() AttributeMap {
	if m == nil {
		return AttributeMap{}
	}
	out := make(AttributeMap, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

// ProducerMethod describes the factory method that registered a candidate, if
// any, together with the annotations declared on it.
type ProducerMethod struct {
	Name        string
	annotations map[string]AttributeMap
}

// NewProducerMethod constructs a ProducerMethod descriptor.
func NewProducerMethod(name string) *ProducerMethod {
	return &ProducerMethod{
		Name:        name,
		annotations: make(map[string]AttributeMap),
	}
}

// Annotate declares an annotation of kind on the producer method, replacing
// any previous declaration of the same kind. It returns the receiver so
// declarations can be chained.
func (p *ProducerMethod) Annotate(kind string, attrs AttributeMap) *ProducerMethod {
	if p.annotations == nil {
		p.annotations = make(map[string]AttributeMap)
	}
	p.annotations[kind] = attrs.clone()
	return p
}

// IsAnnotated reports whether the producer method declares kind.
func (p *ProducerMethod) IsAnnotated(kind string) bool {
	if p == nil {
		return false
	}
	_, ok := p.annotations[kind]
	return ok
}

// Attributes returns a copy of the attributes declared for kind.
func (p *ProducerMethod) Attributes(kind string) (AttributeMap, bool) {
	if p == nil {
		return nil, false
	}
	attrs, ok := p.annotations[kind]
	if !ok {
		return nil, false
	}
	return attrs.clone(), true
}

// RegistrationMetadata is the read-only record a registry keeps for one
// registration identity.
type RegistrationMetadata struct {
	Name     string
	Type     reflect.Type
	Producer *ProducerMethod
}

// Registry is the read-only view of a component registry the engine consumes.
// Implementations must not be mutated while a sort is in progress.
type Registry interface {
	// NamesForType returns the registration names whose resolved type matches
	// t. Iteration order decides which producer method wins when several
	// registrations claim the same candidate type.
	NamesForType(t reflect.Type) []string
	// IsRegistered reports whether name is actually registered. Guards the
	// resolver against stale or partial registrations.
	IsRegistered(name string) bool
	// Metadata returns the registration record for name.
	Metadata(name string) (RegistrationMetadata, bool)
}

// AnnotationSource decodes annotations declared on types.
type AnnotationSource interface {
	FindAnnotation(t reflect.Type, kind string) (AttributeMap, bool)
}

// Annotated lets a candidate type declare its own annotations without going
// through an AnnotationSource.
type Annotated interface {
	Annotations() map[string]AttributeMap
}

func candidateTypeName(candidate any) string {
	if candidate == nil {
		return "<nil>"
	}
	return reflect.TypeOf(candidate).String()
}

// OrderContext carries the inputs needed when evaluating an order expression.
type OrderContext struct {
	Candidate  any
	Attributes AttributeMap
	Now        *time.Time
	Args       map[string]any
	Metadata   map[string]any
}

func (ctx OrderContext) withDefaults() OrderContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx OrderContext) withDefaultNow() OrderContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx OrderContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx OrderContext) withDefaultMaps() OrderContext {
	if ctx.Attributes == nil {
		ctx.Attributes = AttributeMap{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx OrderContext) candidateLabel() string {
	return candidateTypeName(ctx.Candidate)
}

// Evaluator executes order expressions against an order context.
type Evaluator interface {
	Evaluate(ctx OrderContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx OrderContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Comparator.
type Option func(*comparatorConfig)

type comparatorConfig struct {
	kind         string
	annotations  AnnotationSource
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       ResolutionLogger
}

func applyOptions(opts []Option) comparatorConfig {
	cfg := comparatorConfig{kind: OrderAnnotation}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithAnnotationKind overrides the annotation kind consulted for priorities.
func WithAnnotationKind(kind string) Option {
	return func(cfg *comparatorConfig) {
		if kind != "" {
			cfg.kind = kind
		}
	}
}

// WithAnnotationSource configures where type-level annotations are decoded
// from. Candidates implementing Annotated are consulted as a fallback.
func WithAnnotationSource(source AnnotationSource) Option {
	return func(cfg *comparatorConfig) {
		cfg.annotations = source
	}
}

// WithEvaluator configures the evaluator used for expression-valued order
// attributes. Defaults to an expr-backed evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *comparatorConfig) {
		cfg.evaluator = e
	}
}
