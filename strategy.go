package ordering

import (
	"fmt"
	"reflect"
)

// Strategy names, reported in Resolution and ResolutionLogEvent.
const (
	StrategyAnnotation = "annotation"
	StrategyOrdered    = "ordered"
	StrategyAccessor   = "accessor"
	StrategyDefault    = "default"
)

// strategy is one step of the resolution chain. Strategies are evaluated in
// order; the first to handle a candidate wins and no results are combined.
type strategy interface {
	name() string
	resolve(c *Comparator, candidate any, res *Resolution) (handled bool, err error)
}

var defaultChain = []strategy{
	annotationStrategy{},
	orderedStrategy{},
	accessorStrategy{},
}

// annotationStrategy resolves the "value" attribute of the configured
// annotation kind, merged from type-level and producer-method sources.
type annotationStrategy struct{}

func (annotationStrategy) name() string { return StrategyAnnotation }

func (annotationStrategy) resolve(c *Comparator, candidate any, res *Resolution) (bool, error) {
	attrs := c.ResolveAttributes(c.cfg.kind, candidate)
	value, ok := attrs[ValueAttribute]
	if !ok {
		return false, nil
	}
	order, err := c.orderFromValue(candidate, attrs, value)
	if err != nil {
		return false, err
	}
	res.Order = order
	res.Attributes = attrs
	return true, nil
}

// orderedStrategy resolves candidates implementing the Ordered interface.
type orderedStrategy struct{}

func (orderedStrategy) name() string { return StrategyOrdered }

func (orderedStrategy) resolve(c *Comparator, candidate any, res *Resolution) (bool, error) {
	if c.capabilityFor(reflect.TypeOf(candidate)) != capabilityOrdered {
		return false, nil
	}
	res.Order = candidate.(Ordered).Order()
	return true, nil
}

// accessorStrategy resolves candidates that merely quack like Ordered: an
// exported zero-argument GetOrder method returning int, invoked reflectively.
type accessorStrategy struct{}

func (accessorStrategy) name() string { return StrategyAccessor }

func (accessorStrategy) resolve(c *Comparator, candidate any, res *Resolution) (bool, error) {
	if c.capabilityFor(reflect.TypeOf(candidate)) != capabilityAccessor {
		return false, nil
	}
	order, err := invokeOrderAccessor(candidate)
	if err != nil {
		return false, err
	}
	res.Order = order
	return true, nil
}

// orderCapability is the per-type tagged variant over how a candidate exposes
// an ordering accessor.
type orderCapability uint8

const (
	capabilityNone orderCapability = iota
	capabilityOrdered
	capabilityAccessor
)

const accessorMethodName = "GetOrder"

var (
	orderedType = reflect.TypeOf((*Ordered)(nil)).Elem()
	intType     = reflect.TypeOf(int(0))
)

// capabilityFor resolves the capability variant once per runtime type.
func (c *Comparator) capabilityFor(t reflect.Type) orderCapability {
	if t == nil {
		return capabilityNone
	}
	if cached, ok := c.capabilities.Load(t); ok {
		return cached.(orderCapability)
	}
	capability := probeCapability(t)
	c.capabilities.Store(t, capability)
	return capability
}

func probeCapability(t reflect.Type) orderCapability {
	if t.Implements(orderedType) {
		return capabilityOrdered
	}
	method, ok := t.MethodByName(accessorMethodName)
	if !ok {
		return capabilityNone
	}
	// Method sets of concrete types carry the receiver as the first input. A
	// mismatched signature means no duck-typed order, not an error.
	mt := method.Type
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0) != intType {
		return capabilityNone
	}
	return capabilityAccessor
}

func invokeOrderAccessor(candidate any) (order int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InvocationError{
				Type:   candidateTypeName(candidate),
				Method: accessorMethodName,
				Err:    recoveredError(r),
			}
		}
	}()
	out := reflect.ValueOf(candidate).MethodByName(accessorMethodName).Call(nil)
	return int(out[0].Int()), nil
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
