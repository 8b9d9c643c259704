package ordering

import (
	"errors"
	"testing"
)

type plainWidget struct{}

type annotatedWidget struct{}

func (annotatedWidget) Annotations() map[string]AttributeMap {
	return map[string]AttributeMap{
		OrderAnnotation: {ValueAttribute: 10},
	}
}

type orderedWidget struct {
	order int
}

func (w orderedWidget) Order() int { return w.order }

type accessorWidget struct {
	order int
}

func (w accessorWidget) GetOrder() int { return w.order }

type stringAccessorWidget struct{}

func (stringAccessorWidget) GetOrder() string { return "seven" }

type panickyWidget struct{}

func (panickyWidget) GetOrder() int { panic("broken candidate") }

type annotatedOrderedWidget struct{}

func (annotatedOrderedWidget) Annotations() map[string]AttributeMap {
	return map[string]AttributeMap{
		OrderAnnotation: {ValueAttribute: 1},
	}
}

func (annotatedOrderedWidget) Order() int { return 100 }

func TestResolveOrderDefaultsToLowestPrecedence(t *testing.T) {
	c := New(NewMemoryRegistry())

	order, err := c.ResolveOrder(plainWidget{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != LowestPrecedence {
		t.Fatalf("expected LowestPrecedence, got %d", order)
	}

	order, err = c.ResolveOrder(nil)
	if err != nil {
		t.Fatalf("unexpected error for nil candidate: %v", err)
	}
	if order != LowestPrecedence {
		t.Fatalf("expected LowestPrecedence for nil candidate, got %d", order)
	}
}

func TestResolveOrderClassLevelAnnotation(t *testing.T) {
	c := New(NewMemoryRegistry())

	order, err := c.ResolveOrder(annotatedWidget{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != 10 {
		t.Fatalf("expected class-level annotation value 10, got %d", order)
	}
}

func TestResolveOrderAnnotationIndex(t *testing.T) {
	index := NewAnnotationIndex()
	index.MustAnnotate(plainWidget{}, OrderAnnotation, AttributeMap{ValueAttribute: 42})

	c := New(NewMemoryRegistry(), WithAnnotationSource(index))

	order, err := c.ResolveOrder(plainWidget{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != 42 {
		t.Fatalf("expected indexed annotation value 42, got %d", order)
	}
}

func TestProducerMethodAnnotationWins(t *testing.T) {
	registry := NewMemoryRegistry()
	registry.MustRegister("widget", annotatedWidget{},
		WithProducer("newWidget"),
		WithProducerAnnotation(OrderAnnotation, AttributeMap{ValueAttribute: 5}),
	)

	c := New(registry)

	order, err := c.ResolveOrder(annotatedWidget{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != 5 {
		t.Fatalf("expected producer-method value 5 to win over class-level 10, got %d", order)
	}

	res, err := c.Explain(annotatedWidget{})
	if err != nil {
		t.Fatalf("unexpected error from Explain: %v", err)
	}
	if res.Strategy != StrategyAnnotation {
		t.Fatalf("expected annotation strategy, got %q", res.Strategy)
	}
	if res.Attributes[ValueAttribute] != 5 {
		t.Fatalf("expected merged attributes to carry producer value, got %v", res.Attributes)
	}
}

func TestResolveOrderOrderedInterface(t *testing.T) {
	c := New(NewMemoryRegistry())

	order, err := c.ResolveOrder(orderedWidget{order: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != 3 {
		t.Fatalf("expected Ordered value 3, got %d", order)
	}
}

func TestAnnotationPrecedesOrderedInterface(t *testing.T) {
	c := New(NewMemoryRegistry())

	order, err := c.ResolveOrder(annotatedOrderedWidget{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != 1 {
		t.Fatalf("expected annotation value 1 to win over Order() 100, got %d", order)
	}
}

func TestResolveOrderAccessor(t *testing.T) {
	c := New(NewMemoryRegistry())

	order, err := c.ResolveOrder(accessorWidget{order: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != 7 {
		t.Fatalf("expected duck-typed GetOrder value 7, got %d", order)
	}

	res, err := c.Explain(accessorWidget{order: 7})
	if err != nil {
		t.Fatalf("unexpected error from Explain: %v", err)
	}
	if res.Strategy != StrategyAccessor {
		t.Fatalf("expected accessor strategy, got %q", res.Strategy)
	}
}

func TestAccessorWrongReturnTypeFallsToDefault(t *testing.T) {
	c := New(NewMemoryRegistry())

	order, err := c.ResolveOrder(stringAccessorWidget{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != LowestPrecedence {
		t.Fatalf("expected non-int GetOrder to fall to default, got %d", order)
	}
}

func TestAccessorPanicIsFatal(t *testing.T) {
	c := New(NewMemoryRegistry())

	_, err := c.ResolveOrder(panickyWidget{})
	if err == nil {
		t.Fatalf("expected invocation failure to surface")
	}
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %T: %v", err, err)
	}
	if invErr.Method != "GetOrder" {
		t.Fatalf("expected failing method GetOrder, got %q", invErr.Method)
	}
	if invErr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
}

func TestNonCoercibleAnnotationValueIsError(t *testing.T) {
	index := NewAnnotationIndex()
	index.MustAnnotate(plainWidget{}, OrderAnnotation, AttributeMap{ValueAttribute: struct{ X int }{X: 1}})

	c := New(NewMemoryRegistry(), WithAnnotationSource(index))

	_, err := c.ResolveOrder(plainWidget{})
	if err == nil {
		t.Fatalf("expected non-coercible value to be fatal")
	}
	var valueErr *OrderValueError
	if !errors.As(err, &valueErr) {
		t.Fatalf("expected OrderValueError, got %T: %v", err, err)
	}
}

func TestCompareSignedComparison(t *testing.T) {
	c := New(NewMemoryRegistry())

	cases := []struct {
		name string
		a, b any
		want int
	}{
		{name: "less", a: orderedWidget{order: 1}, b: orderedWidget{order: 2}, want: -1},
		{name: "equal", a: orderedWidget{order: 2}, b: orderedWidget{order: 2}, want: 0},
		{name: "greater", a: orderedWidget{order: 3}, b: orderedWidget{order: 2}, want: 1},
		{name: "unordered sorts last", a: plainWidget{}, b: orderedWidget{order: 2}, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Compare(tc.a, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestSortScenarioAnnotatedVersusOrdered(t *testing.T) {
	registry := NewMemoryRegistry()
	registry.MustRegister("a", annotatedWidget{},
		WithProducerAnnotation(OrderAnnotation, AttributeMap{ValueAttribute: 5}),
	)

	a := annotatedWidget{}
	b := orderedWidget{order: 3}

	sorted, err := SortedByPriority(registry, []any{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sorted[0] != any(b) || sorted[1] != any(a) {
		t.Fatalf("expected [B A] (orders 3, 5), got %v", sorted)
	}
}

func TestSortYieldsNonDecreasingOrders(t *testing.T) {
	c := New(NewMemoryRegistry())
	items := []any{
		plainWidget{},
		orderedWidget{order: 40},
		accessorWidget{order: -2},
		orderedWidget{order: 7},
		accessorWidget{order: 7},
		annotatedWidget{},
	}

	if err := Sort(c, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	previous := HighestPrecedence
	for i, item := range items {
		order, err := c.ResolveOrder(item)
		if err != nil {
			t.Fatalf("unexpected error resolving item %d: %v", i, err)
		}
		if order < previous {
			t.Fatalf("sorted sequence decreased at %d: %d after %d", i, order, previous)
		}
		previous = order
	}
}

func TestSortIsStableForEqualOrders(t *testing.T) {
	c := New(NewMemoryRegistry())
	first := accessorWidget{order: 7}
	second := orderedWidget{order: 7}
	items := []any{orderedWidget{order: 9}, first, second}

	if err := Sort(c, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0] != any(first) || items[1] != any(second) {
		t.Fatalf("expected ties to keep original relative positions, got %v", items)
	}
}

func TestSortSurfacesInvocationFailure(t *testing.T) {
	c := New(NewMemoryRegistry())

	err := Sort(c, []any{orderedWidget{order: 1}, panickyWidget{}})
	if err == nil {
		t.Fatalf("expected Sort to surface the invocation failure")
	}
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %T", err)
	}
}

func TestResolutionLoggerReceivesEvents(t *testing.T) {
	var events []ResolutionLogEvent
	logger := ResolutionLoggerFunc(func(event ResolutionLogEvent) {
		events = append(events, event)
	})

	c := New(NewMemoryRegistry(), WithResolutionLogger(logger))
	if _, err := c.ResolveOrder(orderedWidget{order: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected one log event, got %d", len(events))
	}
	if events[0].Strategy != StrategyOrdered {
		t.Fatalf("expected ordered strategy in event, got %q", events[0].Strategy)
	}
	if events[0].Order != 3 {
		t.Fatalf("expected order 3 in event, got %d", events[0].Order)
	}
	if events[0].Candidate == "" {
		t.Fatalf("expected candidate type name in event")
	}
}

func TestExplainJSONRoundTrip(t *testing.T) {
	c := New(NewMemoryRegistry())

	res, err := c.Explain(annotatedWidget{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, err := res.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error serialising resolution: %v", err)
	}
	decoded, err := ResolutionFromJSON(payload)
	if err != nil {
		t.Fatalf("unexpected error deserialising resolution: %v", err)
	}
	if decoded.Strategy != res.Strategy || decoded.Order != res.Order || decoded.Candidate != res.Candidate {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, res)
	}
}
