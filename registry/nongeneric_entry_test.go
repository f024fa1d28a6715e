package registry

import (
	stderrors "errors"
	"testing"

	"github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/typedesc"
)

type clock interface{ Now() int64 }
type systemClock struct{}

func (systemClock) Now() int64 { return 0 }

type frozenClock struct{}

func (frozenClock) Now() int64 { return 42 }

func clockService() typedesc.Type { return typedesc.ConcreteOf[clock]() }

func clockProducer(impl typedesc.Type, pred Predicate) *Producer {
	return NewProducer(clockService(), impl, NewRegistration(impl, Singleton), pred)
}

func TestNonGenericEntry_UnconditionalOverlap(t *testing.T) {
	e := NewNonGenericEntry(clockService(), NewSettings(false), nil)

	if err := e.Add(clockProducer(typedesc.ConcreteOf[systemClock](), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := e.Add(clockProducer(typedesc.ConcreteOf[frozenClock](), nil))
	if errors.CodeOf(err) != errors.ErrCodeOverlappingRegistration {
		t.Fatalf("expected an overlap error, got %v", err)
	}
}

func TestNonGenericEntry_OverridingReplaces(t *testing.T) {
	e := NewNonGenericEntry(clockService(), NewSettings(true), nil)

	if err := e.Add(clockProducer(typedesc.ConcreteOf[systemClock](), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Add(clockProducer(typedesc.ConcreteOf[frozenClock](), nil)); err != nil {
		t.Fatalf("override must replace, got %v", err)
	}

	p, err := e.TryGetProducer(clockService(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || !p.ImplementationType().Equal(typedesc.ConcreteOf[frozenClock]()) {
		t.Fatalf("expected the replacing implementation, got %v", p)
	}
}

func TestNonGenericEntry_MixedConditionalRejected(t *testing.T) {
	pred := func(PredicateContext) bool { return true }

	t.Run("unconditional then conditional", func(t *testing.T) {
		e := NewNonGenericEntry(clockService(), NewSettings(false), nil)
		if err := e.Add(clockProducer(typedesc.ConcreteOf[systemClock](), nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := e.Add(clockProducer(typedesc.ConcreteOf[frozenClock](), pred))
		if errors.CodeOf(err) != errors.ErrCodeMixedConditional {
			t.Fatalf("expected a mixed-conditional error, got %v", err)
		}
	})

	t.Run("conditional then unconditional", func(t *testing.T) {
		e := NewNonGenericEntry(clockService(), NewSettings(false), nil)
		if err := e.Add(clockProducer(typedesc.ConcreteOf[systemClock](), pred)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := e.Add(clockProducer(typedesc.ConcreteOf[frozenClock](), nil))
		if errors.CodeOf(err) != errors.ErrCodeMixedConditional {
			t.Fatalf("expected a mixed-conditional error, got %v", err)
		}
	})
}

func TestNonGenericEntry_MultipleConditionalsCoexist(t *testing.T) {
	e := NewNonGenericEntry(clockService(), NewSettings(false), nil)

	isTest := func(ctx PredicateContext) bool {
		return ctx.Consumer != nil && ctx.Consumer.Target == "test"
	}
	isProd := func(ctx PredicateContext) bool {
		return ctx.Consumer != nil && ctx.Consumer.Target == "prod"
	}

	if err := e.Add(clockProducer(typedesc.ConcreteOf[frozenClock](), isTest)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Add(clockProducer(typedesc.ConcreteOf[systemClock](), isProd)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := e.TryGetProducer(clockService(), &Consumer{Target: "prod"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || !p.ImplementationType().Equal(typedesc.ConcreteOf[systemClock]()) {
		t.Fatalf("expected the prod implementation, got %v", p)
	}

	p, err = e.TryGetProducer(clockService(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("no predicate applies without a consumer, got %v", p)
	}
}

func TestNonGenericEntry_WrongTypeYieldsNothing(t *testing.T) {
	e := NewNonGenericEntry(clockService(), NewSettings(false), nil)
	if err := e.Add(clockProducer(typedesc.ConcreteOf[systemClock](), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := e.TryGetProducer(typedesc.ConcreteOf[string](), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("a foreign request must yield nothing, got %v", p)
	}
}

func TestNonGenericEntry_FactoryRegistration(t *testing.T) {
	e := NewNonGenericEntry(clockService(), NewSettings(false), nil)

	factory := func(PredicateContext) (typedesc.Type, error) {
		return typedesc.ConcreteOf[systemClock](), nil
	}
	if err := e.AddRegistration(clockService(),
		NewFactoryRegistration(factory, Transient), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := e.TryGetProducer(clockService(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || !p.ImplementationType().Equal(typedesc.ConcreteOf[systemClock]()) {
		t.Fatalf("expected the factory's implementation, got %v", p)
	}
}

func TestNonGenericEntry_FactoryFailureSurfaces(t *testing.T) {
	e := NewNonGenericEntry(clockService(), NewSettings(false), nil)

	boom := stderrors.New("no implementation available")
	factory := func(PredicateContext) (typedesc.Type, error) {
		return typedesc.Type{}, boom
	}
	if err := e.AddRegistration(clockService(),
		NewFactoryRegistration(factory, Transient), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := e.TryGetProducer(clockService(), nil)
	if errors.CodeOf(err) != errors.ErrCodeFactoryFailed {
		t.Fatalf("expected a factory failure, got %v", err)
	}
	if !stderrors.Is(err, boom) {
		t.Fatal("the cause must be preserved")
	}
}
