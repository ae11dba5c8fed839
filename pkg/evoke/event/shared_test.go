package event_test

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/dmichaels/evoke/pkg/evoke/event"
)

func TestSharedAttachValidation(t *testing.T) {
	s := event.NewSharedManager()

	if _, err := s.Attach("", "go", appender("x")); err == nil {
		t.Error("expected error for empty identifier")
	}
	if _, err := s.Attach("App", "", appender("x")); err == nil {
		t.Error("expected error for empty event name")
	}
	if _, err := s.Attach("App", "go", nil); err == nil {
		t.Error("expected error for nil listener")
	}
}

func TestSharedIdentifierMatch(t *testing.T) {
	s := event.NewSharedManager()

	s.Attach("App", "go", appender("app"))
	s.Attach("Admin", "go", appender("admin"))
	s.Attach("App", "other", appender("wrong-event"))

	// Only the declared identifier's listeners for the triggered event run.
	m := event.NewManager(
		event.WithIdentifiers("App"),
		event.WithShared(s),
	)
	res, err := m.Trigger(context.Background(), "go", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{"app"}
	if got := res.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSharedIdentifierOrder(t *testing.T) {
	s := event.NewSharedManager()

	// Lower priority under the first identifier still runs before a higher
	// priority under the second: identifier groups never interleave.
	s.Attach("Specific", "go", appender("specific"), event.WithPriority(-10))
	s.Attach("General", "go", appender("general"), event.WithPriority(50))

	m := event.NewManager(
		event.WithIdentifiers("Specific", "General"),
		event.WithShared(s),
	)
	res, err := m.Trigger(context.Background(), "go", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{"specific", "general"}
	if got := res.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSharedDetach(t *testing.T) {
	s := event.NewSharedManager()

	b, _ := s.Attach("App", "go", appender("x"))

	if !s.Detach("App", "go", b) {
		t.Error("expected detach to report removal")
	}
	if s.Detach("App", "go", b) {
		t.Error("expected second detach to report no removal")
	}
	if s.Detach("App", "go", nil) {
		t.Error("expected nil binding detach to report no removal")
	}

	if got := s.ListenersFor([]string{"App"}, "go"); len(got) != 0 {
		t.Errorf("expected no listeners after detach, got %d", len(got))
	}
}

func TestSharedClear(t *testing.T) {
	s := event.NewSharedManager()

	s.Attach("App", "go", appender("a"))
	s.Attach("Admin", "go", appender("b"))
	s.Clear()

	if got := s.ListenersFor([]string{"App", "Admin"}, "go"); len(got) != 0 {
		t.Errorf("expected empty registry after Clear, got %d", len(got))
	}
}

func TestSharedSingleton(t *testing.T) {
	if event.Shared() != event.Shared() {
		t.Error("expected Shared to return the same instance")
	}
}

func TestSharedConcurrentAccess(t *testing.T) {
	s := event.NewSharedManager()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.Attach("App", "go", appender("x"))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			s.ListenersFor([]string{"App"}, "go")
			s.Detach("App", "go", b)
		}()
	}
	wg.Wait()

	if got := s.ListenersFor([]string{"App"}, "go"); len(got) != 0 {
		t.Errorf("expected empty registry after balanced attach/detach, got %d", len(got))
	}
}
