package suggest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bastiangx/typeahead/pkg/autocomplete"
)

type countingResolver struct {
	calls int
	err   error
}

func (c *countingResolver) Resolve(_ context.Context, query string) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []string{query + "1", query + "2"}, nil
}

var _ autocomplete.Resolver[string] = (*CachedResolver[string])(nil)

func TestCachedResolverHits(t *testing.T) {
	next := &countingResolver{}
	r, err := NewCachedResolver[string](next, 8)
	if err != nil {
		t.Fatal(err)
	}

	first, _ := r.Resolve(context.Background(), "foo")
	first[0] = "mutated"
	second, _ := r.Resolve(context.Background(), "foo")

	if next.calls != 1 {
		t.Errorf("next called %d times, want 1", next.calls)
	}
	if !reflect.DeepEqual(second, []string{"foo1", "foo2"}) {
		t.Errorf("cached result = %v", second)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	r.Purge()
	r.Resolve(context.Background(), "foo")
	if next.calls != 2 {
		t.Errorf("next called %d times after Purge, want 2", next.calls)
	}
}

func TestCachedResolverSkipsErrors(t *testing.T) {
	boom := errors.New("boom")
	next := &countingResolver{err: boom}
	r, err := NewCachedResolver[string](next, 8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := r.Resolve(context.Background(), "foo"); !errors.Is(err, boom) {
			t.Fatalf("Resolve error = %v, want boom", err)
		}
	}
	if next.calls != 2 || r.Len() != 0 {
		t.Errorf("calls = %d, Len() = %d; errors must not be cached", next.calls, r.Len())
	}
}

func TestNewCachedResolverRejectsZeroSize(t *testing.T) {
	if _, err := NewCachedResolver[string](&countingResolver{}, 0); err == nil {
		t.Error("expected an error for size 0")
	}
}
