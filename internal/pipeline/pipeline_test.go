package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crawlmap/crawlmap/internal/model"
)

// fakeStep records its execution and optionally fails.
type fakeStep struct {
	name string
	err  error
	ran  *[]string
}

func (s *fakeStep) Do(_ context.Context, _ *model.CrawlResult) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func (s *fakeStep) Name() string {
	return s.name
}

// tolerantStep is a fakeStep that keeps running after cancellation.
type tolerantStep struct {
	fakeStep
}

func (s *tolerantStep) runsOnCancel() bool {
	return true
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var ran []string
		p := New()
		p.AddSteps(
			&fakeStep{name: "first", ran: &ran},
			&fakeStep{name: "second", ran: &ran},
			&fakeStep{name: "third", ran: &ran},
		)

		if err := p.Execute(context.Background(), &model.CrawlResult{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first", "second", "third"}
		if diff := cmp.Diff(want, ran); diff != "" {
			t.Errorf("execution order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stops at the first failure by default", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var ran []string
		p := New()
		p.AddSteps(
			&fakeStep{name: "first", ran: &ran},
			&fakeStep{name: "second", err: boom, ran: &ran},
			&fakeStep{name: "third", ran: &ran},
		)

		err := p.Execute(context.Background(), &model.CrawlResult{})
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want boom", err)
		}

		want := []string{"first", "second"}
		if diff := cmp.Diff(want, ran); diff != "" {
			t.Errorf("execution order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("continue-on-error runs all steps and returns the first error", func(t *testing.T) {
		t.Parallel()

		first := errors.New("first failure")
		var ran []string
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&fakeStep{name: "a", err: first, ran: &ran},
			&fakeStep{name: "b", err: errors.New("second failure"), ran: &ran},
			&fakeStep{name: "c", ran: &ran},
		)

		err := p.Execute(context.Background(), &model.CrawlResult{})
		if !errors.Is(err, first) {
			t.Fatalf("error = %v, want the first failure", err)
		}
		if len(ran) != 3 {
			t.Errorf("expected all 3 steps to run, got %v", ran)
		}
	})

	t.Run("cancelled context skips ordinary steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ran []string
		p := New()
		p.AddSteps(&fakeStep{name: "never", ran: &ran})

		result := &model.CrawlResult{}
		err := p.Execute(ctx, result)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
		if len(ran) != 0 {
			t.Errorf("no ordinary step should run after cancellation, got %v", ran)
		}
		if !result.Truncated {
			t.Error("cancelled pipeline should mark the result truncated")
		}
	})

	t.Run("cancel-tolerant steps still run after cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ran []string
		p := New()
		p.AddSteps(&tolerantStep{fakeStep{name: "report", ran: &ran}})

		result := &model.CrawlResult{}
		if err := p.Execute(ctx, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"report"}
		if diff := cmp.Diff(want, ran); diff != "" {
			t.Errorf("execution mismatch (-want +got):\n%s", diff)
		}
		if !result.Truncated {
			t.Error("cancelled run should mark the result truncated")
		}
	})

	t.Run("step names reflect execution order", func(t *testing.T) {
		t.Parallel()

		var ran []string
		p := New()
		p.AddSteps(
			&fakeStep{name: "crawl", ran: &ran},
			&fakeStep{name: "report", ran: &ran},
		)

		want := []string{"crawl", "report"}
		if diff := cmp.Diff(want, p.StepNames()); diff != "" {
			t.Errorf("step names mismatch (-want +got):\n%s", diff)
		}
	})
}
