package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeProvider replays a script of results, one per Complete call.
type fakeProvider struct {
	name   string
	model  string
	script []fakeResult
	calls  int
}

type fakeResult struct {
	text string
	err  error
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return f.model }

func (f *fakeProvider) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	i := f.calls
	f.calls++
	if len(f.script) == 0 {
		return "ok", nil
	}
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	return f.script[i].text, f.script[i].err
}

// sleepRecorder records backoff delays without sleeping.
type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestClientSuccessFirstAttempt(t *testing.T) {
	p := &fakeProvider{name: "A", script: []fakeResult{{text: "hello"}}}
	rec := &sleepRecorder{}
	c := NewClient(p, 2, WithSleep(rec.sleep))

	text, err := c.Complete(context.Background(), []ChatMessage{UserMessage("hi")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("expected 'hello', got %q", text)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 attempt, got %d", p.calls)
	}
	if len(rec.delays) != 0 {
		t.Errorf("expected no sleeps, got %v", rec.delays)
	}
}

func TestClientRetriesThenSucceeds(t *testing.T) {
	p := &fakeProvider{name: "A", script: []fakeResult{
		{err: errors.New("connection reset by peer")},
		{text: "recovered"},
	}}
	rec := &sleepRecorder{}
	c := NewClient(p, 3, WithSleep(rec.sleep))

	text, err := c.Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "recovered" {
		t.Errorf("expected 'recovered', got %q", text)
	}
	if p.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", p.calls)
	}
	if len(rec.delays) != 1 || rec.delays[0] != time.Second {
		t.Errorf("expected one 1s backoff, got %v", rec.delays)
	}
}

func TestClientExhaustedRetries(t *testing.T) {
	last := errors.New("boom 2")
	p := &fakeProvider{name: "A", script: []fakeResult{
		{err: errors.New("boom 1")},
		{err: last},
	}}
	rec := &sleepRecorder{}
	c := NewClient(p, 2, WithSleep(rec.sleep))

	_, err := c.Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if p.calls != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", p.calls)
	}
	if len(rec.delays) != 1 {
		t.Errorf("expected exactly 1 backoff sleep, got %d", len(rec.delays))
	}

	var exhausted *ExhaustedRetriesError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedRetriesError, got %T: %v", err, err)
	}
	if exhausted.Attempts != 2 {
		t.Errorf("expected 2 attempts recorded, got %d", exhausted.Attempts)
	}
	if !errors.Is(err, last) {
		t.Errorf("expected error to wrap the last failure, got %v", err)
	}
}

func TestClientBackoffSchedule(t *testing.T) {
	p := &fakeProvider{name: "A", script: []fakeResult{{err: errors.New("down")}}}
	rec := &sleepRecorder{}
	c := NewClient(p, 4, WithSleep(rec.sleep))

	_, _ = c.Complete(context.Background(), nil)

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(rec.delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), rec.delays)
	}
	for i, d := range want {
		if rec.delays[i] != d {
			t.Errorf("sleep %d: expected %v, got %v", i, d, rec.delays[i])
		}
	}
}

func TestClientBackoffCapped(t *testing.T) {
	c := NewClient(&fakeProvider{name: "A"}, 1)
	if got := c.backoff(10); got != maxBackoff {
		t.Errorf("expected cap %v, got %v", maxBackoff, got)
	}
	if got := c.backoff(62); got != maxBackoff {
		t.Errorf("expected cap %v for huge attempt, got %v", maxBackoff, got)
	}
}

func TestClientZeroRetriesMeansOneAttempt(t *testing.T) {
	p := &fakeProvider{name: "A", script: []fakeResult{{err: errors.New("down")}}}
	c := NewClient(p, 0, WithSleep((&sleepRecorder{}).sleep))

	_, err := c.Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if p.calls != 1 {
		t.Errorf("expected 1 attempt, got %d", p.calls)
	}
}

func TestClientCancelledDuringBackoff(t *testing.T) {
	p := &fakeProvider{name: "A", script: []fakeResult{{err: errors.New("429 Too Many Requests")}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(p, 3, WithBackoffBase(time.Hour))

	_, err := c.Complete(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if IsRateLimited(err) {
		t.Error("cancellation must not be classified as rate limited")
	}
	if p.calls != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", p.calls)
	}
}

func TestClientClassifiesAttemptErrors(t *testing.T) {
	p := &fakeProvider{name: "A", script: []fakeResult{{err: errors.New("You exceeded your current quota")}}}
	c := NewClient(p, 1)

	_, err := c.Complete(context.Background(), nil)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError inside, got %T", err)
	}
	if pe.Type != ErrorTypeRateLimit {
		t.Errorf("expected rate_limit, got %s", pe.Type)
	}
	if !IsRateLimited(err) {
		t.Error("expected IsRateLimited to be true")
	}
}
