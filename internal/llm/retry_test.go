package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

var goodReview = MockResponse{Content: json.RawMessage(`{"score":7,"summary":"Good segmentation."}`)}

func TestRetry_ReviewAfterOutage(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: KindUnavailable, Err: errors.New("502 bad gateway")}},
		goodReview,
	)
	resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), gradeRequest("Segment by region."))
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if string(resp.Content) != string(goodReview.Content) {
		t.Errorf("content = %s", resp.Content)
	}

	reqs := mock.Requests()
	if len(reqs) != 2 {
		t.Fatalf("calls = %d, want 2", len(reqs))
	}
	if reqs[0].Messages[0].Content != reqs[1].Messages[0].Content {
		t.Error("retry changed the prompt")
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	down := MockResponse{Err: &Error{Kind: KindUnavailable}}
	mock := NewMockProvider(down, down, down, goodReview)

	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), gradeRequest("x"))
	if !IsKind(err, KindUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", mock.CallCount())
	}
}

func TestRetry_OffSchemaReviewRetriedOnce(t *testing.T) {
	offSchema := MockResponse{Content: json.RawMessage(`{"score":15,"summary":"Flawless."}`)}

	t.Run("second reply valid", func(t *testing.T) {
		mock := NewMockProvider(offSchema, goodReview)
		if _, err := WithRetry(mock, fastRetry()).Generate(context.Background(), gradeRequest("x")); err != nil {
			t.Fatalf("review: %v", err)
		}
		if mock.CallCount() != 2 {
			t.Errorf("calls = %d, want 2", mock.CallCount())
		}
	})

	t.Run("second reply invalid too", func(t *testing.T) {
		mock := NewMockProvider(offSchema, offSchema, goodReview)
		_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), gradeRequest("x"))
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindInvalid || e.Field != "score" {
			t.Fatalf("err = %v, want invalid score", err)
		}
		if mock.CallCount() != 2 {
			t.Errorf("calls = %d, want 2", mock.CallCount())
		}
	})
}

func TestRetry_TruncatedReviewNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: KindTruncated, Content: json.RawMessage(`{"score":7,"sum`)}},
		goodReview,
	)
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), gradeRequest("x"))
	if !IsKind(err, KindTruncated) {
		t.Fatalf("err = %v, want truncated", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_StopsWhenReviewCancelled(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: KindRateLimited, RetryAfter: time.Hour}},
		goodReview,
	)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(mock, fastRetry()).Generate(ctx, gradeRequest("x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: KindRateLimited, RetryAfter: 20 * time.Millisecond}},
		goodReview,
	)
	start := time.Now()
	if _, err := WithRetry(mock, fastRetry()).Generate(context.Background(), gradeRequest("x")); err != nil {
		t.Fatalf("review: %v", err)
	}
	if waited := time.Since(start); waited < 20*time.Millisecond {
		t.Errorf("waited %s, want at least the server's 20ms", waited)
	}
}

func TestRetry_BackoffCappedByMaxWait(t *testing.T) {
	r := &RetryProvider{config: fastRetry()}
	for attempt := range 6 {
		if d := r.wait(attempt, errors.New("x")); d > 6*time.Millisecond {
			t.Errorf("attempt %d waits %s, above MaxWait plus jitter", attempt, d)
		}
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	if got := WithRetry(NewMockProvider(), fastRetry()).ModelID(); got != "mock" {
		t.Fatalf("ModelID = %q, want mock", got)
	}
}
