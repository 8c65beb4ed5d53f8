package llm

import (
	"errors"
	"testing"
	"time"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON unchanged",
			input: `{"topic":"Fed Policy"}`,
			want:  `{"topic":"Fed Policy"}`,
		},
		{
			name:  "strips json fenced block",
			input: "```json\n{\"topic\":\"Fed Policy\"}\n```",
			want:  `{"topic":"Fed Policy"}`,
		},
		{
			name:  "strips plain fenced block",
			input: "```\n{\"topic\":\"Fed Policy\"}\n```",
			want:  `{"topic":"Fed Policy"}`,
		},
		{
			name:  "extracts JSON from surrounding prose",
			input: "Here is the result: {\"topic\":\"Fed Policy\"} hope that helps",
			want:  `{"topic":"Fed Policy"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanJSONResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRateLimit(t *testing.T) {
	if IsRateLimit(nil) {
		t.Error("nil error should not be a rate limit")
	}
	if !IsRateLimit(errors.New("openai: rate_limit_exceeded, try again later")) {
		t.Error("rate_limit message should be detected")
	}
	if !IsRateLimit(errors.New("Rate limit reached for gpt-4o")) {
		t.Error("rate limit message should be detected case-insensitively")
	}
	if IsRateLimit(errors.New("connection refused")) {
		t.Error("unrelated error should not be a rate limit")
	}
}

func TestRetryAfter(t *testing.T) {
	err := errors.New("Rate limit reached, please try again in 2.5s.")
	got := RetryAfter(err, 30*time.Second)
	if got != 3500*time.Millisecond {
		t.Errorf("got %v, want 3.5s", got)
	}
}

func TestRetryAfterFallback(t *testing.T) {
	err := errors.New("rate limit reached")
	got := RetryAfter(err, 30*time.Second)
	if got != 30*time.Second {
		t.Errorf("got %v, want fallback 30s", got)
	}
}
