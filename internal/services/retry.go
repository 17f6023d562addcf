package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxAttempts     = 5
	defaultRetryAfter      = 1
	serverErrorBackoffUnit = 500 * time.Millisecond
)

// Outcome is what the executor does after one attempt.
type Outcome int

const (
	// ReturnResult hands the response to the caller as-is.
	ReturnResult Outcome = iota
	// RetryRateLimited waits out a 429 before the next attempt.
	RetryRateLimited
	// RetryServerError backs off after a 5xx before the next attempt.
	RetryServerError
	// FailTerminal waits out the rate limit one last time, then gives up on the request.
	FailTerminal
)

func (o Outcome) String() string {
	switch o {
	case ReturnResult:
		return "return_result"
	case RetryRateLimited:
		return "retry_rate_limited"
	case RetryServerError:
		return "retry_server_error"
	case FailTerminal:
		return "fail_terminal"
	default:
		return ""
	}
}

// Decision pairs an [Outcome] with the wait before the next attempt.
type Decision struct {
	Outcome Outcome
	Wait    time.Duration
}

// decide maps a zero-based attempt and its response status to the next step.
//
// A 429 waits Retry-After (default 1) plus one second. A 5xx waits 500ms × (attempt+1) while
// attempts remain and is returned as-is on the last attempt. A 429 on the last attempt is terminal
// after its wait.
func decide(attempt, maxAttempts, status int, retryAfter string) Decision {
	last := attempt >= maxAttempts-1

	switch {
	case status == http.StatusTooManyRequests:
		wait := time.Duration(parseRetryAfter(retryAfter)+1) * time.Second
		if last {
			return Decision{Outcome: FailTerminal, Wait: wait}
		}
		return Decision{Outcome: RetryRateLimited, Wait: wait}
	case status >= http.StatusInternalServerError && !last:
		return Decision{Outcome: RetryServerError, Wait: serverErrorBackoffUnit * time.Duration(attempt+1)}
	default:
		return Decision{Outcome: ReturnResult}
	}
}

// parseRetryAfter reads a Retry-After header in whole seconds, defaulting to 1.
func parseRetryAfter(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultRetryAfter
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	return seconds
}

// Sleeper pauses the calling goroutine. Implementations must return early when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to [Sleeper].
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// RealSleeper waits on a timer.
var RealSleeper Sleeper = SleeperFunc(sleepWithContext)

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
