package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrWaitTimeout is returned when a condition does not hold before the
// deadline.
var ErrWaitTimeout = errors.New("timed out waiting for condition")

var errNotYet = errors.New("condition not met")

// Condition is polled until it reports true. A returned error aborts the
// wait.
type Condition func() (bool, error)

// WaitUntil polls cond every interval until it holds, it errors, ctx ends or
// timeout elapses. The condition is always evaluated at least once.
func WaitUntil(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	op := func() error {
		ok, err := cond()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errNotYet
		}
		return nil
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx)
	err := backoff.Retry(op, b)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, errNotYet):
		return fmt.Errorf("%w after %s", ErrWaitTimeout, timeout)
	default:
		return err
	}
}

// WaitFor polls cond with the session's configured timeout and interval.
func (s *Session) WaitFor(cond Condition) error {
	return WaitUntil(context.Background(), s.cfg.Wait.Timeout, s.cfg.Wait.PollInterval, cond)
}

// WaitForURLContains waits until the current URL contains sub.
func (s *Session) WaitForURLContains(sub string) error {
	err := s.WaitFor(func() (bool, error) {
		return strings.Contains(s.URL(), sub), nil
	})
	if err != nil {
		return fmt.Errorf("waiting for URL containing %q (at %s): %w", sub, s.URL(), err)
	}
	return nil
}

// WaitForVisible waits until the first element matching selector is visible.
func (s *Session) WaitForVisible(selector string) error {
	err := s.WaitFor(func() (bool, error) {
		return s.page.Locator(selector).First().IsVisible()
	})
	if err != nil {
		return fmt.Errorf("waiting for %s to be visible: %w", selector, err)
	}
	return nil
}

// WaitForContent waits until the page markup contains sub.
func (s *Session) WaitForContent(sub string) error {
	err := s.WaitFor(func() (bool, error) {
		return s.Contains(sub)
	})
	if err != nil {
		return fmt.Errorf("waiting for page to contain %q: %w", sub, err)
	}
	return nil
}
