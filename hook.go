package dualog

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Hook that is fired for every accepted message
// on the associated severity log level.
// Note, the call must be non-blocking.
type Hook interface {
	Fire(Severity) error
}

// HookFunc adapts an ordinary function to the Hook interface.
type HookFunc func(Severity) error

// Fire calls f(s).
func (f HookFunc) Fire(s Severity) error { return f(s) }

// levelHooks is a helper type for storing and
// help triggering the hooks on a logger instance.
type levelHooks map[Severity][]Hook

// fire triggers all the hooks for the given level. Every hook runs even when
// an earlier one fails; the failures are returned together.
func (lh levelHooks) fire(level Severity) error {
	var merr *multierror.Error
	for _, hook := range lh[level] {
		if err := fireHook(hook, level); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

func fireHook(hook Hook, level Severity) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panic: %v", r)
		}
	}()
	return hook.Fire(level)
}

func (lh levelHooks) add(level Severity, hooks ...Hook) {
	lh[level] = append(lh[level], hooks...)
}
