package reconcile

import (
	"github.com/aulatools/conciliador/pkg/errors"
)

// DefaultProximityWindow is the widest start-time distance, in minutes,
// the proximity fallback accepts.
const DefaultProximityWindow = 120

// options configures an Engine.
type options struct {
	proximityWindow float64
	notify          Notifier
}

func defaultOptions() *options {
	return &options{
		proximityWindow: DefaultProximityWindow,
	}
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns engine options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithProximityWindow sets the acceptance window, in minutes, for the
// time-proximity fallback pass.
func WithProximityWindow(minutes float64) Option {
	return func(o *options) error {
		if minutes < 0 {
			return &errors.ValidationError{
				Field:   "proximityWindow",
				Value:   minutes,
				Message: "must not be negative",
			}
		}
		o.proximityWindow = minutes
		return nil
	}
}

// WithNotifier sets the warning callback. Warnings are always collected on
// the Result; the notifier additionally receives them as they occur.
func WithNotifier(notify Notifier) Option {
	return func(o *options) error {
		o.notify = notify
		return nil
	}
}
