// Package fixtures holds recorders for the docs command registration tests.
package fixtures

import (
	"fmt"

	command "github.com/goliatone/go-command"
)

// RecordingRegistry keeps every handler passed to RegisterCommand in order.
type RecordingRegistry struct {
	Handlers []any
	err      error
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: []any{}}
}

// FailWith makes later registrations return err without recording.
func (r *RecordingRegistry) FailWith(err error) *RecordingRegistry {
	r.err = err
	return r
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration is one scheduled job.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler func() error
}

// CronRecorder stands in for a cron scheduler. Jobs never fire on their own;
// tests trigger them with Fire.
type CronRecorder struct {
	Registrations []CronRegistration
	err           error
}

func NewCronRecorder() *CronRecorder {
	return &CronRecorder{Registrations: []CronRegistration{}}
}

// Fail makes the registrar reject every job with err.
func (c *CronRecorder) Fail(err error) {
	c.err = err
}

// Registrar returns the function handed to RegisterDocsCron.
func (c *CronRecorder) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		job, ok := handler.(func() error)
		if !ok {
			return fmt.Errorf("fixtures: cron job must be func() error, got %T", handler)
		}
		c.Registrations = append(c.Registrations, CronRegistration{Config: cfg, Handler: job})
		return nil
	}
}

// Fire runs every job scheduled under expression, as the scheduler would on
// a tick, and returns the first error.
func (c *CronRecorder) Fire(expression string) error {
	fired := 0
	for _, reg := range c.Registrations {
		if reg.Config.Expression != expression {
			continue
		}
		fired++
		if err := reg.Handler(); err != nil {
			return err
		}
	}
	if fired == 0 {
		return fmt.Errorf("fixtures: no job scheduled under %q", expression)
	}
	return nil
}
