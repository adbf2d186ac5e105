package wizard

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/response"
)

// StepState is the indicator state of one step.
type StepState string

const (
	StepInactive  StepState = "inactive"
	StepActive    StepState = "active"
	StepCompleted StepState = "completed"
)

// Step is one page of a wizard.
type Step struct {
	Name string
	// Ready returns nil when the step may be submitted, otherwise a
	// precondition error naming what is missing. Nil Ready means always ready.
	Ready func() error
	// Submit runs on forward transition. A failure keeps the step active.
	Submit func(ctx context.Context) error
}

// Controller is a strictly ordered state machine with exactly one active step
// until the last step's submit succeeds.
type Controller struct {
	steps   []Step
	states  []StepState
	current int
	done    bool
	log     zerolog.Logger
}

// NewController creates a Controller positioned on the first step.
func NewController(name string, log zerolog.Logger, steps ...Step) *Controller {
	states := make([]StepState, len(steps))
	for i := range states {
		states[i] = StepInactive
	}
	if len(states) > 0 {
		states[0] = StepActive
	}
	return &Controller{
		steps:  steps,
		states: states,
		log:    log.With().Str("wizard", name).Logger(),
	}
}

// Len returns the number of steps.
func (c *Controller) Len() int { return len(c.steps) }

// Current returns the zero-based index of the active step.
func (c *Controller) Current() int { return c.current }

// CurrentStep returns the active step.
func (c *Controller) CurrentStep() Step { return c.steps[c.current] }

// State returns the indicator state of step i.
func (c *Controller) State(i int) StepState { return c.states[i] }

// Done reports whether the terminal state was reached.
func (c *Controller) Done() bool { return c.done }

// CanAdvance reports whether the forward control is enabled.
func (c *Controller) CanAdvance() bool {
	return c.Blocker() == nil
}

// Blocker returns why the forward control is disabled, or nil.
func (c *Controller) Blocker() error {
	if c.done || len(c.steps) == 0 {
		return response.Precondition("advance", response.ErrStepNotReady, "The wizard is finished.")
	}
	if ready := c.steps[c.current].Ready; ready != nil {
		return ready()
	}
	return nil
}

// Advance submits the active step and moves forward on success. Data already
// entered in other steps is untouched either way.
func (c *Controller) Advance(ctx context.Context) error {
	if err := c.Blocker(); err != nil {
		return err
	}

	step := c.steps[c.current]
	if step.Submit != nil {
		if err := step.Submit(ctx); err != nil {
			c.log.Error().Err(err).Str("step", step.Name).Msg("Step submit failed")
			return err
		}
	}

	c.states[c.current] = StepCompleted
	if c.current == len(c.steps)-1 {
		c.done = true
		c.log.Info().Msg("Wizard finished")
		return nil
	}

	c.current++
	c.states[c.current] = StepActive
	c.log.Debug().Str("step", c.steps[c.current].Name).Msg("Step activated")
	return nil
}

// Retreat moves back one step. It is a no-op on the first step and after
// the wizard has finished.
func (c *Controller) Retreat() bool {
	if c.done || c.current == 0 {
		return false
	}
	c.states[c.current] = StepInactive
	c.current--
	c.states[c.current] = StepActive
	return true
}

// Indicator renders the step bar, e.g. "[x] Details  [>] Rooms  [ ] Files".
func (c *Controller) Indicator() string {
	parts := make([]string, len(c.steps))
	for i, s := range c.steps {
		mark := " "
		switch c.states[i] {
		case StepCompleted:
			mark = "x"
		case StepActive:
			mark = ">"
		}
		parts[i] = "[" + mark + "] " + s.Name
	}
	return strings.Join(parts, "  ")
}
