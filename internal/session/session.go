// Package session drives the guided expense-entry conversation: a
// per-user state machine that collects amount, category, description
// and a final confirmation, one step at a time.
package session

import (
	"errors"
	"strings"

	"quillie/internal/core"
)

// ErrNotConfirmation is returned when the confirmation step gets
// anything other than an accept or reject.
var ErrNotConfirmation = errors.New("expected a confirmation answer")

// Step is the single source of truth for where a guided entry stands.
// It only moves forward or terminates; it never skips.
type Step int

const (
	StepAmount Step = iota
	StepCategory
	StepDescription
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepAmount:
		return "awaiting-amount"
	case StepCategory:
		return "awaiting-category"
	case StepDescription:
		return "awaiting-description"
	case StepConfirm:
		return "awaiting-confirmation"
	default:
		return "unknown"
	}
}

// Action tells the caller what to do after feeding one input.
type Action int

const (
	// ActionRetry means the input failed validation; the session
	// stays in the same step and the user is re-prompted.
	ActionRetry Action = iota
	// ActionNext means the session advanced one step.
	ActionNext
	// ActionCommit means the user accepted the draft; the caller
	// persists it and clears the session.
	ActionCommit
	// ActionCancel means the user rejected the draft; the caller
	// clears the session without persisting anything.
	ActionCancel
)

// Draft holds the partially collected expense fields.
type Draft struct {
	Amount      core.Money
	Category    string
	Description string // empty means skipped
}

// Result is the outcome of one Advance call.
type Result struct {
	Action Action
	Step   Step  // step after processing
	Reason error // validation error when Action == ActionRetry
}

// Session is the in-memory guided entry for one user. It is never
// persisted and never shared across users.
type Session struct {
	UserID int64
	Step   Step
	Draft  Draft
}

// Tokens understood at the description and confirmation steps.
const (
	SkipToken    = "skip"
	ConfirmToken = "yes"
	RejectToken  = "no"
)

// Advance feeds one user input to the session. Validation failures
// are recoverable: the step does not move and Reason says why.
func (s *Session) Advance(input string) Result {
	switch s.Step {
	case StepAmount:
		amount, err := core.ParseAmount(input)
		if err != nil {
			return Result{Action: ActionRetry, Step: s.Step, Reason: err}
		}
		s.Draft.Amount = amount
		s.Step = StepCategory
		return Result{Action: ActionNext, Step: s.Step}

	case StepCategory:
		category := strings.TrimSpace(input)
		if err := core.ValidateCategory(category); err != nil {
			return Result{Action: ActionRetry, Step: s.Step, Reason: err}
		}
		s.Draft.Category = category
		s.Step = StepDescription
		return Result{Action: ActionNext, Step: s.Step}

	case StepDescription:
		desc := strings.TrimSpace(input)
		if strings.EqualFold(desc, SkipToken) {
			desc = ""
		}
		if len([]rune(desc)) > core.MaxDescriptionLen {
			return Result{Action: ActionRetry, Step: s.Step, Reason: core.ErrLongDescription}
		}
		s.Draft.Description = desc
		s.Step = StepConfirm
		return Result{Action: ActionNext, Step: s.Step}

	case StepConfirm:
		switch strings.ToLower(strings.TrimSpace(input)) {
		case ConfirmToken:
			return Result{Action: ActionCommit, Step: s.Step}
		case RejectToken:
			return Result{Action: ActionCancel, Step: s.Step}
		default:
			return Result{Action: ActionRetry, Step: s.Step, Reason: ErrNotConfirmation}
		}
	}
	return Result{Action: ActionRetry, Step: s.Step}
}
