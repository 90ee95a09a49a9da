package session

import (
	"testing"

	"quillie/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuidedEntryHappyPath(t *testing.T) {
	s := &Session{UserID: 1, Step: StepAmount}

	res := s.Advance("50000")
	assert.Equal(t, ActionNext, res.Action)
	assert.Equal(t, StepCategory, res.Step)
	assert.EqualValues(t, 5000000, s.Draft.Amount.Cents)

	res = s.Advance("Makan")
	assert.Equal(t, ActionNext, res.Action)
	assert.Equal(t, StepDescription, res.Step)

	res = s.Advance("makan siang")
	assert.Equal(t, ActionNext, res.Action)
	assert.Equal(t, StepConfirm, res.Step)
	assert.Equal(t, "makan siang", s.Draft.Description)

	res = s.Advance("yes")
	assert.Equal(t, ActionCommit, res.Action)
}

func TestInvalidAmountStaysInAmountStep(t *testing.T) {
	s := &Session{UserID: 1, Step: StepAmount}

	res := s.Advance("abc")
	assert.Equal(t, ActionRetry, res.Action)
	assert.Equal(t, StepAmount, res.Step)
	assert.ErrorIs(t, res.Reason, core.ErrInvalidAmount)

	// Recoverable: a valid amount afterwards still advances.
	res = s.Advance("50000")
	assert.Equal(t, ActionNext, res.Action)
	assert.Equal(t, StepCategory, res.Step)
}

func TestInvalidCategoryStaysInCategoryStep(t *testing.T) {
	s := &Session{UserID: 1, Step: StepCategory}

	res := s.Advance("   ")
	assert.Equal(t, ActionRetry, res.Action)
	assert.Equal(t, StepCategory, res.Step)
	assert.ErrorIs(t, res.Reason, core.ErrInvalidCategory)
}

func TestSkipDescription(t *testing.T) {
	for _, token := range []string{"skip", "SKIP", "Skip"} {
		s := &Session{UserID: 1, Step: StepDescription}
		res := s.Advance(token)
		assert.Equal(t, ActionNext, res.Action)
		assert.Equal(t, StepConfirm, res.Step)
		assert.Empty(t, s.Draft.Description)
	}
}

func TestRejectAtConfirmation(t *testing.T) {
	s := &Session{UserID: 1, Step: StepConfirm}
	res := s.Advance("no")
	assert.Equal(t, ActionCancel, res.Action)
}

func TestConfirmationRejectsOtherInput(t *testing.T) {
	s := &Session{UserID: 1, Step: StepConfirm}
	res := s.Advance("maybe")
	assert.Equal(t, ActionRetry, res.Action)
	assert.ErrorIs(t, res.Reason, ErrNotConfirmation)
}

func TestManagerIsolatesUsers(t *testing.T) {
	m := NewManager()
	m.Start(1)
	m.Start(2)

	res, ok := m.Advance(1, "50000")
	require.True(t, ok)
	assert.Equal(t, StepCategory, res.Step)

	// User 2's session is untouched by user 1's progress.
	draft, ok := m.Draft(2)
	require.True(t, ok)
	assert.Zero(t, draft.Amount.Cents)

	res, ok = m.Advance(2, "75000")
	require.True(t, ok)
	assert.Equal(t, ActionNext, res.Action)
}

func TestManagerClearDiscardsDraft(t *testing.T) {
	m := NewManager()
	m.Start(1)
	_, _ = m.Advance(1, "50000")

	m.Clear(1)
	assert.False(t, m.Active(1))
	_, ok := m.Advance(1, "Makan")
	assert.False(t, ok)
}

func TestManagerStartReplacesExistingSession(t *testing.T) {
	m := NewManager()
	m.Start(1)
	_, _ = m.Advance(1, "50000")

	m.Start(1)
	draft, ok := m.Draft(1)
	require.True(t, ok)
	assert.Zero(t, draft.Amount.Cents, "restart must discard prior fields")
}
