package reports

import (
	"context"
	"testing"

	"quillie/internal/core"
	"quillie/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeUserStore() *fakeStore {
	return &fakeStore{
		users: []core.User{userWith(1, 100), userWith(2, 200), userWith(3, 300)},
		expenses: map[int64][]core.Expense{
			1: {expenseOn(core.NewDate(2024, 7, 16), "Makan", 50000_00)},
			3: {expenseOn(core.NewDate(2024, 7, 15), "Hiburan", 25000_00)},
		},
	}
}

func TestDispatcherIsolatesFailures(t *testing.T) {
	store := threeUserStore()
	sender := newFakeSender()
	sender.failFor[200] = errDelivery

	svc := NewService(store, fixedNow, testLogger())
	d := NewDispatcher(store, sender, svc, nil, 2, testLogger())

	sent, failed := d.Run(context.Background())
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)

	// The users around the failure still got their reports.
	assert.Len(t, sender.sent[100], 1)
	assert.Len(t, sender.sent[300], 1)
	assert.Empty(t, sender.sent[200])
}

func TestDispatcherSendsDistinctMessages(t *testing.T) {
	store := threeUserStore()
	sender := newFakeSender()

	svc := NewService(store, fixedNow, testLogger())
	d := NewDispatcher(store, sender, svc, nil, 1, testLogger())

	sent, failed := d.Run(context.Background())
	assert.Equal(t, 3, sent)
	assert.Zero(t, failed)

	// User 1 spent this week; user 2 did not.
	require.Len(t, sender.sent[100], 1)
	assert.Contains(t, sender.sent[100][0], "Rp 50.000")
	require.Len(t, sender.sent[200], 1)
	assert.Contains(t, sender.sent[200][0], "belum ada pengeluaran")
}

func TestDispatcherSkipsOptedOutUsers(t *testing.T) {
	store := threeUserStore()
	store.users[1].WeeklyReportEnabled = false
	store.users[2].IsActive = false
	sender := newFakeSender()

	svc := NewService(store, fixedNow, testLogger())
	d := NewDispatcher(store, sender, svc, nil, 2, testLogger())

	sent, _ := d.Run(context.Background())
	assert.Equal(t, 1, sent)
	assert.Empty(t, sender.sent[200])
	assert.Empty(t, sender.sent[300])
}

func TestSendToOnDemand(t *testing.T) {
	store := threeUserStore()
	sender := newFakeSender()

	svc := NewService(store, fixedNow, testLogger())
	d := NewDispatcher(store, sender, svc, nil, 2, testLogger())

	require.NoError(t, d.SendTo(context.Background(), 100))
	require.Len(t, sender.sent[100], 1)

	assert.ErrorIs(t, d.SendTo(context.Background(), 999), storage.ErrNotFound)
}
