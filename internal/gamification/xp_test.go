package gamification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordXP(ctx context.Context, userID uuid.UUID, amount int) error {
	return m.Called(ctx, userID, amount).Error(0)
}

func TestLedgerGrant(t *testing.T) {
	store := newMemStore()
	rec := new(mockRecorder)
	ledger := NewLedger(store, rec, nil, zerolog.Nop())
	user := uuid.New()
	store.xp[user] = 250

	rec.On("RecordXP", mock.Anything, user, 9).Return(nil)

	bal, err := ledger.Grant(context.Background(), user, 9, ReasonAttempt)
	require.NoError(t, err)
	assert.Equal(t, Balance{XP: 259, Level: 3}, bal)
	rec.AssertExpectations(t)
}

func TestLedgerIgnoresZeroAndRecorderFailure(t *testing.T) {
	store := newMemStore()
	rec := new(mockRecorder)
	ledger := NewLedger(store, rec, nil, zerolog.Nop())
	user := uuid.New()

	_, err := ledger.Grant(context.Background(), user, 0, ReasonAttempt)
	require.NoError(t, err)
	rec.AssertNotCalled(t, "RecordXP", mock.Anything, mock.Anything, mock.Anything)

	rec.On("RecordXP", mock.Anything, user, 20).Return(errors.New("redis down"))
	bal, err := ledger.Grant(context.Background(), user, 20, ReasonMission)
	require.NoError(t, err)
	assert.Equal(t, 20, bal.XP)
}
