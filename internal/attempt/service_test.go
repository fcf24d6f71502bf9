package attempt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/levibo0306/mentora/internal/gamification"
	"github.com/levibo0306/mentora/internal/question"
	"github.com/levibo0306/mentora/internal/quiz"
	"github.com/levibo0306/mentora/internal/scoring"
	"github.com/levibo0306/mentora/internal/validation"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateAttempt(ctx context.Context, rec Record) (Record, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(Record), args.Error(1)
}

type stubQuizzes struct {
	quizzes map[uuid.UUID]quiz.Quiz
	shares  map[string]quiz.Share
}

func (s *stubQuizzes) Get(_ context.Context, id uuid.UUID) (quiz.Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	return q, nil
}

func (s *stubQuizzes) ResolveShare(_ context.Context, token string) (quiz.Share, error) {
	sh, ok := s.shares[token]
	if !ok {
		return quiz.Share{}, quiz.ErrShareNotFound
	}
	return sh, nil
}

type stubKeys map[uuid.UUID][]scoring.Key

func (s stubKeys) Load(_ context.Context, quizID uuid.UUID) ([]scoring.Key, error) {
	return s[quizID], nil
}

type recordingUpdater struct {
	applied []scoring.Outcome
	err     error
}

func (u *recordingUpdater) Apply(_ context.Context, _ uuid.UUID, outcomes []scoring.Outcome) ([]question.Transition, error) {
	if u.err != nil {
		return nil, u.err
	}
	u.applied = append(u.applied, outcomes...)
	return nil, nil
}

type recordingXP struct {
	grants []int
}

func (x *recordingXP) Grant(_ context.Context, _ uuid.UUID, amount int, reason string) (gamification.Balance, error) {
	if reason == gamification.ReasonAttempt {
		x.grants = append(x.grants, amount)
	}
	return gamification.Balance{}, nil
}

type recordingStreaks struct {
	days []string
}

func (s *recordingStreaks) Touch(_ context.Context, _ uuid.UUID, today string) (gamification.Streak, error) {
	s.days = append(s.days, today)
	return gamification.Streak{Current: 3, LastActive: today}, nil
}

type recordingMissions struct {
	signals []gamification.AttemptSignal
	report  gamification.ProgressReport
}

func (m *recordingMissions) OnAttempt(_ context.Context, sig gamification.AttemptSignal) (gamification.ProgressReport, error) {
	m.signals = append(m.signals, sig)
	return m.report, nil
}

type fixture struct {
	svc      *Service
	store    *mockStore
	updater  *recordingUpdater
	xp       *recordingXP
	streaks  *recordingStreaks
	missions *recordingMissions
	quizID   uuid.UUID
	q1, q2   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    new(mockStore),
		updater:  &recordingUpdater{},
		xp:       &recordingXP{},
		streaks:  &recordingStreaks{},
		missions: &recordingMissions{},
		quizID:   uuid.New(),
		q1:       uuid.New(),
		q2:       uuid.New(),
	}
	quizzes := &stubQuizzes{
		quizzes: map[uuid.UUID]quiz.Quiz{f.quizID: {ID: f.quizID, Title: "Fotoszintézis"}},
		shares:  map[string]quiz.Share{"tok-abcdefgh": {QuizID: f.quizID, Token: "tok-abcdefgh"}},
	}
	keys := stubKeys{f.quizID: {
		{QuestionID: f.q1, CorrectIndex: 1, OptionCount: 3},
		{QuestionID: f.q2, CorrectIndex: 0, OptionCount: 2},
	}}
	f.svc = NewService(Deps{
		Store:      f.store,
		Quizzes:    quizzes,
		Shares:     quizzes,
		Keys:       keys,
		Difficulty: f.updater,
		XP:         f.xp,
		Streaks:    f.streaks,
		Missions:   f.missions,
		Now:        func() time.Time { return time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC) },
	}, zerolog.Nop())
	return f
}

func TestScoreAttempt_FullPipeline(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	attemptID := uuid.New()
	completed := gamification.Mission{TemplateID: "complete_1", XPReward: 20}
	f.missions.report = gamification.ProgressReport{Completed: []gamification.Mission{completed}, XPAwarded: 20}

	f.store.On("CreateAttempt", mock.Anything, mock.MatchedBy(func(rec Record) bool {
		return rec.QuizID == f.quizID && rec.UserID != nil && *rec.UserID == userID && rec.Score == 50
	})).Return(Record{ID: attemptID}, nil)

	// -60 means UTC+1, so 23:30 UTC is already the next local day.
	res, err := f.svc.ScoreAttempt(context.Background(), f.quizID, userID, map[uuid.UUID]int{f.q1: 1, f.q2: 1}, -60)
	require.NoError(t, err)

	assert.Equal(t, attemptID, res.ID)
	assert.Equal(t, 50, res.Score)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 5, res.XPGained)
	assert.Equal(t, 20, res.MissionXP)
	assert.Equal(t, 3, res.StreakDays)
	assert.Len(t, res.MissionsCompleted, 1)

	assert.Len(t, f.updater.applied, 2)
	assert.Equal(t, []int{5}, f.xp.grants)
	assert.Equal(t, []string{"2026-03-02"}, f.streaks.days)
	require.Len(t, f.missions.signals, 1)
	assert.Equal(t, gamification.AttemptSignal{UserID: userID, Day: "2026-03-02", Score: 50, Streak: 3}, f.missions.signals[0])
	f.store.AssertExpectations(t)
}

func TestScoreAttempt_UnknownQuiz(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ScoreAttempt(context.Background(), uuid.New(), uuid.New(), nil, 0)
	assert.ErrorIs(t, err, quiz.ErrNotFound)
	f.store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestScoreAttempt_InvalidAnswersWriteNothing(t *testing.T) {
	f := newFixture(t)

	cases := map[string]map[uuid.UUID]int{
		"unknown question": {uuid.New(): 0},
		"option too large": {f.q1: 3},
		"negative option":  {f.q2: -1},
	}
	for name, answers := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.ScoreAttempt(context.Background(), f.quizID, uuid.New(), answers, 0)
			var verr *validation.Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "answers", verr.Field)
		})
	}
	assert.Empty(t, f.updater.applied)
	assert.Empty(t, f.xp.grants)
	f.store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestScoreAttempt_MissingAnswersWriteNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ScoreAttempt(context.Background(), f.quizID, uuid.New(), nil, 0)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "answers", verr.Field)
	assert.Empty(t, f.updater.applied)
	assert.Empty(t, f.xp.grants)
	assert.Empty(t, f.streaks.days)
	assert.Empty(t, f.missions.signals)
	f.store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)

	f.store.On("CreateAttempt", mock.Anything, mock.Anything).Return(Record{ID: uuid.New()}, nil)
	res, err := f.svc.ScoreAttempt(context.Background(), f.quizID, uuid.New(), map[uuid.UUID]int{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 2, res.Total)
}

func TestScoreAttempt_DifficultyFailureIsSurfaced(t *testing.T) {
	f := newFixture(t)
	f.updater.err = errors.New("connection reset")

	_, err := f.svc.ScoreAttempt(context.Background(), f.quizID, uuid.New(), map[uuid.UUID]int{f.q1: 1}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	f.store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestSubmitShared_Anonymous(t *testing.T) {
	f := newFixture(t)
	f.store.On("CreateAttempt", mock.Anything, mock.MatchedBy(func(rec Record) bool {
		return rec.UserID == nil && rec.Score == 100
	})).Return(Record{ID: uuid.New()}, nil)

	res, err := f.svc.SubmitShared(context.Background(), "tok-abcdefgh", uuid.Nil, map[uuid.UUID]int{f.q1: 1, f.q2: 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, SharedResult{Score: 2, Max: 2}, res)
	assert.Len(t, f.updater.applied, 2)
	assert.Empty(t, f.xp.grants)
	assert.Empty(t, f.streaks.days)
	assert.Empty(t, f.missions.signals)
}

func TestSubmitShared_SignedInRunsGamification(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.store.On("CreateAttempt", mock.Anything, mock.Anything).Return(Record{ID: uuid.New()}, nil)

	res, err := f.svc.SubmitShared(context.Background(), "tok-abcdefgh", userID, map[uuid.UUID]int{f.q1: 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, SharedResult{Score: 1, Max: 2}, res)
	assert.Equal(t, []int{5}, f.xp.grants)
	assert.Equal(t, []string{"2026-03-01"}, f.streaks.days)
	require.Len(t, f.missions.signals, 1)
	assert.Equal(t, userID, f.missions.signals[0].UserID)
}

func TestSubmitShared_InvalidToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitShared(context.Background(), "missing-token", uuid.Nil, nil, 0)
	assert.ErrorIs(t, err, quiz.ErrShareNotFound)
}
