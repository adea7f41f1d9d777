package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStop_AppendsSessionAtCurrentTime(t *testing.T) {
	env := newTestEnv(t)
	svc := env.sessionService()
	ctx := context.Background()

	sess, err := svc.RecordStop(ctx, 1_500_000, " Math ", "Algebra", 42)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, testNow, sess.Timestamp)
	assert.Equal(t, "Math", sess.Subject)
	assert.Equal(t, 42, sess.PauseSeconds)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *sess, list[0])
	assert.Equal(t, []string{"record-session"}, env.observer.names())
}

func TestRecordStop_ZeroDurationIsNoop(t *testing.T) {
	env := newTestEnv(t)
	svc := env.sessionService()
	ctx := context.Background()

	sess, err := svc.RecordStop(ctx, 0, "Math", "", 0)
	require.NoError(t, err)
	assert.Nil(t, sess)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, env.observer.names())
}

func TestRecordStop_RejectsNegativeDuration(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessionService().RecordStop(context.Background(), -1, "Math", "", 0)
	assert.ErrorIs(t, err, domain.ErrNegativeDuration)
	require.Len(t, env.observer.events, 1)
	assert.False(t, env.observer.events[0].Success)
}

func TestRecordStop_EmptySubjectKeptEmpty(t *testing.T) {
	env := newTestEnv(t)

	sess, err := env.sessionService().RecordStop(context.Background(), 1000, "", "", 0)
	require.NoError(t, err)
	assert.Empty(t, sess.Subject)
	assert.Equal(t, domain.NoSubjectLabel, sess.SubjectLabel())
}

func TestListSince(t *testing.T) {
	env := newTestEnv(t)
	svc := env.sessionService()
	ctx := context.Background()

	_, err := svc.RecordStop(ctx, 1000, "Old", "", 0)
	require.NoError(t, err)
	env.clock.Advance(48 * time.Hour)
	_, err = svc.RecordStop(ctx, 1000, "New", "", 0)
	require.NoError(t, err)

	list, err := svc.ListSince(ctx, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New", list[0].Subject)
}

func TestLogUseCaseObserver_WritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "import",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"z": 1, "a": "x"},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "reset",
		Err:  errors.New("boom"),
	})

	out := buf.String()
	assert.Contains(t, out, "use_case=import")
	assert.Contains(t, out, "duration_ms=3")
	assert.Contains(t, out, "a=x z=1")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
