package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abolmasow/electronic-library/internal/backup"
)

func TestBackupSchedulerLifecycle(t *testing.T) {
	orchestrator := backup.NewOrchestrator(backup.Config{}, nil, nil)

	t.Run("rejects invalid schedules", func(t *testing.T) {
		s := NewBackupScheduler(orchestrator, "banana")
		err := s.Start(context.Background())
		assert.Error(t, err)
		assert.False(t, s.IsRunning())
	})

	t.Run("start and stop", func(t *testing.T) {
		s := NewBackupScheduler(orchestrator, "0 3 * * *")
		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())

		next := s.GetNextRunTime()
		require.NotNil(t, next)
		assert.True(t, next.After(time.Now()))

		s.Stop()
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.GetNextRunTime())
	})

	t.Run("start is idempotent", func(t *testing.T) {
		s := NewBackupScheduler(orchestrator, "0 3 * * *")
		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Start(context.Background()))
		s.Stop()
	})
}
