package tasks

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRegistryCompletesTask(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	id := r.Start("import domains", 3, func(ctx context.Context, report func(error)) error {
		for range 3 {
			report(nil)
		}
		return nil
	})
	r.Wait()

	task, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "import domains", task.Title)
	assert.Equal(t, StatusDone, task.Status)
	assert.Equal(t, 3, task.Processed)
	assert.Equal(t, 0, task.Failed)
	assert.Empty(t, task.Err)
	assert.False(t, task.FinishedAt.IsZero())
}

func TestRegistryEmptyTaskIsDone(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	id := r.Start("empty", 0, func(ctx context.Context, report func(error)) error { return nil })
	r.Wait()

	task, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, task.Status)
}

func TestRegistryRecordsFailures(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	id := r.Start("partial", 3, func(ctx context.Context, report func(error)) error {
		report(nil)
		report(errors.New("row 3: boom"))
		report(errors.New("row 4: bang"))
		return nil
	})
	r.Wait()

	task, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, task.Status)
	assert.Equal(t, 3, task.Processed)
	assert.Equal(t, 2, task.Failed)
	assert.Equal(t, "2 of 3 rows failed: row 3: boom", task.Err)
}

func TestRegistryJobError(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	id := r.Start("broken", 10, func(ctx context.Context, report func(error)) error {
		return errors.New("database unavailable")
	})
	r.Wait()

	task, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, task.Status)
	assert.Equal(t, "database unavailable", task.Err)
}

func TestRegistryGetReturnsSnapshot(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	release := make(chan struct{})
	id := r.Start("slow", 2, func(ctx context.Context, report func(error)) error {
		report(nil)
		<-release
		report(nil)
		return nil
	})

	assert.Eventually(t, func() bool {
		task, err := r.Get(id)
		return err == nil && task.Processed == 1
	}, time.Second, 5*time.Millisecond)

	snapshot, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, snapshot.Status)

	close(release)
	r.Wait()

	assert.Equal(t, 1, snapshot.Processed, "snapshots are copies")
	final, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 2, final.Processed)
}

func TestRegistryUnknownTask(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	_, err := r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRegistryPrunesFinishedTasks(t *testing.T) {
	r := NewRegistry(time.Millisecond, quietLogger())

	old := r.Start("old", 0, func(ctx context.Context, report func(error)) error { return nil })
	r.Wait()
	time.Sleep(5 * time.Millisecond)

	fresh := r.Start("fresh", 0, func(ctx context.Context, report func(error)) error { return nil })
	r.Wait()

	_, err := r.Get(old)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = r.Get(fresh)
	assert.NoError(t, err)
}

func TestRegistryShutdownCancelsJobs(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	id := r.Start("blocked", 1, func(ctx context.Context, report func(error)) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))

	task, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, task.Status)
	assert.Equal(t, context.Canceled.Error(), task.Err)
}
