package manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobs(t *testing.T) {
	t.Run("organizer enabled", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{organizerEnabled: true})

		jobs := f.manager.Jobs(time.Minute, time.Hour)
		require.Len(t, jobs, 2)
		assert.Equal(t, CheckSnatchedJob, jobs[0].Name)
		assert.Equal(t, time.Minute, jobs[0].Interval)
		assert.Equal(t, CleanDoneJob, jobs[1].Name)
		assert.Equal(t, time.Hour, jobs[1].Interval)

		f.manager.checking.Store(true)
		assert.NoError(t, jobs[0].Run(f.ctx))
	})

	t.Run("organizer disabled", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{})

		jobs := f.manager.Jobs(time.Minute, time.Hour)
		require.Len(t, jobs, 1)
		assert.Equal(t, CleanDoneJob, jobs[0].Name)
	})

	t.Run("zero interval disables", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{organizerEnabled: true})
		assert.Empty(t, f.manager.Jobs(0, 0))
	})
}

func TestScheduler_RunSkipsRunningJob(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	runs := 0

	job := Job{
		Name:     "slow",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			runs++
			close(started)
			<-release
			return nil
		},
	}

	s := NewScheduler(job)
	done := make(chan struct{})
	go func() {
		s.Run(context.Background(), job)
		close(done)
	}()

	<-started
	assert.Equal(t, []string{"slow"}, s.Running())

	s.Run(context.Background(), job)
	assert.Equal(t, 1, runs)

	close(release)
	<-done
	assert.Empty(t, s.Running())
}

func TestScheduler_StopCancelsRunningJobs(t *testing.T) {
	started := make(chan struct{})

	job := Job{
		Name:     "blocking",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	}

	s := NewScheduler(job)
	done := make(chan struct{})
	go func() {
		s.Run(context.Background(), job)
		close(done)
	}()

	<-started
	s.Stop(context.Background())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job was not cancelled")
	}
}

func TestScheduler_Start(t *testing.T) {
	ran := make(chan struct{}, 10)
	job := Job{
		Name:     "tick",
		Interval: time.Second,
		Run: func(ctx context.Context) error {
			ran <- struct{}{}
			return errors.New("logged and ignored")
		},
	}

	s := NewScheduler(job)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(ctx)
	}()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job never ran")
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
