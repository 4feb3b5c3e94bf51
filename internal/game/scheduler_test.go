package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualSchedulerRunsInOrder(t *testing.T) {
	sched := NewManualScheduler()
	var got []string
	sched.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	sched.AfterFunc(time.Second, func() { got = append(got, "a") })
	sched.AfterFunc(2*time.Second, func() { got = append(got, "c") })

	sched.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 2, sched.Pending())

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, sched.Pending())
}

func TestManualSchedulerNestedCallbacks(t *testing.T) {
	sched := NewManualScheduler()
	fired := 0
	sched.AfterFunc(time.Second, func() {
		sched.AfterFunc(time.Second, func() { fired++ })
	})
	sched.Advance(3 * time.Second)
	assert.Equal(t, 1, fired)
}

func TestManualTaskStop(t *testing.T) {
	sched := NewManualScheduler()
	fired := false
	task := sched.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, task.Stop())
	assert.False(t, task.Stop())
	sched.Advance(time.Minute)
	assert.False(t, fired)
}

func TestTaskGroupStopAll(t *testing.T) {
	sched := NewManualScheduler()
	group := inlineTasks(sched)
	fired := 0
	group.after(time.Second, func() { fired++ })
	id := group.after(time.Second, func() { fired++ })
	group.cancel(id)
	assert.Equal(t, 1, group.len())

	group.stopAll()
	assert.Equal(t, -1, group.after(time.Second, func() { fired++ }))
	sched.Advance(time.Minute)
	assert.Zero(t, fired)
}
