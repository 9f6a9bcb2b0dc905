package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindManifest jobKind = "manifest"
	jobKindDownload jobKind = "download"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobRecord struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Record jobRecord
}

type jobResultMsg struct {
	Record  jobRecord
	Payload tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus turns a runner into a start-signal plus result-envelope command
// pair. The result message is delivered on every exit path, which is what
// lets the model restore a card's download control no matter how the job
// ended.
type jobBus struct {
	counter int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startCmd := func() tea.Msg {
		return jobSignalMsg{Record: jobRecord{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(context.Background())
		record := jobRecord{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			record.Status = jobStatusFailed
			record.Err = err.Error()
		} else {
			record.Status = jobStatusSucceeded
		}
		record.Duration = record.CompletedAt.Sub(started)
		log.Printf("[jobs] %s %s (duration=%s, err=%v)", kind, record.Status, record.Duration, err)
		return jobResultMsg{Record: record, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}
