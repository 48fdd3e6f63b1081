package driver

import "time"

// Stage names a step of checking one document.
type Stage string

const (
	StageLoad   Stage = "load"
	StageVerify Stage = "verify"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Event reports progress for one document.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. It is called from the worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// finalStatus classifies a finished document.
func finalStatus(r *FileResult) Status {
	switch {
	case r.Err != nil:
		return StatusError
	case !r.Passed():
		return StatusFailed
	case r.Cached:
		return StatusCached
	}
	return StatusDone
}
