package syncer

import "fmt"

type Status string

const (
	StatusAlreadySynced Status = "already_synced"
	StatusWouldUpdate   Status = "would_update"
	StatusUpdated       Status = "updated"
	StatusSkipped       Status = "skipped"
	StatusError         Status = "error"
)

// Outcome is the per-record result of a sync attempt.
type Outcome struct {
	Status Status
	Reason string
}

func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func Errorf(format string, args ...any) Outcome {
	return Outcome{Status: StatusError, Reason: fmt.Sprintf(format, args...)}
}

// Totals aggregates outcomes across a run.
type Totals struct {
	Updated       int
	AlreadySynced int
	WouldUpdate   int
	Skipped       int
	Errors        int
}

func (t *Totals) add(o Outcome) {
	switch o.Status {
	case StatusUpdated:
		t.Updated++
	case StatusAlreadySynced:
		t.AlreadySynced++
	case StatusWouldUpdate:
		t.WouldUpdate++
	case StatusSkipped:
		t.Skipped++
	default:
		t.Errors++
	}
}
