package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashureev/biasguard/internal/domain"
	"github.com/ashureev/biasguard/internal/history"
)

// AlertMessage is shown for every failed submission.
const AlertMessage = "API is sleeping or disconnected."

// Submit control labels.
const (
	LabelIdle = "RUN AUDIT →"
	LabelBusy = "PROCESSING..."
)

// ErrBusy is returned when a submission is attempted while one is in flight.
var ErrBusy = errors.New("submission already in progress")

// Alerter surfaces a failure to the user.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

// Alert implements Alerter.
func (f AlertFunc) Alert(message string) { f(message) }

// Form holds the editable input, the current result and the session history.
type Form struct {
	client  *Client
	alerter Alerter
	now     func() time.Time

	mu      sync.Mutex
	input   domain.Input
	result  domain.AuditResult
	history *history.Ring

	loading atomic.Bool
}

// NewForm creates a form that submits input through c. A nil alerter logs.
func NewForm(c *Client, input domain.Input, alerter Alerter, historyLimit int) *Form {
	if alerter == nil {
		alerter = AlertFunc(func(msg string) { slog.Warn(msg) })
	}
	return &Form{
		client:  c,
		alerter: alerter,
		now:     time.Now,
		input:   input,
		history: history.NewRing(historyLimit),
	}
}

// Set edits a single input field.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Set(field, value)
}

// Input returns a copy of the current input.
func (f *Form) Input() domain.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Clone()
}

// Result returns the current result, or nil before the first success.
func (f *Form) Result() domain.AuditResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result.Clone()
}

// History returns past results, newest first.
func (f *Form) History() []domain.HistoryEntry {
	return f.history.Entries()
}

// Loading reports whether a submission is in flight.
func (f *Form) Loading() bool {
	return f.loading.Load()
}

// Label returns the submit control label for the current state.
func (f *Form) Label() string {
	if f.Loading() {
		return LabelBusy
	}
	return LabelIdle
}

// Submit posts the current input. While a submission is in flight further
// calls return ErrBusy without sending anything. On failure the alerter is
// called and the previous result and history are kept.
func (f *Form) Submit(ctx context.Context) (domain.AuditResult, error) {
	if !f.loading.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer f.loading.Store(false)

	snapshot := f.Input()

	result, err := f.client.Post(ctx, snapshot)
	if err != nil {
		slog.Debug("Submission failed", "error", err, "path", snapshot.Path())
		f.alerter.Alert(AlertMessage)
		return nil, err
	}

	f.mu.Lock()
	f.result = result
	f.mu.Unlock()

	f.history.Push(domain.HistoryEntry{
		Result:    result.Clone(),
		Input:     snapshot,
		Timestamp: f.now(),
	})
	return result.Clone(), nil
}
