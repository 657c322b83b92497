// Package broadcast fans one vocabulary card out to many conversation
// targets. Each run authenticates once up front (the run, not the runner,
// is the stateless unit) and then delivers sequentially so per-target
// outcome logs stay deterministic.
package broadcast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tinyland-inc/wordclaw/pkg/delivery"
	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/orchestrator"
	"github.com/tinyland-inc/wordclaw/pkg/token"
	"github.com/tinyland-inc/wordclaw/pkg/vocab"
)

// Status represents the current state of a broadcast run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Definition describes one broadcast: a card and the targets it goes to.
type Definition struct {
	Targets []string     `json:"targets"`
	Record  vocab.Record `json:"record"`
}

// TargetResult captures the outcome of delivering to a single target.
type TargetResult struct {
	TargetID string           `json:"target_id"`
	Outcome  delivery.Outcome `json:"outcome,omitempty"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration"`
}

// Execution tracks the runtime state of one broadcast run.
type Execution struct {
	ID        string         `json:"id"`
	Status    Status         `json:"status"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time,omitzero"`
	Current   int            `json:"current"`
	Results   []TargetResult `json:"results"`
	Error     string         `json:"error,omitempty"`
}

// Runner executes broadcasts against the stateless orchestrator.
type Runner struct {
	orch *orchestrator.Orchestrator

	mu         sync.RWMutex
	executions map[string]*Execution
	cancel     map[string]context.CancelFunc
}

func NewRunner(orch *orchestrator.Orchestrator) *Runner {
	return &Runner{
		orch:       orch,
		executions: make(map[string]*Execution),
		cancel:     make(map[string]context.CancelFunc),
	}
}

// Start begins executing a broadcast asynchronously and returns its
// execution id. The token is held only for the duration of the run.
func (r *Runner) Start(ctx context.Context, tok token.SessionToken, def Definition) (*Execution, error) {
	if len(def.Targets) == 0 {
		return nil, fmt.Errorf("broadcast must have at least one target")
	}

	exec := &Execution{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		StartTime: time.Now(),
		Results:   make([]TargetResult, 0, len(def.Targets)),
	}

	runCtx, cancelFn := context.WithCancel(ctx)

	r.mu.Lock()
	r.executions[exec.ID] = exec
	r.cancel[exec.ID] = cancelFn
	r.mu.Unlock()

	go r.run(runCtx, exec, tok, def)

	return exec, nil
}

// Stop cancels a running broadcast. Targets already delivered keep their
// results.
func (r *Runner) Stop(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exec, ok := r.executions[id]
	if !ok {
		return fmt.Errorf("broadcast %q not found", id)
	}
	if exec.Status != StatusRunning {
		return fmt.Errorf("broadcast %q is not running (status: %s)", id, exec.Status)
	}

	exec.Status = StatusCanceled
	exec.EndTime = time.Now()

	if cancel, ok := r.cancel[id]; ok {
		cancel()
		delete(r.cancel, id)
	}

	logger.InfoCF("broadcast", "Broadcast canceled", map[string]any{"id": id})
	return nil
}

// GetStatus returns a snapshot of a broadcast's execution state. The run
// goroutine keeps mutating the live record, so callers get a copy.
func (r *Runner) GetStatus(id string) (*Execution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exec, ok := r.executions[id]
	if !ok {
		return nil, fmt.Errorf("broadcast %q not found", id)
	}
	snap := *exec
	snap.Results = append([]TargetResult(nil), exec.Results...)
	return &snap, nil
}

// run delivers the card target by target.
func (r *Runner) run(ctx context.Context, exec *Execution, tok token.SessionToken, def Definition) {
	defer func() {
		r.mu.Lock()
		delete(r.cancel, exec.ID)
		r.mu.Unlock()
	}()

	for i, targetID := range def.Targets {
		if ctx.Err() != nil {
			r.mu.Lock()
			if exec.Status == StatusRunning {
				exec.Status = StatusCanceled
				exec.Error = ctx.Err().Error()
				exec.EndTime = time.Now()
			}
			r.mu.Unlock()
			return
		}

		r.mu.Lock()
		exec.Current = i
		r.mu.Unlock()

		start := time.Now()
		outcome, err := r.orch.SendVocabulary(ctx, tok, targetID, def.Record)

		result := TargetResult{
			TargetID: targetID,
			Outcome:  outcome,
			Duration: time.Since(start),
		}
		if err != nil {
			result.Error = err.Error()
		}

		r.mu.Lock()
		exec.Results = append(exec.Results, result)
		// A token the platform rejects will never work for later targets
		// either, so stop the run instead of burning login attempts.
		if err != nil {
			exec.Status = StatusFailed
			exec.Error = err.Error()
			exec.EndTime = time.Now()
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}

	r.mu.Lock()
	exec.Status = StatusCompleted
	exec.EndTime = time.Now()
	r.mu.Unlock()

	logger.InfoCF("broadcast", "Broadcast completed", map[string]any{
		"id":       exec.ID,
		"targets":  len(def.Targets),
		"duration": time.Since(exec.StartTime).String(),
	})
}
