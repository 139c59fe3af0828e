// Package task implements the concurrent request-dispatch layer that
// fronts the packing core: each incoming pack request gets a unique id,
// a status record in a process-wide map, and runs on its own worker
// goroutine with no shared mutable state between tasks. The map is the
// only shared resource, guarded by a single mutex; records are never
// evicted automatically, only removed by an explicit delete.
package task

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/palletpack/internal/engine"
	"github.com/piwi3910/palletpack/internal/model"
	"github.com/piwi3910/palletpack/internal/report"
)

// Status is one of the four states a task moves through. Transitions
// only ever move forward: pending -> processing -> {completed, failed}.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request is the packing job a worker runs: a pallet, its candidate
// boxes, and the variant/options to pack them with.
type Request struct {
	Pallet  model.Pallet
	Boxes   []model.Box
	Variant engine.Variant
	Options engine.Options
}

// Record is the task's status entry, returned by status/result queries.
// Result and Report are only populated once Status is StatusCompleted.
type Record struct {
	ID          string
	Status      Status
	CreatedAt   time.Time
	CompletedAt time.Time
	Error       string

	Result engine.Result
	Report report.Report
}

// snapshot returns a value copy safe to hand to a caller outside the lock.
func (r Record) snapshot() Record { return r }

// Dispatcher owns the task-id -> Record map and runs each submitted
// Request on its own goroutine. The zero value is not usable; use New.
type Dispatcher struct {
	mu      sync.Mutex
	records map[string]*Record
	log     *slog.Logger
}

// New builds an empty Dispatcher.
func New(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		records: make(map[string]*Record),
		log:     log,
	}
}

// Submit registers req under a new task id, starts its worker goroutine,
// and returns immediately with the pending record.
func (d *Dispatcher) Submit(req Request) Record {
	id := uuid.New().String()[:8]
	rec := &Record{
		ID:        id,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	d.mu.Lock()
	d.records[id] = rec
	snap := rec.snapshot()
	d.mu.Unlock()

	go d.run(id, req)

	return snap
}

// run executes one packing task in isolation: it builds a fresh Packer,
// owns it for the run's duration, and never touches another task's state.
func (d *Dispatcher) run(id string, req Request) {
	d.setStatus(id, StatusProcessing)

	packer, err := engine.NewPacker(req.Variant, req.Options)
	if err != nil {
		d.fail(id, err)
		return
	}

	packer.SetPallet(req.Pallet.Width, req.Pallet.Depth, req.Pallet.Height, req.Pallet.MaxWeight)
	for _, b := range req.Boxes {
		packer.AddBox(b.ID, b.Length, b.Width, b.Height, b.Weight)
	}

	result := packer.Pack()
	rep := report.Build(result)

	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[id]
	if !ok {
		return
	}
	rec.Status = StatusCompleted
	rec.CompletedAt = time.Now()
	rec.Result = result
	rec.Report = rep
	d.log.Info("task completed", "task_id", id, "placed", len(result.Placed), "unplaced", len(result.Unplaced))
}

func (d *Dispatcher) setStatus(id string, status Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.records[id]; ok {
		rec.Status = status
	}
}

func (d *Dispatcher) fail(id string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.records[id]; ok {
		rec.Status = StatusFailed
		rec.CompletedAt = time.Now()
		rec.Error = err.Error()
	}
	d.log.Error("task failed", "task_id", id, "error", err)
}

// Status returns a copy of the task's current record and whether it exists.
func (d *Dispatcher) Status(id string) (Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[id]
	if !ok {
		return Record{}, false
	}
	return rec.snapshot(), true
}

// Delete removes a task record. Deletion is the dispatcher's only
// eviction mechanism; records otherwise live in the map forever.
func (d *Dispatcher) Delete(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.records[id]; !ok {
		return false
	}
	delete(d.records, id)
	return true
}
