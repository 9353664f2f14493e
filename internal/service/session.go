package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/drag"
	"github.com/constructbms/gantt/internal/hierarchy"
	"github.com/constructbms/gantt/internal/importer"
	"github.com/constructbms/gantt/internal/render"
	"github.com/constructbms/gantt/internal/schedule"
	"github.com/constructbms/gantt/internal/scheduler"
	"github.com/constructbms/gantt/internal/table"
	"github.com/constructbms/gantt/internal/timescale"
	"github.com/constructbms/gantt/internal/validate"
)

// ViewerRole is the one role that may not edit.
const ViewerRole = "viewer"

// ErrReadOnly is returned for edits attempted by a viewer.
var ErrReadOnly = drag.ErrReadOnly

const (
	defaultWidth    = 100
	windowPadDays   = 7
	emptyWindowDays = 30
)

// SessionConfig is the view a session starts with.
type SessionConfig struct {
	ProjectID string
	UserRole  string
	Zoom      int
	Width     float64
	// WindowStart and WindowEnd fix the visible range. When either is zero
	// the range is derived from the loaded tasks plus a week on each side.
	WindowStart time.Time
	WindowEnd   time.Time
	View        render.Options
}

// Callbacks are invoked synchronously on the caller's goroutine, except
// OnPersistError, which runs on the save goroutine.
type Callbacks struct {
	OnTaskSelect   func(taskID string)
	OnTaskUpdate   func(taskID string, patch domain.TaskPatch)
	OnPersistError func(taskID string, err error)
}

// Session is one interactive scheduling view over a project. It owns the
// model, the shared expanded set and the drag controller. Every method
// except Wait must be called from a single goroutine. Edits mutate the
// model first and are saved in the background, in order, without retry.
type Session struct {
	ctx      context.Context
	store    Store
	cfg      SessionConfig
	cb       Callbacks
	observer UseCaseObserver

	model    *schedule.Model
	expanded *hierarchy.ExpandState
	drag     *drag.Controller
	table    *table.View
	analysis scheduler.Analysis

	selected    string
	demo        bool
	loadErr     error
	windowStart time.Time
	windowEnd   time.Time

	saves    sync.WaitGroup
	lastSave chan struct{}
}

// NewSession loads the project from store. If loading fails the error is
// logged through the observer and the embedded demo schedule is shown
// instead; such a session never writes to the store. ctx bounds the
// background saves.
func NewSession(ctx context.Context, store Store, cfg SessionConfig, cb Callbacks, observers ...UseCaseObserver) *Session {
	if cfg.Zoom <= 0 {
		cfg.Zoom = timescale.ZoomWeek
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	s := &Session{
		ctx:      ctx,
		store:    store,
		cfg:      cfg,
		cb:       cb,
		observer: useCaseObserverOrNoop(observers),
		expanded: hierarchy.NewExpandState(),
		drag:     drag.NewController(),
	}
	s.load()
	return s
}

func (s *Session) load() {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": s.cfg.ProjectID}

	tasks, links, err := s.loadFromStore()
	if err != nil {
		s.loadErr = err
		s.demo = true
		tasks, links = demoSchedule()
	}
	fields["task_count"] = len(tasks)
	fields["link_count"] = len(links)
	fields["demo"] = s.demo
	observe(s.ctx, s.observer, "load_project", startedAt, err, fields)

	s.model = schedule.NewModel(tasks, links)
	if s.demo {
		s.model.SetWBS(hierarchy.GenerateWBS(s.model.Tasks()))
	}
	s.analysis = scheduler.Recalculate(s.model)
	s.expanded.ExpandAll(s.model.Tasks())

	if !s.cfg.WindowStart.IsZero() && !s.cfg.WindowEnd.IsZero() {
		s.windowStart, s.windowEnd = s.cfg.WindowStart, s.cfg.WindowEnd
	} else {
		s.windowStart, s.windowEnd = deriveWindow(s.model.Tasks())
	}
}

func (s *Session) loadFromStore() ([]*domain.Task, []*domain.Link, error) {
	if s.store == nil {
		return nil, nil, errors.New("no store configured")
	}
	tasks, err := s.store.LoadTasks(s.ctx, s.cfg.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	links, err := s.store.LoadLinks(s.ctx, s.cfg.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading links: %w", err)
	}
	return tasks, links, nil
}

func demoSchedule() ([]*domain.Task, []*domain.Link) {
	demo, err := importer.Demo()
	if err != nil {
		return nil, nil
	}
	return demo.Tasks, demo.Links
}

// deriveWindow spans the tasks with a week of padding on each side, on
// day boundaries.
func deriveWindow(tasks []*domain.Task) (time.Time, time.Time) {
	if len(tasks) == 0 {
		start := domain.TruncateDay(time.Now().UTC())
		return start, start.AddDate(0, 0, emptyWindowDays)
	}
	start, end := tasks[0].StartDate, tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.StartDate.Before(start) {
			start = t.StartDate
		}
		if t.EndDate.After(end) {
			end = t.EndDate
		}
	}
	start = domain.TruncateDay(start).AddDate(0, 0, -windowPadDays)
	end = domain.TruncateDay(end).AddDate(0, 0, windowPadDays+1)
	return start, end
}

// IsDemo reports whether the session fell back to the demo schedule.
func (s *Session) IsDemo() bool { return s.demo }

// LoadError is the error that caused the demo fallback, if any.
func (s *Session) LoadError() error { return s.loadErr }

// CanEdit reports whether the configured role may change the schedule.
func (s *Session) CanEdit() bool { return s.cfg.UserRole != ViewerRole }

func (s *Session) ProjectID() string { return s.cfg.ProjectID }

// Context is the context the session was opened with.
func (s *Session) Context() context.Context { return s.ctx }

// Model returns the live model. Structural edits made through it bypass
// validation, callbacks and persistence.
func (s *Session) Model() *schedule.Model { return s.model }

func (s *Session) Expanded() *hierarchy.ExpandState { return s.expanded }

func (s *Session) Analysis() scheduler.Analysis { return s.analysis }

func (s *Session) Selected() string { return s.selected }

func (s *Session) DragState() drag.State { return s.drag.State() }

// Rows returns the visible tree rows.
func (s *Session) Rows() []hierarchy.Row {
	return hierarchy.Flatten(s.model.Tasks(), s.expanded)
}

// Select marks a task as selected and reports it.
func (s *Session) Select(taskID string) {
	s.selected = taskID
	if s.cb.OnTaskSelect != nil {
		s.cb.OnTaskSelect(taskID)
	}
}

// Toggle expands or collapses a task in the set shared by chart and table.
func (s *Session) Toggle(taskID string) bool {
	return s.expanded.Toggle(taskID)
}

// UpdateTask validates patch against the task, applies it to the model,
// recalculates float and critical path, notifies OnTaskUpdate and saves in
// the background. A rejected patch leaves the model untouched.
func (s *Session) UpdateTask(taskID string, patch domain.TaskPatch) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID, "fields": len(patch.Fields())}
	defer func() { observe(s.ctx, s.observer, "update_task", startedAt, err, fields) }()

	if !s.CanEdit() {
		return ErrReadOnly
	}
	task, ok := s.model.Task(taskID)
	if !ok {
		return fmt.Errorf("updating %s: %w", taskID, schedule.ErrTaskNotFound)
	}
	if patch.IsEmpty() {
		return nil
	}
	if err := validate.ValidatePatch(task, patch); err != nil {
		return err
	}
	if err := s.apply(taskID, patch); err != nil {
		return err
	}
	s.persist(taskID, patch)
	return nil
}

func (s *Session) apply(taskID string, patch domain.TaskPatch) error {
	if _, err := s.model.ApplyPatch(taskID, patch); err != nil {
		return err
	}
	s.analysis = scheduler.Recalculate(s.model)
	if s.cb.OnTaskUpdate != nil {
		s.cb.OnTaskUpdate(taskID, patch)
	}
	return nil
}

// persist saves one patch after every earlier save has finished.
func (s *Session) persist(taskID string, patch domain.TaskPatch) {
	if s.demo {
		return
	}
	prev := s.lastSave
	done := make(chan struct{})
	s.lastSave = done
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		startedAt := time.Now().UTC()
		err := s.store.UpdateTask(s.ctx, taskID, patch)
		observe(s.ctx, s.observer, "persist_task", startedAt, err, map[string]any{"task_id": taskID})
		if err != nil && s.cb.OnPersistError != nil {
			s.cb.OnPersistError(taskID, err)
		}
	}()
}

// Wait blocks until every background save has finished.
func (s *Session) Wait() {
	s.saves.Wait()
}

// Table returns the table view over this session's model. Accepted cell
// edits go through UpdateTask.
func (s *Session) Table() *table.View {
	if s.table == nil {
		s.table = table.New(s.model, s.expanded, s.UpdateTask)
	}
	return s.table
}

// Handle applies one event reported by the rendering surface.
//
// Every drag move that changes the dates takes the same path as UpdateTask:
// the model is updated, OnTaskUpdate fires and the dates are saved in the
// background. Ending a drag only returns the controller to idle.
func (s *Session) Handle(ev render.Event) error {
	switch e := ev.(type) {
	case render.SelectEvent:
		s.Select(e.TaskID)
	case render.ToggleEvent:
		s.Toggle(e.TaskID)
	case render.DragStartEvent:
		return s.beginDrag(e)
	case render.DragMoveEvent:
		return s.moveDrag(e.X)
	case render.DragEndEvent:
		s.EndDrag()
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}
	return nil
}

func (s *Session) beginDrag(e render.DragStartEvent) error {
	mode, ok := e.Hit.DragMode()
	if !ok {
		return nil
	}
	task, ok := s.model.Task(e.TaskID)
	if !ok {
		return fmt.Errorf("drag %s: %w", e.TaskID, schedule.ErrTaskNotFound)
	}
	s.Select(e.TaskID)
	return s.drag.Begin(task, mode, e.X, s.CanEdit())
}

func (s *Session) moveDrag(x float64) error {
	p, err := s.drag.Move(x, s.Mapper())
	if err != nil {
		return err
	}
	task, ok := s.model.Task(p.TaskID)
	if !ok {
		return fmt.Errorf("drag %s: %w", p.TaskID, schedule.ErrTaskNotFound)
	}
	if task.StartDate.Equal(p.Start) && task.EndDate.Equal(p.End) {
		return nil
	}
	patch := p.Patch()
	if err := validate.ValidatePatch(task, patch); err != nil {
		return err
	}
	if err := s.apply(p.TaskID, patch); err != nil {
		return err
	}
	s.persist(p.TaskID, patch)
	return nil
}

// EndDrag returns an active drag to idle. It is a no-op when idle, so a
// surface that loses the pointer release can call it unconditionally.
func (s *Session) EndDrag() {
	if s.drag.Dragging() {
		s.drag.End()
	}
}

// Mapper returns the scale for the current window, width and zoom.
func (s *Session) Mapper() timescale.Mapper {
	return timescale.New(s.windowStart, s.windowEnd, s.cfg.Width, s.cfg.Zoom)
}

// Frame lays out the chart for the current state.
func (s *Session) Frame() render.Frame {
	return render.BuildFrame(render.Input{
		Tasks:    s.model.Tasks(),
		Links:    s.model.Links(),
		Expanded: s.expanded,
		Mapper:   s.Mapper(),
		Options:  s.cfg.View,
	})
}

func (s *Session) Options() render.Options { return s.cfg.View }

func (s *Session) SetOptions(o render.Options) { s.cfg.View = o }

func (s *Session) Zoom() int { return s.cfg.Zoom }

// SetZoom changes the zoom level. Non-positive values are ignored.
func (s *Session) SetZoom(zoom int) {
	if zoom > 0 {
		s.cfg.Zoom = zoom
	}
}

func (s *Session) Width() float64 { return s.cfg.Width }

// SetWidth changes the chart width in pixels. Non-positive values are ignored.
func (s *Session) SetWidth(width float64) {
	if width > 0 {
		s.cfg.Width = width
	}
}

func (s *Session) Window() (time.Time, time.Time) { return s.windowStart, s.windowEnd }

// SetWindow fixes the visible date range.
func (s *Session) SetWindow(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("window end %s must be after start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	s.windowStart, s.windowEnd = start, end
	return nil
}

// RenumberWBS regenerates WBS numbers over the full tree, writes them to the
// model and saves them in one transaction. OnTaskUpdate fires for each
// task whose number changed.
func (s *Session) RenumberWBS(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": s.cfg.ProjectID}
	defer func() { observe(ctx, s.observer, "save_wbs", startedAt, err, fields) }()

	if !s.CanEdit() {
		return ErrReadOnly
	}
	before := make(map[string]string, s.model.Len())
	for _, t := range s.model.Tasks() {
		before[t.ID] = t.WBSNumber
	}
	numbers := hierarchy.GenerateWBS(s.model.Tasks())
	s.model.SetWBS(numbers)

	changed := 0
	for _, t := range s.model.Tasks() {
		if before[t.ID] == t.WBSNumber {
			continue
		}
		changed++
		if s.cb.OnTaskUpdate != nil {
			wbs := t.WBSNumber
			s.cb.OnTaskUpdate(t.ID, domain.TaskPatch{WBSNumber: &wbs})
		}
	}
	fields["changed"] = changed

	if s.demo {
		return nil
	}
	s.Wait()
	return s.store.SaveWBSNumbering(ctx, s.model.Tasks())
}

// BatchUpdate validates and applies each update against the model in
// order, then saves the accepted ones together. A rejected or failed entry
// is reported without stopping the rest.
func (s *Session) BatchUpdate(ctx context.Context, updates []domain.TaskUpdate) (res domain.BatchResult) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"requested": len(updates)}
	defer func() {
		fields["updated"] = len(res.Updated)
		fields["failed"] = len(res.Failures)
		var err error
		if !res.OK() {
			err = fmt.Errorf("%d of %d updates failed", len(res.Failures), len(updates))
		}
		observe(ctx, s.observer, "batch_update", startedAt, err, fields)
	}()

	var accepted []domain.TaskUpdate
	for _, u := range updates {
		if !s.CanEdit() {
			res.Fail(u.TaskID, ErrReadOnly)
			continue
		}
		task, ok := s.model.Task(u.TaskID)
		if !ok {
			res.Fail(u.TaskID, fmt.Errorf("updating %s: %w", u.TaskID, schedule.ErrTaskNotFound))
			continue
		}
		if err := validate.ValidatePatch(task, u.Patch); err != nil {
			res.Fail(u.TaskID, err)
			continue
		}
		if _, err := s.model.ApplyPatch(u.TaskID, u.Patch); err != nil {
			res.Fail(u.TaskID, err)
			continue
		}
		accepted = append(accepted, u)
	}
	if len(accepted) == 0 {
		return res
	}

	s.analysis = scheduler.Recalculate(s.model)
	if s.cb.OnTaskUpdate != nil {
		for _, u := range accepted {
			s.cb.OnTaskUpdate(u.TaskID, u.Patch)
		}
	}

	if s.demo {
		for _, u := range accepted {
			res.Updated = append(res.Updated, u.TaskID)
		}
		return res
	}

	s.Wait()
	stored := s.store.BatchUpdateTasks(ctx, accepted)
	res.Updated = append(res.Updated, stored.Updated...)
	res.Failures = append(res.Failures, stored.Failures...)
	if s.cb.OnPersistError != nil {
		for _, f := range stored.Failures {
			s.cb.OnPersistError(f.TaskID, errors.New(f.Err))
		}
	}
	return res
}
