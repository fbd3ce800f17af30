package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencfp/schedule-engine/internal/dto"
	"github.com/opencfp/schedule-engine/internal/models"
	"github.com/opencfp/schedule-engine/internal/schedule"
	"github.com/opencfp/schedule-engine/internal/timeslot"
	appErrors "github.com/opencfp/schedule-engine/pkg/errors"
)

type eventReader interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

type trackReader interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.Track, error)
}

type sessionReader interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.Session, error)
}

// ScheduleServiceConfig governs engine behaviour.
type ScheduleServiceConfig struct {
	Granularity    time.Duration
	LookaheadSlots int
	DraftTTL       time.Duration
}

// ScheduleService validates schedule edits against a grid hydrated from the
// persistence collaborator and builds the read model for the rendering
// collaborator. It never persists anything itself: every edit is returned as
// a validated result for the caller to commit atomically.
type ScheduleService struct {
	events    eventReader
	tracks    trackReader
	sessions  sessionReader
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	drafts    *draftStore
	cfg       ScheduleServiceConfig
}

// NewScheduleService wires the scheduling dependencies.
func NewScheduleService(
	events eventReader,
	tracks trackReader,
	sessions sessionReader,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg ScheduleServiceConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Granularity <= 0 {
		cfg.Granularity = 30 * time.Minute
	}
	if cfg.LookaheadSlots <= 0 {
		cfg.LookaheadSlots = timeslot.DefaultLookaheadSlots
	}
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 30 * time.Minute
	}
	return &ScheduleService{
		events:    events,
		tracks:    tracks,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		drafts:    newDraftStore(cfg.DraftTTL),
		cfg:       cfg,
	}
}

// PlaceSession validates placing a talk on a track. On success the returned
// session (with a minted id when the request carried none) is what the caller
// should persist.
func (s *ScheduleService) PlaceSession(ctx context.Context, req dto.PlaceSessionRequest) (*dto.PlacementResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid place session payload")
	}
	event, err := s.loadEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	slot, err := timeslot.New(req.StartsAt, req.EndsAt)
	if err != nil {
		s.metrics.ObserveEdit("place", "invalid")
		return nil, err
	}
	if err := s.ensureWithinEvent(event, slot); err != nil {
		s.metrics.ObserveEdit("place", "invalid")
		return nil, err
	}

	grid, err := s.hydrate(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	record := models.Session{
		ID:       req.SessionID,
		TrackID:  req.TrackID,
		TalkID:   req.TalkID,
		StartsAt: slot.Start(),
		EndsAt:   slot.End(),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	if err := grid.PlaceSessionRecord(record, slot); err != nil {
		s.recordEditFailure("place", err)
		return nil, err
	}

	s.metrics.ObserveEdit("place", "ok")
	s.logger.Info("session placed",
		zap.String("event_id", req.EventID),
		zap.String("track_id", req.TrackID),
		zap.String("session_id", record.ID),
		zap.Time("starts_at", slot.Start()),
		zap.Time("ends_at", slot.End()),
	)
	return &dto.PlacementResult{Session: record}, nil
}

// MoveSession validates a slot change for an existing session. On success the
// change is kept as a pending draft so read-side views can preview it until
// the caller confirms or discards the edit.
func (s *ScheduleService) MoveSession(ctx context.Context, req dto.MoveSessionRequest) (*dto.PlacementResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move session payload")
	}
	event, err := s.loadEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	slot, err := timeslot.New(req.StartsAt, req.EndsAt)
	if err != nil {
		s.metrics.ObserveEdit("move", "invalid")
		return nil, err
	}
	if err := s.ensureWithinEvent(event, slot); err != nil {
		s.metrics.ObserveEdit("move", "invalid")
		return nil, err
	}

	grid, err := s.hydrate(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if err := grid.MoveSession(req.SessionID, slot); err != nil {
		s.recordEditFailure("move", err)
		return nil, err
	}

	moved, _ := grid.Session(req.SessionID)
	s.drafts.Save(schedule.PendingChange{
		SessionID:   req.SessionID,
		Slot:        slot,
		RequestedAt: time.Now().UTC(),
	})

	s.metrics.ObserveEdit("move", "ok")
	s.logger.Info("session move validated",
		zap.String("event_id", req.EventID),
		zap.String("session_id", req.SessionID),
		zap.Time("starts_at", slot.Start()),
		zap.Time("ends_at", slot.End()),
	)
	return &dto.PlacementResult{Session: moved, Pending: true}, nil
}

// ConfirmMove clears the pending draft once the caller has committed it.
func (s *ScheduleService) ConfirmMove(sessionID string) {
	s.drafts.Delete(sessionID)
}

// DiscardMove drops an uncommitted draft.
func (s *ScheduleService) DiscardMove(sessionID string) {
	s.drafts.Delete(sessionID)
}

// RemoveSession validates unscheduling a session. Removing an id the grid
// does not know fails with not-found so stale references surface.
func (s *ScheduleService) RemoveSession(ctx context.Context, req dto.RemoveSessionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid remove session payload")
	}
	if _, err := s.loadEvent(ctx, req.EventID); err != nil {
		return err
	}
	grid, err := s.hydrate(ctx, req.EventID)
	if err != nil {
		return err
	}
	if err := grid.RemoveSession(req.SessionID); err != nil {
		s.recordEditFailure("remove", err)
		return err
	}
	s.drafts.Delete(req.SessionID)
	s.metrics.ObserveEdit("remove", "ok")
	s.logger.Info("session removed",
		zap.String("event_id", req.EventID),
		zap.String("session_id", req.SessionID),
	)
	return nil
}

// ScheduleView builds the read model for the displayed day range: candidate
// slots clipped to the event's minute window plus per-track sessions with any
// pending drafts overlaid.
func (s *ScheduleService) ScheduleView(ctx context.Context, req dto.DayViewRequest) (*dto.ScheduleView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day view payload")
	}
	event, err := s.loadEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(event.Timezone)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("unknown event timezone %q", event.Timezone))
	}

	allDays := schedule.ScheduleDays(event.StartDate, event.EndDate, loc)
	if len(allDays) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "event has no schedulable days")
	}
	displayed, err := schedule.DisplayedDays(allDays, schedule.DayRange{Start: req.DayStart, End: req.DayEnd})
	if err != nil {
		return nil, err
	}

	window, err := displayWindow(event, allDays, displayed)
	if err != nil {
		return nil, err
	}
	startMinute, endMinute := window.MinuteWindow()
	granularity := req.Granularity
	if granularity <= 0 {
		granularity = s.cfg.Granularity
	}

	grid, err := s.hydrate(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	tracks, err := s.tracks.ListByEvent(ctx, req.EventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tracks")
	}

	view := &dto.ScheduleView{
		EventID:      req.EventID,
		StartMinute:  startMinute,
		EndMinute:    endMinute,
		TotalDays:    len(allDays),
		PendingEdits: s.drafts.Len(),
	}

	for _, day := range displayed {
		dayEnd := day.AddDate(0, 0, 1)
		winStart := day.Add(time.Duration(startMinute) * time.Minute)
		winEnd := day.Add(time.Duration(endMinute+1) * time.Minute)
		if winEnd.After(dayEnd) {
			winEnd = dayEnd
		}

		dayView := dto.DayView{
			Day:   day,
			Slots: timeslot.FilterWithinRange(timeslot.DailySlots(day, granularity), winStart, winEnd, req.IncludeBoundarySlot),
		}

		daySlot, slotErr := timeslot.New(day, dayEnd)
		if slotErr != nil {
			return nil, slotErr
		}
		for _, track := range tracks {
			trackView := dto.TrackView{Track: track}
			for _, session := range grid.SessionsOverlapping(daySlot, track.ID) {
				confirmedSlot, _ := grid.SessionSlot(session.ID)
				var pending *schedule.PendingChange
				if draft, ok := s.drafts.Get(session.ID); ok {
					pending = &draft
				}
				trackView.Sessions = append(trackView.Sessions, schedule.MergePending(session, confirmedSlot, pending))
			}
			trackView.Blocks = schedule.GroupIntoBlocks(trackView.Sessions, granularity, s.cfg.LookaheadSlots)
			dayView.Tracks = append(dayView.Tracks, trackView)
		}
		view.Days = append(view.Days, dayView)
	}
	return view, nil
}

// SessionsOverlapping answers the stacking query for a single track.
func (s *ScheduleService) SessionsOverlapping(ctx context.Context, eventID, trackID string, start, end time.Time) ([]models.Session, error) {
	slot, err := timeslot.New(start, end)
	if err != nil {
		return nil, err
	}
	grid, err := s.hydrate(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return grid.SessionsOverlapping(slot, trackID), nil
}

func (s *ScheduleService) loadEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if event == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("event %s not found", eventID))
	}
	return event, nil
}

// hydrate builds a fresh grid from a consistent read of the stored sessions.
func (s *ScheduleService) hydrate(ctx context.Context, eventID string) (*schedule.Grid, error) {
	started := time.Now()
	records, err := s.sessions.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	grid, err := schedule.Hydrate(records)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveHydration(grid.Len(), time.Since(started))
	return grid, nil
}

// ensureWithinEvent rejects slots outside the event's schedulable span. The
// span runs from local midnight of the first day to the end of the last day,
// so boundary sessions on the opening and closing days stay placeable.
func (s *ScheduleService) ensureWithinEvent(event *models.Event, slot timeslot.TimeSlot) error {
	loc := slot.Start().Location()
	if event.Timezone != "" {
		if eventLoc, err := time.LoadLocation(event.Timezone); err == nil {
			loc = eventLoc
		}
	}
	days := schedule.ScheduleDays(event.StartDate, event.EndDate, loc)
	if len(days) == 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "event has no schedulable days")
	}
	spanEnd := days[len(days)-1].AddDate(0, 0, 1)
	span, err := timeslot.New(days[0], spanEnd)
	if err != nil {
		return err
	}
	if !timeslot.Contains(&span, slot) {
		return appErrors.Clone(appErrors.ErrPreconditionFailed,
			fmt.Sprintf("slot %s lies outside the event span %s", slot, span))
	}
	return nil
}

func (s *ScheduleService) recordEditFailure(operation string, err error) {
	if appErrors.HasCode(err, appErrors.ErrOverlap) {
		s.metrics.ObserveEdit(operation, "conflict")
		s.metrics.ObserveOverlapConflict()
		return
	}
	if appErrors.HasCode(err, appErrors.ErrNotFound) {
		s.metrics.ObserveEdit(operation, "not_found")
		return
	}
	s.metrics.ObserveEdit(operation, "error")
}

// displayWindow builds the validated render window from the event's minute
// bounds and the displayed day range. An event carrying no bounds at all
// renders the full day; configured bounds that break the window invariants
// fail validation rather than being corrected.
func displayWindow(event *models.Event, allDays, displayed []time.Time) (schedule.Window, error) {
	startMinute, endMinute := event.DisplayStartMinute, event.DisplayEndMinute
	if startMinute == 0 && endMinute == 0 {
		endMinute = lastDisplayMinute
	}
	eventEnd := allDays[len(allDays)-1].AddDate(0, 0, 1)
	displayEnd := displayed[len(displayed)-1].AddDate(0, 0, 1)
	return schedule.NewWindow(allDays[0], eventEnd, displayed[0], displayEnd, startMinute, endMinute)
}

const lastDisplayMinute = 1439
