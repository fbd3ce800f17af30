// Command schedule-checker lints a schedule dump offline: it hydrates the
// scheduling grid from a JSON export of placed sessions and reports every
// same-track overlap, exiting non-zero when the schedule is inconsistent.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/opencfp/schedule-engine/internal/models"
	"github.com/opencfp/schedule-engine/internal/schedule"
	"github.com/opencfp/schedule-engine/internal/timeslot"
	"github.com/opencfp/schedule-engine/pkg/config"
	"github.com/opencfp/schedule-engine/pkg/logger"
)

type scheduleDump struct {
	Event    models.Event     `json:"event"`
	Sessions []models.Session `json:"sessions"`
}

func main() {
	input := flag.String("input", "", "path to a schedule dump (JSON)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if *input == "" {
		logr.Fatal("missing -input path")
	}

	dump, err := readDump(*input)
	if err != nil {
		logr.Fatal("failed to read schedule dump", zap.Error(err))
	}

	conflicts := lint(dump.Sessions)
	logr.Info("schedule checked",
		zap.String("event_id", dump.Event.ID),
		zap.Int("sessions", len(dump.Sessions)),
		zap.Int("conflicts", len(conflicts)),
	)
	for _, conflict := range conflicts {
		logr.Warn("overlapping sessions",
			zap.String("track_id", conflict.TrackID),
			zap.String("session_id", conflict.SessionID),
			zap.Strings("conflicts_with", conflict.With),
		)
	}
	warn(logr, dump.Sessions, cfg.Scheduler)
	if len(conflicts) > 0 {
		os.Exit(1)
	}
}

// warn flags sessions that are consistent but awkward: slots not aligned to
// the configured granularity, or slots falling outside the displayed
// minute-of-day window. These do not fail the check.
func warn(logr *zap.Logger, sessions []models.Session, cfg config.SchedulerConfig) {
	for _, session := range sessions {
		slot, err := timeslot.New(session.StartsAt, session.EndsAt)
		if err != nil {
			continue
		}
		whole := time.Duration(slot.DurationInSlots(cfg.Granularity)) * cfg.Granularity
		if whole != slot.Duration() {
			logr.Warn("session is not aligned to the slot granularity",
				zap.String("session_id", session.ID),
				zap.Duration("duration", slot.Duration()),
				zap.Duration("granularity", cfg.Granularity),
			)
		}
		if outsideDisplayWindow(slot, cfg) {
			logr.Warn("session falls outside the displayed minute window",
				zap.String("session_id", session.ID),
				zap.Int("display_start_minute", cfg.DisplayStartMinute),
				zap.Int("display_end_minute", cfg.DisplayEndMinute),
			)
		}
	}
}

// outsideDisplayWindow reports whether the slot leaves the configured
// minute-of-day window. The slot end is exclusive, so the check looks at the
// last minute the session occupies: a session running to midnight is judged
// by minute 1439, not by minute zero of the next day.
func outsideDisplayWindow(slot timeslot.TimeSlot, cfg config.SchedulerConfig) bool {
	startMinute := minuteOfDay(slot.Start())
	endMinute := minuteOfDay(slot.End().Add(-time.Minute)) + 1
	return startMinute < cfg.DisplayStartMinute || endMinute > cfg.DisplayEndMinute+1
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

type lintFinding struct {
	TrackID   string
	SessionID string
	With      []string
}

// lint places every session in order, collecting overlap rejections instead
// of stopping at the first one so a dump with several double-bookings reports
// them all in one pass.
func lint(sessions []models.Session) []lintFinding {
	ordered := make([]models.Session, len(sessions))
	copy(ordered, sessions)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartsAt.Equal(ordered[j].StartsAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].StartsAt.Before(ordered[j].StartsAt)
	})

	grid := schedule.NewGrid()
	var findings []lintFinding
	for _, session := range ordered {
		slot, err := timeslot.New(session.StartsAt, session.EndsAt)
		if err != nil {
			findings = append(findings, lintFinding{TrackID: session.TrackID, SessionID: session.ID})
			continue
		}
		err = grid.PlaceSessionRecord(session, slot)
		if err == nil {
			continue
		}
		var conflictErr *models.SessionConflictError
		if errors.As(err, &conflictErr) {
			findings = append(findings, lintFinding{
				TrackID:   session.TrackID,
				SessionID: session.ID,
				With:      conflictErr.ConflictIDs(),
			})
			continue
		}
		findings = append(findings, lintFinding{TrackID: session.TrackID, SessionID: session.ID})
	}
	return findings
}

func readDump(path string) (*scheduleDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dump := &scheduleDump{}
	if err := json.Unmarshal(data, dump); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return dump, nil
}
