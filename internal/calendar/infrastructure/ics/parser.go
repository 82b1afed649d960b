// Package ics turns iCalendar data into busy blocks. Recurring events are
// expanded inside the requested range.
package ics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
)

const (
	// maxOccurrences bounds the blocks one recurring event expands to.
	maxOccurrences = 1000
	// maxScanned bounds the occurrences generated while walking a rule,
	// including those before the range.
	maxScanned = 100 * maxOccurrences
)

// Parser converts VEVENTs into domain events.
type Parser struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, now: time.Now}
}

// Parse decodes every calendar in r and returns the blocks intersecting
// [from, to). Floating and all-day times are read in loc. Cancelled and
// transparent events do not block time.
func (p *Parser) Parse(r io.Reader, userID uuid.UUID, source domain.Source, from, to time.Time, loc *time.Location) ([]*domain.Event, error) {
	if loc == nil {
		loc = time.UTC
	}
	events := make([]*domain.Event, 0)
	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}
		events = append(events, p.Blocks(cal, userID, source, from, to, loc)...)
	}
	return events, nil
}

// Blocks converts an already decoded calendar, as returned by a CalDAV
// query.
func (p *Parser) Blocks(cal *ical.Calendar, userID uuid.UUID, source domain.Source, from, to time.Time, loc *time.Location) []*domain.Event {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]*domain.Event, 0)
	for _, ev := range cal.Events() {
		blocks, err := p.blocks(ev, userID, source, from, to, loc)
		if err != nil {
			p.logger.Debug("skipping calendar event", "error", err)
			continue
		}
		out = append(out, blocks...)
	}
	return out
}

func (p *Parser) blocks(ev ical.Event, userID uuid.UUID, source domain.Source, from, to time.Time, loc *time.Location) ([]*domain.Event, error) {
	if !blocksTime(ev) {
		return nil, nil
	}
	uid, err := ev.Props.Text(ical.PropUID)
	if err != nil || strings.TrimSpace(uid) == "" {
		return nil, fmt.Errorf("event without UID")
	}
	title, _ := ev.Props.Text(ical.PropSummary)

	start, err := ev.DateTimeStart(loc)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", uid, err)
	}
	end, err := ev.DateTimeEnd(loc)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", uid, err)
	}
	if end.IsZero() {
		end = start
	}
	length := end.Sub(start)
	if length <= 0 {
		return nil, fmt.Errorf("event %s has no duration", uid)
	}

	set, err := ev.RecurrenceSet(loc)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", uid, err)
	}
	now := p.now()
	if set == nil {
		if !(start.Before(to) && end.After(from)) {
			return nil, nil
		}
		e, err := domain.NewEvent(userID, uid, source, title, start, end, now)
		if err != nil {
			return nil, err
		}
		return []*domain.Event{e}, nil
	}

	// Occurrences come in ascending order, so the walk stops at to.
	next := set.Iterator()
	out := make([]*domain.Event, 0)
	for scanned := 0; ; scanned++ {
		if len(out) == maxOccurrences || scanned == maxScanned {
			p.logger.Warn("recurring event truncated", "uid", uid, "blocks", len(out), "scanned", scanned)
			break
		}
		occ, ok := next()
		if !ok || !occ.Before(to) {
			break
		}
		occEnd := occ.Add(length)
		if !occEnd.After(from) {
			continue
		}
		id := uid + "/" + occ.UTC().Format("20060102T150405Z")
		e, err := domain.NewEvent(userID, id, source, title, occ, occEnd, now)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func blocksTime(ev ical.Event) bool {
	if status, err := ev.Props.Text(ical.PropStatus); err == nil && strings.EqualFold(status, "CANCELLED") {
		return false
	}
	if transp, err := ev.Props.Text(ical.PropTransparency); err == nil && strings.EqualFold(transp, "TRANSPARENT") {
		return false
	}
	return true
}
