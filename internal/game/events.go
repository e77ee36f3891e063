package game

import (
	"log"
	"math/rand"
	"runtime/debug"
	"sync"
	"time"
)

// EventScheduler runs the three recurring global events. Each event cycles
// Dormant -> Active -> Dormant independently; nothing stops two events being
// live at once.
//
// Instead of polling on a short ticker, the scheduler sleeps until the
// earliest pending transition and recomputes all event states from their
// timestamps when it wakes. A late or spurious wake changes nothing, the
// transition logic only looks at the clock.
type EventScheduler struct {
	mu     sync.RWMutex
	events map[EventType]*TimedEvent
	rng    *rand.Rand
	now    func() time.Time
}

var eventDescriptions = map[EventType]string{
	EventGoldRush:      "Gold pixels are worth double territory points!",
	EventPixelStorm:    "Cooldown reduced by 50% for all players!",
	EventTerritoryWars: "Selected areas are worth triple territory points!",
}

func NewEventScheduler(now func() time.Time, rng *rand.Rand) *EventScheduler {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &EventScheduler{
		events: make(map[EventType]*TimedEvent),
		rng:    rng,
		now:    now,
	}
	start := now()
	for _, typ := range []EventType{EventGoldRush, EventPixelStorm, EventTerritoryWars} {
		s.events[typ] = &TimedEvent{
			Type:           typ,
			Active:         false,
			NextOccurrence: start.Add(s.randomInterval()),
			Description:    eventDescriptions[typ],
		}
	}
	return s
}

func (s *EventScheduler) randomInterval() time.Duration {
	return MinEventInterval + time.Duration(s.rng.Int63n(int64(MaxEventInterval-MinEventInterval)))
}

// randomAreas picks 1-3 10x10 zones for territory wars, corners sampled so
// the whole area stays on the grid.
func (s *EventScheduler) randomAreas() []Rect {
	const areaSize = 10
	n := 1 + s.rng.Intn(3)
	areas := make([]Rect, 0, n)
	for i := 0; i < n; i++ {
		areas = append(areas, Rect{
			X:      s.rng.Intn(GridWidth - areaSize + 1),
			Y:      s.rng.Intn(GridHeight - areaSize + 1),
			Width:  areaSize,
			Height: areaSize,
		})
	}
	return areas
}

// Advance applies every transition due at or before now. Returns true when
// any event changed state.
func (s *EventScheduler) Advance(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, ev := range s.events {
		if ev.Active && now.After(ev.EndTime) {
			ev.Active = false
			ev.StartTime = time.Time{}
			ev.EndTime = time.Time{}
			ev.NextOccurrence = now.Add(s.randomInterval())
			ev.AffectedAreas = nil
			changed = true
			log.Printf("event %s ended, next in %v", ev.Type, time.Until(ev.NextOccurrence).Round(time.Second))
			continue
		}
		if !ev.Active && now.After(ev.NextOccurrence) {
			ev.Active = true
			ev.StartTime = now
			ev.EndTime = now.Add(EventDuration)
			ev.NextOccurrence = time.Time{}
			if ev.Type == EventTerritoryWars {
				ev.AffectedAreas = s.randomAreas()
			}
			changed = true
			log.Printf("event %s active until %v", ev.Type, ev.EndTime.Format(time.TimeOnly))
		}
	}
	return changed
}

// NextDeadline is the earliest instant any event needs attention.
func (s *EventScheduler) NextDeadline() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var next time.Time
	for _, ev := range s.events {
		var d time.Time
		if ev.Active {
			d = ev.EndTime
		} else {
			d = ev.NextOccurrence
		}
		if next.IsZero() || d.Before(next) {
			next = d
		}
	}
	return next
}

// Run drives transitions until stop closes, calling onChange after every
// state change. Meant to run as a single goroutine; it is the only writer of
// event state.
func (s *EventScheduler) Run(stop <-chan struct{}, onChange func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in event scheduler: %v\nStack trace:\n%s", r, debug.Stack())
		}
	}()

	for {
		wait := time.Until(s.NextDeadline())
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			if s.Advance(s.now()) && onChange != nil {
				onChange()
			}
		}
	}
}

func (s *EventScheduler) IsActive(typ EventType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[typ]
	return ok && ev.Active
}

// ActiveAreas returns the live territory wars zones, nil when the event is
// dormant.
func (s *EventScheduler) ActiveAreas() []Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[EventTerritoryWars]
	if !ok || !ev.Active {
		return nil
	}
	areas := make([]Rect, len(ev.AffectedAreas))
	copy(areas, ev.AffectedAreas)
	return areas
}

// Events returns a snapshot of all event states for broadcasting.
func (s *EventScheduler) Events() []TimedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TimedEvent, 0, len(s.events))
	for _, typ := range []EventType{EventGoldRush, EventPixelStorm, EventTerritoryWars} {
		ev := s.events[typ]
		cp := *ev
		cp.AffectedAreas = append([]Rect(nil), ev.AffectedAreas...)
		out = append(out, cp)
	}
	return out
}

// forceActive is a test hook: activates an event as if its occurrence just
// fired.
func (s *EventScheduler) forceActive(typ EventType, now time.Time, areas []Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.events[typ]
	ev.Active = true
	ev.StartTime = now
	ev.EndTime = now.Add(EventDuration)
	ev.NextOccurrence = time.Time{}
	ev.AffectedAreas = areas
}
