package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	ModuleRead         = "module.read"
	ModuleUnlocked     = "module.unlocked"
	QuizRecorded       = "quiz.recorded"
	BadgeUnlocked      = "badge.unlocked"
	ChallengeCompleted = "challenge.completed"
	ChallengeRewarded  = "challenge.rewarded"
)

// Event is a notification for the presentation layer.
type Event struct {
	Type    string
	Subject string
	Title   string
	Data    map[string]any
	At      time.Time
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Memory keeps published events in order.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, event Event) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
}

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event{}, m.events...)
}

// Drain returns the buffered events and clears the buffer.
func (m *Memory) Drain() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.events
	m.events = nil
	return out
}

// Log writes each event as a structured log line.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) Log {
	return Log{logger: logger}
}

func (l Log) Publish(ctx context.Context, event Event) {
	l.logger.InfoContext(ctx, "event", "type", event.Type, "subject", event.Subject, "title", event.Title)
}

// Multi fans out to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}

// Filter forwards events for which keep returns true.
type Filter struct {
	Next Publisher
	Keep func(ctx context.Context, event Event) bool
}

func (f Filter) Publish(ctx context.Context, event Event) {
	if f.Keep == nil || f.Keep(ctx, event) {
		f.Next.Publish(ctx, event)
	}
}
