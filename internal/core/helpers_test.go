package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"workmgmt/pkg/domain"
)

type logEntry struct {
	level string
	msg   string
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) add(level string, msg any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: fmt.Sprint(msg)})
}

func (l *captureLogger) Debug(msg any, _ ...any) { l.add("debug", msg) }
func (l *captureLogger) Info(msg any, _ ...any)  { l.add("info", msg) }
func (l *captureLogger) Warn(msg any, _ ...any)  { l.add("warn", msg) }
func (l *captureLogger) Error(msg any, _ ...any) { l.add("error", msg) }

func (l *captureLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

var errBackendDown = errors.New("backend down")

// failingBackend fails every Load and/or Save it is told to.
type failingBackend struct {
	failLoad bool
	failSave bool
	saves    int
}

func (b *failingBackend) Load(context.Context) (domain.Document, bool, error) {
	if b.failLoad {
		return domain.Document{}, false, errBackendDown
	}
	return domain.Document{}, false, nil
}

func (b *failingBackend) Save(context.Context, domain.Document) error {
	if b.failSave {
		return errBackendDown
	}
	b.saves++
	return nil
}

func (b *failingBackend) Close() error { return nil }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return NewService(NewDefaultRulesEngine(false), opts...)
}
