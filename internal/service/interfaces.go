package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// TrackerService owns the single active session.
type TrackerService interface {
	app.HandleEventUseCase
	app.ViewUseCase
	Heartbeat(ctx context.Context) error
	Recover(ctx context.Context) (app.RecoveryResult, error)
}

// JournalService commits finalized entries to the week log, queueing them
// in the outbox when the log cannot be written.
type JournalService interface {
	Commit(ctx context.Context, entries []domain.LogEntry) error
	Pending(ctx context.Context) ([]*domain.PendingEntry, error)
	Count(ctx context.Context) (int, error)
	Flush(ctx context.Context) (flushed int, err error)
}

// ReportService summarizes week files.
type ReportService interface {
	app.ReportUseCase
	WeekFile(ctx context.Context, req app.ReportRequest) (string, error)
}

// SubcategoryService edits slot labels outside a tracking session.
type SubcategoryService interface {
	List(ctx context.Context, category string) ([domain.SlotCount]string, error)
	Categories(ctx context.Context) []domain.Category
	Set(ctx context.Context, category string, digit int, text string) error
}

// CategoryLookup is the read side of the category registry.
type CategoryLookup interface {
	Lookup(key string) (domain.Category, bool)
	List() []domain.Category
}

// SlotStore is the subcategory store as the tracker uses it.
type SlotStore interface {
	Slot(category string, index int) string
	Slots(category string) [domain.SlotCount]string
	SetSlot(category string, index int, text string) error
}

// EntryWriter appends one entry to durable storage. EndsWith reports
// whether e is already the newest record of its file.
type EntryWriter interface {
	Append(e domain.LogEntry) error
	EndsWith(e domain.LogEntry) (bool, error)
}

// ErrUnknownCategory is returned when a key is not in the legend.
var ErrUnknownCategory = errors.New("unknown category")
