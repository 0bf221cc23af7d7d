package app

import (
	"context"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// HandleEventUseCase feeds one input event to the tracker.
type HandleEventUseCase interface {
	Handle(ctx context.Context, ev domain.Event) (Outcome, error)
}

// ViewUseCase exposes the render-only tracker state.
type ViewUseCase interface {
	View() TrackerView
}

// ReportUseCase summarizes a week file.
type ReportUseCase interface {
	Report(ctx context.Context, req ReportRequest) (*Report, error)
}
