package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
)

type subcategoryService struct {
	categories CategoryLookup
	slots      SlotStore
	observer   UseCaseObserver
}

func NewSubcategoryService(categories CategoryLookup, slots SlotStore, observers ...UseCaseObserver) SubcategoryService {
	return &subcategoryService{
		categories: categories,
		slots:      slots,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *subcategoryService) Categories(context.Context) []domain.Category {
	return s.categories.List()
}

func (s *subcategoryService) List(_ context.Context, category string) ([domain.SlotCount]string, error) {
	cat, ok := s.categories.Lookup(category)
	if !ok {
		return [domain.SlotCount]string{}, fmt.Errorf("category %q: %w", category, ErrUnknownCategory)
	}
	return s.slots.Slots(cat.Key), nil
}

// Set stores text under the slot the digit selects in the tracker. Text is
// lowercased the same way a note edit is.
func (s *subcategoryService) Set(ctx context.Context, category string, digit int, text string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"category": category, "digit": digit}
	defer func() { observe(ctx, s.observer, "subcategory-set", startedAt, fields, err) }()

	cat, ok := s.categories.Lookup(category)
	if !ok {
		return fmt.Errorf("category %q: %w", category, ErrUnknownCategory)
	}
	if digit < 0 || digit > 9 {
		return domain.ErrInvalidDigit
	}
	if err := domain.ValidateNote(text); err != nil {
		return err
	}
	index := domain.SlotForDigit(digit)
	if err := s.slots.SetSlot(cat.Key, index, strings.ToLower(text)); err != nil {
		return fmt.Errorf("saving subcategory: %w", err)
	}
	return nil
}
