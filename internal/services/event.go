package services

import (
	"context"
	"fmt"
	"time"

	"bingo-sales-platform/internal/models"

	"go.uber.org/zap"
)

// EventService handles event-related business logic
type EventService struct {
	eventRepo EventRepository
	orderRepo OrderRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, orderRepo OrderRepository, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		eventRepo: eventRepo,
		orderRepo: orderRepo,
		logger:    logger.Named("events"),
		now:       time.Now,
	}
}

// CreateEvent validates and stores a new active event
func (s *EventService) CreateEvent(ctx context.Context, req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	priceCents, err := models.ParsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := &models.Event{
		OwnerID:    req.OwnerID,
		Name:       req.Name,
		RangeStart: req.RangeStart,
		RangeEnd:   req.RangeEnd,
		CardCount:  req.CardCount,
		PriceCents: priceCents,
		EventDate:  req.EventDate,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("event created",
		zap.Int64("event_id", event.ID),
		zap.Int("range_start", event.RangeStart),
		zap.Int("range_end", event.RangeEnd),
	)
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents lists events by date, optionally only active ones
func (s *EventService) ListEvents(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEvent applies a partial update.
//
// A range change is checked against every card the event's orders have
// recorded; the new range must still contain all of them. The check and the
// write run under the event lock so no withdrawal can slip in between.
func (s *EventService) UpdateEvent(ctx context.Context, id int64, req *models.EventUpdateRequest) (*models.Event, error) {
	var result *models.Event

	err := s.orderRepo.WithEventLock(ctx, id, func(ctx context.Context) error {
		current, err := s.eventRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		updated, err := req.Apply(current)
		if err != nil {
			return err
		}

		if updated.RangeChanged(current) {
			orders, err := s.orderRepo.ListByEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load event orders: %w", err)
			}

			recorded := models.CardSet{}
			for _, o := range orders {
				recorded = recorded.Union(o.Withdrawn)
			}
			if outside := recorded.OutsideRange(updated.RangeStart, updated.RangeEnd); !outside.IsEmpty() {
				return &models.CardError{Kind: models.ErrEventRangeInvalid, Cards: outside}
			}
		}

		updated.UpdatedAt = s.now().UTC()
		if err := s.eventRepo.Update(ctx, updated); err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event updated", zap.Int64("event_id", id))
	return result, nil
}

// DeactivateEvent stops further withdrawals for the event
func (s *EventService) DeactivateEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.SetEventActive(ctx, id, false)
}

// ActivateEvent reopens the event for withdrawals
func (s *EventService) ActivateEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.SetEventActive(ctx, id, true)
}

// SetEventActive activates or deactivates an event. Events are never deleted.
func (s *EventService) SetEventActive(ctx context.Context, id int64, active bool) (*models.Event, error) {
	var result *models.Event

	err := s.orderRepo.WithEventLock(ctx, id, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if event.Active == active {
			result = event
			return nil
		}

		event.Active = active
		event.UpdatedAt = s.now().UTC()
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event status changed", zap.Int64("event_id", id), zap.Bool("active", active))
	return result, nil
}
