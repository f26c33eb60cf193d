package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
	"github.com/spec-kit/reclamos-service/internal/events"
	"github.com/spec-kit/reclamos-service/internal/planner"
)

// NotificationService turns bus events into stored notifications and, when
// configured, forwards them to an external webhook. All delivery is
// best-effort.
type NotificationService struct {
	sink       planner.NotificationSink
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewNotificationService(sink planner.NotificationSink, webhookURL string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		sink:       sink,
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Register wires the service onto the event bus.
func (s *NotificationService) Register(dispatcher *events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketOpened, s.onTicketOpened)
	dispatcher.Subscribe(events.EventTicketClosed, s.onTicketClosed)
	dispatcher.Subscribe(events.EventPlanCommitted, s.onPlanCommitted)
}

func (s *NotificationService) onTicketOpened(ctx context.Context, evt events.Event) {
	ticketID, _ := evt.Payload["ticket_id"].(string)
	s.store(ctx, domain.Notification{
		ID:              uuid.NewString(),
		Kind:            domain.NotificationTicketOpened,
		Message:         fmt.Sprintf("Nuevo reclamo %s registrado", ticketID),
		Audience:        domain.AudienceAll,
		RelatedTicketID: ticketID,
		CreatedAt:       evt.OccurredAt,
	})
	s.forward(ctx, evt)
}

func (s *NotificationService) onTicketClosed(ctx context.Context, evt events.Event) {
	ticketID, _ := evt.Payload["ticket_id"].(string)
	s.store(ctx, domain.Notification{
		ID:              uuid.NewString(),
		Kind:            domain.NotificationTicketClosed,
		Message:         fmt.Sprintf("Reclamo %s resuelto", ticketID),
		Audience:        domain.AudienceAll,
		RelatedTicketID: ticketID,
		CreatedAt:       evt.OccurredAt,
	})
	s.forward(ctx, evt)
}

// onPlanCommitted only forwards; the committer already stored the per-group
// assignment notifications.
func (s *NotificationService) onPlanCommitted(ctx context.Context, evt events.Event) {
	s.forward(ctx, evt)
}

func (s *NotificationService) store(ctx context.Context, n domain.Notification) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, n); err != nil {
		s.logger.Warn("notification store failed",
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
	}
}

func (s *NotificationService) forward(ctx context.Context, evt events.Event) {
	if s.webhookURL == "" {
		return
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook rejected event", zap.Int("status", resp.StatusCode))
	}
}
