package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/honeyraes/honeyraes/pkg/types"
	"github.com/honeyraes/honeyraes/server/internal/config"
)

const maxHistoryLen = 200

// Event kinds.
const (
	KindEmergency = "ticket.emergency"
	KindCompleted = "ticket.completed"
)

// Event is a single notification produced by a ticket change.
type Event struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	TicketID    int       `json:"ticket_id"`
	CustomerID  int       `json:"customer_id"`
	EmployeeID  *int      `json:"employee_id"` // nil when unassigned
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	At          time.Time `json:"at"`
}

// Notifier records ticket events and delivers them to webhooks.
//
// Notifier is safe for concurrent use.
type Notifier struct {
	mu       sync.Mutex
	webhooks []config.WebhookConfig
	history  []Event
	client   *http.Client
	now      func() time.Time
	wg       sync.WaitGroup
}

// New creates a Notifier from the notify configuration.
// A Notifier with no webhooks is valid; events are still recorded.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		webhooks: append([]config.WebhookConfig(nil), cfg.Webhooks...),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// SetWebhooks replaces the delivery targets. Used on config reload.
func (n *Notifier) SetWebhooks(webhooks []config.WebhookConfig) {
	n.mu.Lock()
	n.webhooks = append([]config.WebhookConfig(nil), webhooks...)
	n.mu.Unlock()
	slog.Info("notify: webhooks updated", "count", len(webhooks))
}

// TicketCreated publishes an emergency event when t is an emergency.
// Non-emergency tickets are ignored.
func (n *Notifier) TicketCreated(t types.ServiceTicket) {
	if !t.Emergency {
		return
	}
	n.publish(Event{
		Kind:        KindEmergency,
		TicketID:    t.ID,
		CustomerID:  t.CustomerID,
		EmployeeID:  t.EmployeeID,
		Description: t.Description,
		Severity:    "critical",
		Message:     fmt.Sprintf("Emergency ticket %d opened for customer %d: %s", t.ID, t.CustomerID, t.Description),
	})
}

// TicketCompleted publishes a completion event for t.
func (n *Notifier) TicketCompleted(t types.ServiceTicket) {
	n.publish(Event{
		Kind:        KindCompleted,
		TicketID:    t.ID,
		CustomerID:  t.CustomerID,
		EmployeeID:  t.EmployeeID,
		Description: t.Description,
		Severity:    "info",
		Message:     fmt.Sprintf("Ticket %d completed on %s", t.ID, t.DateCompleted),
	})
}

// Recent returns recorded events, newest first.
func (n *Notifier) Recent() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Event, 0, len(n.history))
	for i := len(n.history) - 1; i >= 0; i-- {
		out = append(out, n.history[i])
	}
	return out
}

// Wait blocks until all in-flight deliveries have finished.
func (n *Notifier) Wait() { n.wg.Wait() }

func (n *Notifier) publish(ev Event) {
	ev.ID = uuid.NewString()
	ev.At = n.now().UTC()

	n.mu.Lock()
	n.history = append(n.history, ev)
	if len(n.history) > maxHistoryLen {
		n.history = n.history[len(n.history)-maxHistoryLen:]
	}
	targets := append([]config.WebhookConfig(nil), n.webhooks...)
	n.mu.Unlock()

	if ev.Severity == "critical" {
		slog.Warn("notify: event", "kind", ev.Kind, "ticket_id", ev.TicketID)
	} else {
		slog.Info("notify: event", "kind", ev.Kind, "ticket_id", ev.TicketID)
	}

	if len(targets) == 0 {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(targets, ev)
	}()
}
