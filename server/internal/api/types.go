package api

import (
	"github.com/honeyraes/honeyraes/pkg/types"
	"github.com/honeyraes/honeyraes/server/internal/notify"
)

// Notifier receives ticket changes and exposes recent events.
type Notifier interface {
	TicketCreated(t types.ServiceTicket)
	TicketCompleted(t types.ServiceTicket)
	Recent() []notify.Event
}

// employeeResponse is the payload for GET /employees/{id}. Its
// ServiceTickets shadows the embedded field so the list is always present,
// as [] when the employee has no tickets.
type employeeResponse struct {
	types.Employee
	ServiceTickets []types.ServiceTicket `json:"serviceTickets"`
}

func newEmployeeResponse(e types.Employee) employeeResponse {
	tickets := e.ServiceTickets
	if tickets == nil {
		tickets = []types.ServiceTicket{}
	}
	return employeeResponse{Employee: e, ServiceTickets: tickets}
}

// healthResponse is the payload for GET /healthz.
type healthResponse struct {
	Status string `json:"status"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
