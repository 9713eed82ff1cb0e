package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/honeyraes/honeyraes/pkg/types"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("not found")

	// ErrIDMismatch is returned by UpdateTicket when the path id and the id
	// in the submitted ticket differ.
	ErrIDMismatch = errors.New("id mismatch")
)

// Store is a thread-safe in-memory store for the shop's three collections.
// Slices keep insertion order; lookups return the first match.
type Store struct {
	mu        sync.RWMutex
	customers []types.Customer
	employees []types.Employee
	tickets   []types.ServiceTicket
	now       func() time.Time // injectable for deterministic tests
	onChange  []func()
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for completion dates and reports.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store holding a copy of seed.
func New(seed Seed, opts ...Option) *Store {
	s := &Store{
		customers: append([]types.Customer(nil), seed.Customers...),
		employees: make([]types.Employee, 0, len(seed.Employees)),
		tickets:   make([]types.ServiceTicket, 0, len(seed.Tickets)),
		now:       time.Now,
	}
	for _, e := range seed.Employees {
		e.ServiceTickets = nil
		s.employees = append(s.employees, e)
	}
	for _, t := range seed.Tickets {
		t.Employee = nil
		s.tickets = append(s.tickets, t.Clone())
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OnChange registers fn to run after every successful ticket write. Hooks run
// with the store locked; they must not block or call back into the Store.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.now() }

// Customer returns the customer with the given id.
func (s *Store) Customer(id int) (types.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.customerIndex(id)
	if i < 0 {
		return types.Customer{}, false
	}
	return s.customers[i], true
}

// Customers returns every customer in insertion order.
func (s *Store) Customers() []types.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Customer{}, s.customers...)
}

// Employee returns the employee with the given id, without tickets.
func (s *Store) Employee(id int) (types.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.employeeIndex(id)
	if i < 0 {
		return types.Employee{}, false
	}
	return s.employees[i].Clone(), true
}

// EmployeeWithTickets returns the employee with the given id and every
// ticket assigned to them attached.
func (s *Store) EmployeeWithTickets(id int) (types.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.employeeIndex(id)
	if i < 0 {
		return types.Employee{}, false
	}
	e := s.employees[i].Clone()
	e.ServiceTickets = []types.ServiceTicket{}
	for _, t := range s.tickets {
		if t.AssignedTo(id) {
			e.ServiceTickets = append(e.ServiceTickets, t.Clone())
		}
	}
	return e, true
}

// Employees returns every employee in insertion order, without tickets.
func (s *Store) Employees() []types.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e.Clone())
	}
	return out
}

// Ticket returns the ticket with the given id. When the ticket's employee
// reference resolves, the employee is attached.
func (s *Store) Ticket(id int) (types.ServiceTicket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.ticketIndex(id)
	if i < 0 {
		return types.ServiceTicket{}, false
	}
	t := s.tickets[i].Clone()
	if t.EmployeeID != nil {
		if j := s.employeeIndex(*t.EmployeeID); j >= 0 {
			e := s.employees[j].Clone()
			t.Employee = &e
		}
	}
	return t, true
}

// Tickets returns every ticket in insertion order.
func (s *Store) Tickets() []types.ServiceTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTickets(s.tickets)
}

// CreateTicket appends t with a new id one greater than the current maximum
// (1 on an empty store) and returns the stored ticket. Any id on t is ignored.
func (s *Store) CreateTicket(t types.ServiceTicket) types.ServiceTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 1
	if len(s.tickets) > 0 {
		next = s.tickets[0].ID
		for _, st := range s.tickets[1:] {
			if st.ID > next {
				next = st.ID
			}
		}
		next++
	}

	t = t.Clone()
	t.ID = next
	t.Employee = nil
	s.tickets = append(s.tickets, t)

	slog.Debug("store: ticket created", "id", t.ID, "customer_id", t.CustomerID, "emergency", t.Emergency)
	s.changed()
	return t.Clone()
}

// DeleteTicket removes the ticket with the given id.
func (s *Store) DeleteTicket(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.ticketIndex(id)
	if i < 0 {
		return fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
	slog.Debug("store: ticket deleted", "id", id)
	s.changed()
	return nil
}

// UpdateTicket replaces the ticket with the given id by t, keeping its
// position. It fails with ErrNotFound if id is unknown and with ErrIDMismatch
// if t.ID differs from id; the store is unchanged on failure.
func (s *Store) UpdateTicket(id int, t types.ServiceTicket) (types.ServiceTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.ticketIndex(id)
	if i < 0 {
		return types.ServiceTicket{}, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	if t.ID != id {
		return types.ServiceTicket{}, fmt.Errorf("ticket %d: body id %d: %w", id, t.ID, ErrIDMismatch)
	}
	t = t.Clone()
	t.Employee = nil
	s.tickets[i] = t
	slog.Debug("store: ticket updated", "id", id)
	s.changed()
	return t.Clone(), nil
}

// CompleteTicket sets the completion date of the ticket with the given id to
// today's date and returns the updated ticket.
func (s *Store) CompleteTicket(id int) (types.ServiceTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.ticketIndex(id)
	if i < 0 {
		return types.ServiceTicket{}, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	s.tickets[i].DateCompleted = types.FormatDate(s.now())
	slog.Debug("store: ticket completed", "id", id, "date", s.tickets[i].DateCompleted)
	s.changed()
	return s.tickets[i].Clone(), nil
}

// --- internal ---------------------------------------------------------------
// Helpers below must be called with s.mu held.

func (s *Store) changed() {
	for _, fn := range s.onChange {
		fn()
	}
}

func (s *Store) customerIndex(id int) int {
	for i, c := range s.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) employeeIndex(id int) int {
	for i, e := range s.employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) ticketIndex(id int) int {
	for i, t := range s.tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTickets(in []types.ServiceTicket) []types.ServiceTicket {
	out := make([]types.ServiceTicket, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
