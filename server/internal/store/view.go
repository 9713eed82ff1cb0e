package store

import (
	"time"

	"github.com/honeyraes/honeyraes/pkg/types"
)

// View is a consistent, caller-owned copy of all three collections taken at
// a single instant.
type View struct {
	Customers []types.Customer
	Employees []types.Employee
	Tickets   []types.ServiceTicket
	Now       time.Time
}

// Snapshot copies every collection under one read lock.
func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := View{
		Customers: append([]types.Customer{}, s.customers...),
		Employees: make([]types.Employee, 0, len(s.employees)),
		Tickets:   cloneTickets(s.tickets),
		Now:       s.now(),
	}
	for _, e := range s.employees {
		v.Employees = append(v.Employees, e.Clone())
	}
	return v
}

// Customer returns the first customer in v with the given id.
func (v View) Customer(id int) (types.Customer, bool) {
	for _, c := range v.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return types.Customer{}, false
}

// Employee returns the first employee in v with the given id.
func (v View) Employee(id int) (types.Employee, bool) {
	for _, e := range v.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return types.Employee{}, false
}
