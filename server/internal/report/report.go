package report

import (
	"log/slog"
	"time"

	"github.com/honeyraes/honeyraes/pkg/types"
	"github.com/honeyraes/honeyraes/server/internal/store"
)

// IncompleteNonEmergency returns open tickets that are not emergencies.
func IncompleteNonEmergency(v store.View) []types.ServiceTicket {
	return filterTickets(v.Tickets, func(t types.ServiceTicket) bool {
		return !t.Emergency && t.IsOpen()
	})
}

// Unassigned returns tickets with no employee reference.
func Unassigned(v store.View) []types.ServiceTicket {
	return filterTickets(v.Tickets, func(t types.ServiceTicket) bool {
		return t.EmployeeID == nil
	})
}

// Completed returns tickets with a completion date.
func Completed(v store.View) []types.ServiceTicket {
	return filterTickets(v.Tickets, func(t types.ServiceTicket) bool {
		return !t.IsOpen()
	})
}

// NoClosedTicketForAYear returns customers with no completed ticket, or whose
// most recent completion is more than one calendar year before v.Now.
// The comparison subtracts year numbers; it is not a 365-day window.
func NoClosedTicketForAYear(v store.View) []types.Customer {
	out := []types.Customer{}
	for _, c := range v.Customers {
		var (
			last  time.Time
			found bool
		)
		for _, t := range v.Tickets {
			if t.CustomerID != c.ID || t.IsOpen() {
				continue
			}
			d, ok := completedOn(t, v.Now.Location())
			if !ok {
				continue
			}
			if !found || d.After(last) {
				last, found = d, true
			}
		}
		if !found || v.Now.Year()-last.Year() > 1 {
			out = append(out, c)
		}
	}
	return out
}

// OpenEmployees returns employees with no open ticket assigned to them.
func OpenEmployees(v store.View) []types.Employee {
	out := []types.Employee{}
	for _, e := range v.Employees {
		busy := false
		for _, t := range v.Tickets {
			if t.AssignedTo(e.ID) && t.IsOpen() {
				busy = true
				break
			}
		}
		if !busy {
			out = append(out, e)
		}
	}
	return out
}

// CustomersForEmployee returns the distinct customers of tickets assigned to
// employeeID, in customer-store order. Dangling customer ids are skipped.
func CustomersForEmployee(v store.View, employeeID int) []types.Customer {
	ids := make(map[int]bool)
	for _, t := range v.Tickets {
		if t.AssignedTo(employeeID) {
			ids[t.CustomerID] = true
		}
	}
	out := []types.Customer{}
	for _, c := range v.Customers {
		if ids[c.ID] {
			out = append(out, c)
			delete(ids, c.ID)
		}
	}
	return out
}

// MostCompletedLastMonth returns the employee with the most tickets completed
// on or after one calendar month before v.Now (see monthBefore). Unassigned tickets do not count. Ties go
// to the lowest employee id. It reports false when no ticket qualifies or the
// winning id does not resolve to an employee.
func MostCompletedLastMonth(v store.View) (types.Employee, bool) {
	since := monthBefore(v.Now)
	counts := make(map[int]int)
	for _, t := range v.Tickets {
		if t.IsOpen() || t.EmployeeID == nil {
			continue
		}
		d, ok := completedOn(t, v.Now.Location())
		if !ok || d.Before(since) {
			continue
		}
		counts[*t.EmployeeID]++
	}

	best, bestCount := 0, 0
	for id, n := range counts {
		if n > bestCount || (n == bestCount && id < best) {
			best, bestCount = id, n
		}
	}
	if bestCount == 0 {
		return types.Employee{}, false
	}
	return v.Employee(best)
}

// Summary is a point-in-time count of the shop's records.
type Summary struct {
	Customers       int `json:"customers"`
	Employees       int `json:"employees"`
	Tickets         int `json:"service_tickets"`
	Open            int `json:"open"`
	Completed       int `json:"completed"`
	Unassigned      int `json:"unassigned"`
	OpenEmergencies int `json:"open_emergencies"`
}

// Summarize counts the records in v.
func Summarize(v store.View) Summary {
	s := Summary{
		Customers: len(v.Customers),
		Employees: len(v.Employees),
		Tickets:   len(v.Tickets),
	}
	for _, t := range v.Tickets {
		if t.IsOpen() {
			s.Open++
			if t.Emergency {
				s.OpenEmergencies++
			}
		} else {
			s.Completed++
		}
		if t.EmployeeID == nil {
			s.Unassigned++
		}
	}
	return s
}

// --- helpers ----------------------------------------------------------------

func filterTickets(in []types.ServiceTicket, keep func(types.ServiceTicket) bool) []types.ServiceTicket {
	out := []types.ServiceTicket{}
	for _, t := range in {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// monthBefore returns t moved back one calendar month, with the day clamped
// to the length of that month: Mar 31 becomes Feb 29 in a leap year, not
// Mar 2 as with AddDate.
func monthBefore(t time.Time) time.Time {
	y, m, d := t.Date()
	lastDay := time.Date(y, m, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m-1, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// completedOn parses t's completion date. Unparseable dates are logged and
// reported as absent.
func completedOn(t types.ServiceTicket, loc *time.Location) (time.Time, bool) {
	d, err := types.ParseDate(t.DateCompleted, loc)
	if err != nil {
		slog.Debug("report: skipping ticket with bad completion date", "id", t.ID, "err", err)
		return time.Time{}, false
	}
	return d, true
}
