package types

// Customer is a shop customer. Customers are read-only after seeding.
type Customer struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
}

// Employee is a shop employee. ServiceTickets is populated on read and is
// never stored.
type Employee struct {
	ID             int             `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Specialty      string          `json:"specialty" yaml:"specialty"`
	ServiceTickets []ServiceTicket `json:"serviceTickets,omitempty" yaml:"-"`
}

// ServiceTicket is a repair request for a customer, optionally assigned to an
// employee. A nil EmployeeID means the ticket is unassigned; an empty
// DateCompleted means the ticket is open.
type ServiceTicket struct {
	ID            int       `json:"id" yaml:"id"`
	CustomerID    int       `json:"customerId" yaml:"customer_id"`
	EmployeeID    *int      `json:"employeeId" yaml:"employee_id"`
	Description   string    `json:"description" yaml:"description"`
	Emergency     bool      `json:"emergency" yaml:"emergency"`
	DateCompleted string    `json:"dateCompleted" yaml:"date_completed"`
	Employee      *Employee `json:"employee,omitempty" yaml:"-"`
}

// IsOpen reports whether the ticket has no completion date.
func (t ServiceTicket) IsOpen() bool { return t.DateCompleted == "" }

// AssignedTo reports whether the ticket is assigned to employeeID.
func (t ServiceTicket) AssignedTo(employeeID int) bool {
	return t.EmployeeID != nil && *t.EmployeeID == employeeID
}

// Clone returns a deep copy of t, including the attached employee.
func (t ServiceTicket) Clone() ServiceTicket {
	if t.EmployeeID != nil {
		id := *t.EmployeeID
		t.EmployeeID = &id
	}
	if t.Employee != nil {
		e := t.Employee.Clone()
		t.Employee = &e
	}
	return t
}

// Clone returns a deep copy of e, including any attached tickets.
func (e Employee) Clone() Employee {
	if e.ServiceTickets != nil {
		tickets := make([]ServiceTicket, len(e.ServiceTickets))
		for i, t := range e.ServiceTickets {
			tickets[i] = t.Clone()
		}
		e.ServiceTickets = tickets
	}
	return e
}

// IntPtr returns a pointer to v. Handy for EmployeeID literals.
func IntPtr(v int) *int { return &v }
