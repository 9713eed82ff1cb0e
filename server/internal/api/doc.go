// Package api implements the HTTP API for honeyraes-server.
//
// New(store, notifier) returns an http.Handler that serves:
//
//	GET    /customers                            all customers
//	GET    /customer/{id}                        one customer; 404 if unknown
//	GET    /employees                            all employees
//	GET    /employees/{id}                       employee with assigned tickets; 404 if unknown
//	GET    /servicetickets                       all tickets
//	GET    /servicetickets/{id}                  ticket with its employee; 404 if unknown
//	POST   /servicetickets                       create; id = max + 1
//	PUT    /servicetickets/{id}                  replace; 404 unknown, 400 id mismatch
//	DELETE /servicetickets/{id}                  delete; 204, 404 if unknown
//	POST   /servicetickets/{id}/complete         set completion date to today; 404 if unknown
//	GET    /incompleteEmergencyServiceTickets    open, non-emergency tickets
//	GET    /unassignedServiceTickets             tickets with no employee
//	GET    /noClosedServiceTicketForAYear        customers with no recent completion
//	GET    /openEmployees                        employees with no open ticket
//	GET    /employeesForCustomers/{employeeId}   customers served by an employee
//	GET    /customersForEmployee/{employeeId}    same; 404 if the employee is unknown
//	GET    /mostCompletedLastMonth               top employee by recent completions; 404 if none
//	GET    /completedTicketsDecending            completed tickets in store order
//	GET    /notifications                        recent ticket events, newest first
//	GET    /healthz                              liveness
//
// All responses are JSON. Errors use {"error": "..."}. Non-numeric ids are
// 400; a wrong method on a known path is 405.
package api
