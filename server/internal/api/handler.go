package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/honeyraes/honeyraes/pkg/types"
	"github.com/honeyraes/honeyraes/server/internal/notify"
	"github.com/honeyraes/honeyraes/server/internal/report"
	"github.com/honeyraes/honeyraes/server/internal/store"
)

// Handler serves the shop API from a store.
type Handler struct {
	store    *store.Store
	notifier Notifier
	echo     *echo.Echo
}

// New creates a Handler wired to st and registers all routes. n may be nil,
// in which case ticket events are not published.
func New(st *store.Store, n Notifier) http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			slog.Error("api: handler panic", "path", c.Path(), "err", err, "stack", string(stack))
			return err
		},
	}))

	h := &Handler{store: st, notifier: n, echo: e}

	e.GET("/healthz", h.health)
	e.GET("/notifications", h.notifications)

	e.GET("/customers", h.listCustomers)
	e.GET("/customer/:id", h.getCustomer)
	e.GET("/employees", h.listEmployees)
	e.GET("/employees/:id", h.getEmployee)

	e.GET("/servicetickets", h.listTickets)
	e.GET("/servicetickets/:id", h.getTicket)
	e.POST("/servicetickets", h.createTicket)
	e.PUT("/servicetickets/:id", h.updateTicket)
	e.DELETE("/servicetickets/:id", h.deleteTicket)
	e.POST("/servicetickets/:id/complete", h.completeTicket)

	e.GET("/incompleteEmergencyServiceTickets", h.incompleteNonEmergency)
	e.GET("/unassignedServiceTickets", h.unassigned)
	e.GET("/noClosedServiceTicketForAYear", h.noClosedForAYear)
	e.GET("/openEmployees", h.openEmployees)
	e.GET("/employeesForCustomers/:employeeId", h.employeesForCustomers)
	e.GET("/customersForEmployee/:employeeId", h.customersForEmployee)
	e.GET("/mostCompletedLastMonth", h.mostCompletedLastMonth)
	e.GET("/completedTicketsDecending", h.completedTickets)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.echo.ServeHTTP(w, r)
}

// --- entity handlers --------------------------------------------------------

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handler) notifications(c echo.Context) error {
	if h.notifier == nil {
		return c.JSON(http.StatusOK, []notify.Event{})
	}
	return c.JSON(http.StatusOK, h.notifier.Recent())
}

func (h *Handler) listCustomers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Customers())
}

func (h *Handler) getCustomer(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	cust, ok := h.store.Customer(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *Handler) listEmployees(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Employees())
}

func (h *Handler) getEmployee(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	emp, ok := h.store.EmployeeWithTickets(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "employee not found")
	}
	return c.JSON(http.StatusOK, newEmployeeResponse(emp))
}

// --- ticket handlers --------------------------------------------------------

func (h *Handler) listTickets(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Tickets())
}

func (h *Handler) getTicket(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	t, ok := h.store.Ticket(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "service ticket not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) createTicket(c echo.Context) error {
	var t types.ServiceTicket
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service ticket body")
	}
	created := h.store.CreateTicket(t)
	if h.notifier != nil {
		h.notifier.TicketCreated(created)
	}
	return c.JSON(http.StatusOK, created)
}

func (h *Handler) updateTicket(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var t types.ServiceTicket
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service ticket body")
	}
	updated, err := h.store.UpdateTicket(id, t)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteTicket(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteTicket(id); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) completeTicket(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	t, err := h.store.CompleteTicket(id)
	if err != nil {
		return storeError(err)
	}
	if h.notifier != nil {
		h.notifier.TicketCompleted(t)
	}
	return c.JSON(http.StatusOK, t)
}

// --- report handlers --------------------------------------------------------

func (h *Handler) incompleteNonEmergency(c echo.Context) error {
	return c.JSON(http.StatusOK, report.IncompleteNonEmergency(h.store.Snapshot()))
}

func (h *Handler) unassigned(c echo.Context) error {
	return c.JSON(http.StatusOK, report.Unassigned(h.store.Snapshot()))
}

func (h *Handler) noClosedForAYear(c echo.Context) error {
	return c.JSON(http.StatusOK, report.NoClosedTicketForAYear(h.store.Snapshot()))
}

func (h *Handler) openEmployees(c echo.Context) error {
	return c.JSON(http.StatusOK, report.OpenEmployees(h.store.Snapshot()))
}

func (h *Handler) employeesForCustomers(c echo.Context) error {
	id, err := intParam(c, "employeeId")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report.CustomersForEmployee(h.store.Snapshot(), id))
}

func (h *Handler) customersForEmployee(c echo.Context) error {
	id, err := intParam(c, "employeeId")
	if err != nil {
		return err
	}
	v := h.store.Snapshot()
	if _, ok := v.Employee(id); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "employee not found")
	}
	return c.JSON(http.StatusOK, report.CustomersForEmployee(v, id))
}

func (h *Handler) mostCompletedLastMonth(c echo.Context) error {
	emp, ok := report.MostCompletedLastMonth(h.store.Snapshot())
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no tickets completed in the last month")
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *Handler) completedTickets(c echo.Context) error {
	return c.JSON(http.StatusOK, report.Completed(h.store.Snapshot()))
}

// --- helpers ----------------------------------------------------------------

// intParam parses the named path parameter as an int.
func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

// storeError maps store sentinel errors to HTTP errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "service ticket not found")
	case errors.Is(err, store.ErrIDMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "path id does not match body id")
	default:
		return err
	}
}

// errorHandler writes every error as {"error": "..."}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		slog.Error("api: unhandled error", "path", c.Path(), "err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		slog.Error("api: write error response", "err", err)
	}
}

// requestLogger logs one line per request through slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
			}
			slog.Debug("api: request", attrs...)
			return nil
		},
	})
}
