package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/repository"
	"github.com/iliyamo/flight-seat-reservation/internal/seating"
	"github.com/iliyamo/flight-seat-reservation/internal/service"
)

// ReservationHandler serves the passenger-facing booking endpoints.
type ReservationHandler struct {
	Svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

// ----- DTOs -----

// reserveReq mirrors the booking form.  Seat coordinates are 0-indexed;
// pointers let us tell a missing field from seat 0.
type reserveReq struct {
	FirstName  string `json:"first_name" form:"first_name"`
	LastName   string `json:"last_name" form:"last_name"`
	SeatRow    *int   `json:"seat_row" form:"seat_row"`
	SeatColumn *int   `json:"seat_column" form:"seat_column"`
}

type chartResp struct {
	SeatingChart []string      `json:"seating_chart"`
	Grid         seating.Chart `json:"grid"`
	FlightCode   string        `json:"flight_code"`
}

type reserveResp struct {
	SuccessMessage string   `json:"success_message"`
	PassengerName  string   `json:"passenger_name"`
	SeatRow        int      `json:"seat_row"`    // 1-indexed
	SeatColumn     int      `json:"seat_column"` // 1-indexed
	ETicketNumber  string   `json:"e_ticket_number"`
	Price          int      `json:"price"`
	SeatingChart   []string `json:"seating_chart"`
}

// GetChart handles GET /v1/reserve and returns the current seating chart.
func (h *ReservationHandler) GetChart(c echo.Context) error {
	chart, err := h.Svc.Chart(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("load seating chart: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, chartResp{
		SeatingChart: chart.Lines(),
		Grid:         chart,
		FlightCode:   h.Svc.FlightCode(),
	})
}

// Reserve handles POST /v1/reserve.  It returns 201 with the confirmation
// message and e-ticket number, 409 when the seat is taken, 400 for bad
// input and 500 when the store fails.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatRow == nil || req.SeatColumn == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_row/seat_column required"})
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	}

	ctx := c.Request().Context()
	b, err := h.Svc.Book(ctx, service.BookingRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		SeatRow:    *req.SeatRow,
		SeatColumn: *req.SeatColumn,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error_message": service.SeatTakenMessage})
	case errors.Is(err, seating.ErrSeatOutOfRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat out of range"})
	case errors.Is(err, service.ErrInvalidPassenger):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	default:
		c.Logger().Errorf("book seat: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp := reserveResp{
		SuccessMessage: b.Message(),
		PassengerName:  b.PassengerName,
		SeatRow:        b.SeatRow + 1,
		SeatColumn:     b.SeatColumn + 1,
		ETicketNumber:  b.ETicketNumber,
		Price:          b.Price,
	}
	// the booking is committed; a failed re-read only drops the chart
	if chart, err := h.Svc.Chart(ctx); err == nil {
		resp.SeatingChart = chart.Lines()
	} else {
		c.Logger().Warnf("reload seating chart: %v", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetTicket handles GET /v1/tickets/:ticket.
func (h *ReservationHandler) GetTicket(c echo.Context) error {
	t := strings.TrimSpace(c.Param("ticket"))
	if t == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket"})
	}
	res, err := h.Svc.Lookup(c.Request().Context(), t)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		c.Logger().Errorf("lookup ticket: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"passenger_name":  res.PassengerName,
		"seat_row":        res.SeatRow + 1,
		"seat_column":     res.SeatColumn + 1,
		"e_ticket_number": res.ETicketNumber,
		"booked_at":       res.CreatedAt,
	})
}

// GetPrices handles GET /v1/prices and returns the fare of every seat.
func GetPrices(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"currency":    "USD",
		"cost_matrix": seating.CostMatrix(),
	})
}
