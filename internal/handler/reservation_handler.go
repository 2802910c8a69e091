package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/train-reservation/internal/dto"
	"github.com/Eursukkul/train-reservation/internal/repository"
	"github.com/Eursukkul/train-reservation/internal/service"
	"github.com/labstack/echo/v4"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	trains := api.Group("/trains")
	trains.GET("", h.ListTrains)
	trains.GET("/search", h.SearchTrains)
	trains.GET("/:number", h.GetTrain)
	trains.GET("/:number/availability", h.GetAvailability)

	api.POST("/catalog/reload", h.ReloadCatalog)

	bookings := api.Group("/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("/:pnr", h.GetBookings)
	bookings.DELETE("/:pnr", h.CancelBooking)
}

func (h *ReservationHandler) ListTrains(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.ToTrainResponses(h.svc.Trains()))
}

func (h *ReservationHandler) SearchTrains(c echo.Context) error {
	if name := c.QueryParam("name"); name != "" {
		return c.JSON(http.StatusOK, dto.ToTrainResponses(h.svc.SearchByName(name)))
	}

	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "either name or both from and to are required")
	}
	return c.JSON(http.StatusOK, dto.ToTrainResponses(h.svc.SearchByRoute(from, to)))
}

func (h *ReservationHandler) GetTrain(c echo.Context) error {
	train, err := h.svc.FindTrain(c.Param("number"))
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, dto.ToTrainResponse(train))
}

func (h *ReservationHandler) GetAvailability(c echo.Context) error {
	avail, err := h.svc.Availability(c.Param("number"))
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAvailabilityResponse(avail))
}

func (h *ReservationHandler) ReloadCatalog(c echo.Context) error {
	report, err := h.svc.ReloadCatalog(c.Request().Context())
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *ReservationHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), req.Name, req.Age, req.TrainNo, req.Class)
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *ReservationHandler) GetBookings(c echo.Context) error {
	bookings := h.svc.FindBookingsByPNR(c.Param("pnr"))
	if len(bookings) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no ticket found for this PNR")
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) CancelBooking(c echo.Context) error {
	booking, err := h.svc.CancelBooking(c.Request().Context(), c.Param("pnr"))
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func reservationError(err error) error {
	switch {
	case errors.Is(err, service.ErrTrainNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrClassNotOffered),
		errors.Is(err, service.ErrUnknownClass),
		errors.Is(err, service.ErrInvalidPassenger):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCapacityExceeded):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPNRExhausted),
		errors.Is(err, repository.ErrIOUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
