package transport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"salleYaFloor/internal/modules/reservations/application/port"
	"salleYaFloor/internal/modules/reservations/application/usecase"
	"salleYaFloor/internal/modules/reservations/domain"
	"salleYaFloor/internal/shared/httputil"
)

type reservationDTO struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Service     string     `json:"service"`
	Guests      int        `json:"guests"`
	Status      string     `json:"status"`
	Tables      []int      `json:"tables,omitempty"`
	Note        string     `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

func toDTO(r domain.Reservation) reservationDTO {
	return reservationDTO{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Date:        r.Date,
		Time:        r.Time,
		Service:     string(r.Service()),
		Guests:      r.Guests,
		Status:      string(r.Status),
		Tables:      r.AssignedTables(),
		Note:        r.Note(),
		CreatedAt:   r.CreatedAt,
		CancelledAt: r.CancelledAt,
	}
}

func toDTOList(all []domain.Reservation) []reservationDTO {
	out := make([]reservationDTO, 0, len(all))
	for _, r := range all {
		out = append(out, toDTO(r))
	}
	return out
}

type createRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Guests   int    `json:"guests"`
	Status   string `json:"status"`
	Comments string `json:"comments"`
	Tables   []int  `json:"tables"`
}

type assignRequest struct {
	Tables   []int `json:"tables"`
	Reassign bool  `json:"reassign"`
}

type contactRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ReservationHandler exposes the reservation lifecycle over REST for the
// staff frontend.
type ReservationHandler struct {
	lifecycle *usecase.LifecycleUseCase
	assign    *usecase.AssignUseCase
	store     port.ReservationStore
	errors    *httputil.ErrorMapper
}

func NewReservationHandler(lifecycle *usecase.LifecycleUseCase, assign *usecase.AssignUseCase, store port.ReservationStore) *ReservationHandler {
	mapper := httputil.NewErrorMapper().
		WithMapping(usecase.ErrInvalidInput, http.StatusBadRequest, "invalid input").
		WithMapping(usecase.ErrEmptySelection, http.StatusBadRequest, "no tables selected").
		WithMapping(usecase.ErrInvalidTransition, http.StatusConflict, "invalid status transition").
		WithMapping(usecase.ErrTableUnavailable, http.StatusConflict, "table unavailable").
		WithMapping(port.ErrReservationNotFound, http.StatusNotFound, "reservation not found").
		WithMapping(port.ErrStoreUnavailable, http.StatusBadGateway, "reservation store unavailable")
	return &ReservationHandler{lifecycle: lifecycle, assign: assign, store: store, errors: mapper}
}

// Register mounts the reservation routes on the given group.
func (h *ReservationHandler) Register(g *echo.Group) {
	g.GET("/reservations", h.List)
	g.POST("/reservations", h.Create)
	g.GET("/reservations/:id", h.Get)
	g.POST("/reservations/:id/confirm", h.Confirm)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.POST("/reservations/:id/assign", h.Assign)
	g.POST("/reservations/:id/arrive", h.Arrive)
	g.POST("/reservations/:id/complete", h.Complete)
	g.PATCH("/reservations/:id/contact", h.Contact)
}

func (h *ReservationHandler) fail(err error) *echo.HTTPError {
	info := h.errors.Map(err)
	return echo.NewHTTPError(info.Status, info.Message)
}

func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}

func (h *ReservationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("status"); raw != "" {
		status := domain.NormalizeStatus(raw)
		if !status.Known() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
		all, err := h.store.ListByStatus(ctx, status)
		if err != nil {
			return h.fail(err)
		}
		return c.JSON(http.StatusOK, toDTOList(all))
	}

	all, err := h.store.ListAll(ctx)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, toDTOList(all))
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	reservation, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, toDTO(reservation))
}

func (h *ReservationHandler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	reservation, err := h.lifecycle.Create(c.Request().Context(), port.NewReservation{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Date:     req.Date,
		Time:     req.Time,
		Guests:   req.Guests,
		Status:   domain.NormalizeStatus(req.Status),
		Comments: req.Comments,
		Tables:   req.Tables,
	})
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusCreated, toDTO(reservation))
}

func (h *ReservationHandler) Confirm(c echo.Context) error {
	return h.simpleTransition(c, h.lifecycle.Confirm)
}

func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.simpleTransition(c, h.lifecycle.Cancel)
}

func (h *ReservationHandler) Arrive(c echo.Context) error {
	return h.simpleTransition(c, h.lifecycle.Arrive)
}

func (h *ReservationHandler) Complete(c echo.Context) error {
	return h.simpleTransition(c, h.lifecycle.Complete)
}

func (h *ReservationHandler) simpleTransition(c echo.Context, op func(context.Context, int) (domain.Reservation, error)) error {
	id, ok := pathID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	reservation, err := op(c.Request().Context(), id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, toDTO(reservation))
}

func (h *ReservationHandler) Assign(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	reservation, err := h.assign.Assign(c.Request().Context(), id, req.Tables, req.Reassign)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, toDTO(reservation))
}

func (h *ReservationHandler) Contact(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	reservation, err := h.lifecycle.CorrectContact(c.Request().Context(), id, port.ContactUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, toDTO(reservation))
}
