package transport

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	schedule "salleYaFloor/internal/modules/schedule/domain"
	"salleYaFloor/internal/modules/tables/domain"
)

// FloorStateProvider is the slice of the shared cache the floor endpoints
// need: memoized occupancy per slot.
type FloorStateProvider interface {
	FloorState(date string, service schedule.Service) []domain.TableStatus
}

type tableStatusDTO struct {
	Number        int    `json:"number"`
	Capacity      int    `json:"capacity"`
	Section       string `json:"section"`
	Occupancy     string `json:"occupancy"`
	ReservationID int    `json:"reservationId,omitempty"`
	Guests        int    `json:"guests,omitempty"`
	Name          string `json:"name,omitempty"`
	Time          string `json:"time,omitempty"`
}

type floorResponse struct {
	Date    string           `json:"date"`
	Service string           `json:"service"`
	Tables  []tableStatusDTO `json:"tables"`
	Slots   []string         `json:"slots"`
}

type combinationsResponse struct {
	Date         string  `json:"date"`
	Service      string  `json:"service"`
	Guests       int     `json:"guests"`
	Available    []int   `json:"available"`
	Combinations [][]int `json:"combinations"`
}

// FloorHandler serves the derived occupancy grid and the adjacent-table
// suggestions. Both read from the shared in-memory cache; nothing here
// talks to the store.
type FloorHandler struct {
	floor FloorStateProvider
	now   func() time.Time
}

func NewFloorHandler(floor FloorStateProvider) *FloorHandler {
	return &FloorHandler{floor: floor, now: time.Now}
}

func (h *FloorHandler) Register(g *echo.Group) {
	g.GET("/floor", h.Floor)
	g.GET("/floor/combinations", h.Combinations)
}

// resolveSlot derives the (date, service) pair from the query, defaulting
// to today and the service the current wall clock falls into.
func (h *FloorHandler) resolveSlot(c echo.Context) (string, schedule.Service) {
	now := h.now()
	date := c.QueryParam("date")
	if date == "" {
		date = now.Format("2006-01-02")
	}
	service := schedule.NormalizeService(c.QueryParam("service"))
	if c.QueryParam("service") == "" {
		service = schedule.ClassifyService(now.Format("15:04"))
	}
	return date, service
}

func (h *FloorHandler) Floor(c echo.Context) error {
	date, service := h.resolveSlot(c)
	statuses := h.floor.FloorState(date, service)

	tables := make([]tableStatusDTO, 0, len(statuses))
	for _, status := range statuses {
		dto := tableStatusDTO{
			Number:    status.Table.Number,
			Capacity:  status.Table.Capacity,
			Section:   string(status.Table.Section),
			Occupancy: string(status.Occupancy),
		}
		if r := status.Reservation; r != nil {
			dto.ReservationID = r.ID
			dto.Guests = r.Guests
			dto.Name = r.Name
			dto.Time = r.Time
		}
		tables = append(tables, dto)
	}

	return c.JSON(http.StatusOK, floorResponse{
		Date:    date,
		Service: string(service),
		Tables:  tables,
		Slots:   schedule.Slots(service),
	})
}

func (h *FloorHandler) Combinations(c echo.Context) error {
	date, service := h.resolveSlot(c)
	guests, err := intQueryParam(c, "guests")
	if err != nil || guests <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid guests")
	}

	available := make([]int, 0, domain.TableCount)
	for _, status := range h.floor.FloorState(date, service) {
		if status.Occupancy == domain.OccupancyFree {
			available = append(available, status.Table.Number)
		}
	}
	combinations := domain.FindCombinations(guests, available)
	if combinations == nil {
		combinations = [][]int{}
	}

	return c.JSON(http.StatusOK, combinationsResponse{
		Date:         date,
		Service:      string(service),
		Guests:       guests,
		Available:    available,
		Combinations: combinations,
	})
}

func intQueryParam(c echo.Context, name string) (int, error) {
	value := 0
	err := echo.QueryParamsBinder(c).Int(name, &value).BindError()
	return value, err
}
