package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"property-backoffice/internal/model"
	"property-backoffice/internal/store"
)

// GetDashboard handles GET /api/dashboard.
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.store.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListApartments handles GET /api/apartments.
func (h *Handler) ListApartments(c *gin.Context) {
	list, err := h.store.ListApartments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createApartmentRequest struct {
	Name            string  `json:"name" binding:"required"`
	Address         string  `json:"address"`
	ElectricityRate float64 `json:"electricityRate"`
	WaterRate       float64 `json:"waterRate"`
	DefaultRent     float64 `json:"defaultRent"`
	RoomCount       int     `json:"roomCount"`
}

// CreateApartment handles POST /api/apartments. Zero rates and rent fall
// back to the defaults; roomCount pre-creates rooms "1".."n".
func (h *Handler) CreateApartment(c *gin.Context) {
	var req createApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	apt := &model.Apartment{
		Name:            req.Name,
		Address:         req.Address,
		ElectricityRate: req.ElectricityRate,
		WaterRate:       req.WaterRate,
		DefaultRent:     req.DefaultRent,
	}
	if err := h.store.CreateApartment(c.Request.Context(), apt, req.RoomCount); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

// GetApartment handles GET /api/apartments/:id.
func (h *Handler) GetApartment(c *gin.Context) {
	apt, err := h.store.GetApartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

type updateApartmentRequest struct {
	Name            *string  `json:"name"`
	Address         *string  `json:"address"`
	ElectricityRate *float64 `json:"electricityRate"`
	WaterRate       *float64 `json:"waterRate"`
	DefaultRent     *float64 `json:"defaultRent"`
}

// UpdateApartment handles PUT /api/apartments/:id. Omitted fields keep their value.
func (h *Handler) UpdateApartment(c *gin.Context) {
	var req updateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	apt, err := h.store.UpdateApartment(c.Request.Context(), c.Param("id"), store.ApartmentUpdate{
		Name:            req.Name,
		Address:         req.Address,
		ElectricityRate: req.ElectricityRate,
		WaterRate:       req.WaterRate,
		DefaultRent:     req.DefaultRent,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// DeleteApartment handles DELETE /api/apartments/:id.
func (h *Handler) DeleteApartment(c *gin.Context) {
	if err := h.store.DeleteApartment(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createRoomRequest struct {
	RoomNumber string  `json:"roomNumber" binding:"required"`
	Floor      int     `json:"floor"`
	BaseRent   float64 `json:"baseRent"`
}

// CreateRoom handles POST /api/apartments/:id/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room := &model.Room{
		ApartmentID: c.Param("id"),
		RoomNumber:  req.RoomNumber,
		Floor:       req.Floor,
		BaseRent:    req.BaseRent,
	}
	if err := h.store.CreateRoom(c.Request.Context(), room); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

type bulkRoomsRequest struct {
	Pattern  string  `json:"pattern" binding:"required"`
	BaseRent float64 `json:"baseRent"`
}

// BulkCreateRooms handles POST /api/apartments/:id/rooms/bulk, e.g.
// {"pattern": "101-110, 201"}. Existing room numbers are skipped.
func (h *Handler) BulkCreateRooms(c *gin.Context) {
	var req bulkRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rooms, err := h.store.CreateRoomsFromPattern(c.Request.Context(), c.Param("id"), req.Pattern, req.BaseRent)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": rooms, "count": len(rooms)})
}

type roomStatusRequest struct {
	Status model.RoomStatus `json:"status" binding:"required"`
	Notes  string           `json:"notes"`
}

// UpdateRoomStatus handles PUT /api/rooms/:room_id/status.
func (h *Handler) UpdateRoomStatus(c *gin.Context) {
	var req roomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.store.UpdateRoomStatus(c.Request.Context(), c.Param("room_id"), req.Status, req.Notes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type roomRentRequest struct {
	BaseRent *float64 `json:"baseRent" binding:"required"`
}

// UpdateRoomRent handles PUT /api/rooms/:room_id/rent.
func (h *Handler) UpdateRoomRent(c *gin.Context) {
	var req roomRentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.store.UpdateRoomRent(c.Request.Context(), c.Param("room_id"), *req.BaseRent)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:room_id.
func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.store.DeleteRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
