package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"staybook/internal/hotels/service"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type HotelHandler struct {
	service service.HotelService
	log     *logger.Logger
}

func NewHotelHandler(service service.HotelService, log *logger.Logger) *HotelHandler {
	return &HotelHandler{
		service: service,
		log:     log,
	}
}

func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var hotel model.Hotel
	if err := json.NewDecoder(r.Body).Decode(&hotel); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &hotel, actor); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, hotel); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *HotelHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	hotel, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := h.extractFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	hotels, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, hotels, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	id := ps.ByName("id")

	var updates model.HotelUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates, actor); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	hotel, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/hotels", h.Create)
	router.GET("/api/v1/hotels", h.List)
	router.GET("/api/v1/hotels/id/:id", h.GetByID)
	router.PATCH("/api/v1/hotels/id/:id", h.Update)
	router.DELETE("/api/v1/hotels/id/:id", h.Delete)
}

func (h *HotelHandler) extractFilter(r *http.Request) (*model.HotelFilter, error) {
	query := r.URL.Query()
	filter := &model.HotelFilter{}

	if city := query.Get("city"); city != "" {
		filter.City = sanitizer.SanitizeCity(city)
	}

	var err error
	if filter.MinPrice, err = parseOptionalFloat(query.Get("min_price"), "min_price"); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parseOptionalFloat(query.Get("max_price"), "max_price"); err != nil {
		return nil, err
	}
	if filter.MinRating, err = parseOptionalFloat(query.Get("min_rating"), "min_rating"); err != nil {
		return nil, err
	}

	checkIn, checkOut, err := httputil.ExtractDateRange(r)
	if err != nil {
		return nil, err
	}
	filter.CheckIn = checkIn
	filter.CheckOut = checkOut

	return filter, nil
}

func (h *HotelHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func parseOptionalFloat(value, name string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, apperrors.InvalidInput(name + " must be a number")
	}
	return &f, nil
}
