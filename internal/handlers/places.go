package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lifebots/assistant-api/internal/services/geo"
	"github.com/lifebots/assistant-api/internal/validation"
	"go.uber.org/zap"
)

// PlacesHandler proxies OpenStreetMap lookups for the frontend so browser
// clients never talk to Nominatim or Overpass directly.
type PlacesHandler struct {
	geo    *geo.Client
	logger *zap.Logger
}

// NewPlacesHandler creates a places handler.
func NewPlacesHandler(client *geo.Client, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{geo: client, logger: logger}
}

// RegisterRoutes registers the places routes on the given router.
func (h *PlacesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/geocode", h.Geocode).Methods("POST")
	r.HandleFunc("/reverse", h.Reverse).Methods("POST")
	r.HandleFunc("/nearby", h.Nearby).Methods("POST")
}

// GeocodeRequest resolves a free-form address to coordinates.
type GeocodeRequest struct {
	Address string `json:"address" validate:"required,min=2,max=300"`
}

// Geocode resolves an address to a coordinate pair.
func (h *PlacesHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req GeocodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	req.Address = validation.SanitizeText(req.Address)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	location, err := h.geo.Geocode(r.Context(), req.Address)
	if err != nil {
		h.logger.Error("geocode_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadGateway, "geocode_failed", "address lookup failed")
		return
	}
	if location == nil {
		respondJSONError(w, http.StatusNotFound, "not_found", "no match for the given address")
		return
	}
	respondJSON(w, http.StatusOK, location)
}

// ReverseRequest resolves coordinates to an address.
type ReverseRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Reverse resolves a coordinate pair to the nearest address.
func (h *PlacesHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req ReverseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	address, err := h.geo.ReverseGeocode(r.Context(), req.Latitude, req.Longitude)
	if err != nil {
		h.logger.Error("reverse_geocode_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadGateway, "reverse_geocode_failed", "coordinate lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, address)
}

// NearbyRequest searches for amenities around a coordinate pair.
type NearbyRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Amenity   string  `json:"amenity" validate:"required,min=2,max=100"`
	Radius    int     `json:"radius" validate:"gte=0,lte=50000"`
}

// Nearby lists amenities of the requested kind around the coordinates.
func (h *PlacesHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	var req NearbyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	req.Amenity = validation.SanitizeText(req.Amenity)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	places, err := h.geo.SearchNearby(r.Context(), req.Latitude, req.Longitude, req.Amenity, req.Radius)
	if err != nil {
		h.logger.Error("nearby_search_failed",
			zap.String("amenity", req.Amenity),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusBadGateway, "nearby_search_failed", "nearby search failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"places": places})
}
