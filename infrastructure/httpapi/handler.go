package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"technician-marketplace/application"
	"technician-marketplace/domain"
)

const defaultSuggestTopK = 10

// Handler serves the discovery and admin endpoints.
type Handler struct {
	technicians *application.TechnicianService
	discovery   *application.DiscoveryService
	adminToken  string
}

// NewHandler creates a new Handler.
func NewHandler(technicians *application.TechnicianService, discovery *application.DiscoveryService, adminToken string) *Handler {
	return &Handler{
		technicians: technicians,
		discovery:   discovery,
		adminToken:  adminToken,
	}
}

// requireAdmin gates the admin endpoints on the bearer token issued by the
// deployment's auth provider. Identity verification itself lives there; this
// layer only checks the admin capability.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			jsonError(w, http.StatusUnauthorized, "Unauthorized: Admin access required")
			return
		}
		next(w, r)
	}
}

// HandleBrowse serves the default filter-only catalogue search.
func (h *Handler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromQuery(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.discovery.Browse(r.Context(), filters)
	if err != nil {
		log.Printf("Browse failed: %v\n", err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch technicians")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"technicians":     result.Technicians,
		"availableCities": result.AvailableCities,
		"availableTags":   result.AvailableTags,
	})
}

type suggestRequest struct {
	Query     string   `json:"query"`
	JobType   string   `json:"jobType,omitempty"`
	City      string   `json:"city,omitempty"`
	MinRating float64  `json:"minRating,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	TopK      int      `json:"topK,omitempty"`
}

// HandleSuggest serves the AI-assisted similarity search. A failure on the
// vector path is reported as an explicit error payload with no results, so
// the caller can tell "unavailable" apart from "nothing matched".
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.JobType != "" && !domain.JobType(req.JobType).Valid() {
		jsonError(w, http.StatusBadRequest, "unknown job type")
		return
	}

	topK := req.TopK
	if topK <= 0 || topK > 50 {
		topK = defaultSuggestTopK
	}

	filters := application.Filters{
		JobType:   domain.JobType(req.JobType),
		City:      req.City,
		MinRating: req.MinRating,
		Tags:      req.Tags,
	}

	results, err := h.discovery.Suggest(r.Context(), filters, req.Query, topK)
	if err != nil {
		log.Printf("Suggest failed: %v\n", err)
		jsonResponse(w, http.StatusBadGateway, map[string]any{
			"technicians": []any{},
			"error":       "Suggestions are unavailable right now",
		})
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"technicians": results})
}

type technicianRequest struct {
	Name      string   `json:"name"`
	JobTypes  []string `json:"jobTypes"`
	Bio       string   `json:"bio"`
	Tags      []string `json:"tags"`
	Cities    []string `json:"cities"`
	IsVisible bool     `json:"isVisible"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
}

// HandleCreate creates a technician profile.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req technicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := &domain.TechnicianProfile{
		Name:      req.Name,
		JobTypes:  toJobTypes(req.JobTypes),
		Bio:       req.Bio,
		Tags:      req.Tags,
		Cities:    req.Cities,
		IsVisible: req.IsVisible,
		PhotoURL:  req.PhotoURL,
	}

	created, err := h.technicians.Create(r.Context(), profile)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create technician")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"id": created.ID, "success": true})
}

// HandleList returns every profile, hidden ones included.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	technicians, err := h.technicians.List(r.Context())
	if err != nil {
		log.Printf("List failed: %v\n", err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch technicians")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"technicians": technicians})
}

// HandleGet returns one profile, including its sync state for the admin UI.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.technicians.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch technician")
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

type technicianUpdateRequest struct {
	Name      *string  `json:"name"`
	JobTypes  []string `json:"jobTypes"`
	Bio       *string  `json:"bio"`
	Tags      []string `json:"tags"`
	Cities    []string `json:"cities"`
	IsVisible *bool    `json:"isVisible"`
	PhotoURL  *string  `json:"photoUrl"`
}

// HandleUpdate applies a partial update to a profile.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req technicianUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := application.TechnicianUpdate{
		Name:      req.Name,
		Bio:       req.Bio,
		Tags:      req.Tags,
		Cities:    req.Cities,
		IsVisible: req.IsVisible,
		PhotoURL:  req.PhotoURL,
	}
	if req.JobTypes != nil {
		update.JobTypes = toJobTypes(req.JobTypes)
	}

	updated, err := h.technicians.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update technician")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"id": updated.ID, "success": true})
}

// HandleDelete removes a profile and its index entry.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.technicians.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err, "Failed to delete technician")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}

// HandleResync force-rebuilds a profile's index entry. The response carries
// the fresh sync state so the admin UI can show the outcome immediately.
func (h *Handler) HandleResync(w http.ResponseWriter, r *http.Request) {
	profile, err := h.technicians.Resync(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err, "Failed to resync technician")
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// HandleSeed installs the demo catalogue.
func (h *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	ids, err := h.technicians.Seed(r.Context())
	if err != nil {
		log.Printf("Seed failed: %v\n", err)
		jsonError(w, http.StatusInternalServerError, "Failed to seed technicians")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"ids": ids, "success": true})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		jsonError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, domain.ErrProfileNotFound):
		jsonError(w, http.StatusNotFound, "Technician not found")
	default:
		log.Printf("Request failed: %v\n", err)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}

func filtersFromQuery(r *http.Request) (application.Filters, error) {
	var filters application.Filters

	if jobType := r.URL.Query().Get("jobType"); jobType != "" {
		if !domain.JobType(jobType).Valid() {
			return filters, errors.New("unknown job type")
		}
		filters.JobType = domain.JobType(jobType)
	}

	filters.City = r.URL.Query().Get("city")

	if minRating := r.URL.Query().Get("minRating"); minRating != "" {
		value, err := strconv.ParseFloat(minRating, 64)
		if err != nil || value < 0 {
			return filters, errors.New("minRating must be a non-negative number")
		}
		filters.MinRating = value
	}

	if tags := r.URL.Query().Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}

	return filters, nil
}

func toJobTypes(values []string) []domain.JobType {
	jobTypes := make([]domain.JobType, len(values))
	for i, v := range values {
		jobTypes[i] = domain.JobType(v)
	}
	return jobTypes
}
