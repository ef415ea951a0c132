package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-entries/pkg/simpleentries"
)

// EntryHandler handles HTTP requests for entries using pkg/simpleentries
type EntryHandler struct {
	service simpleentries.Service
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(service simpleentries.Service) *EntryHandler {
	return &EntryHandler{service: service}
}

// Routes returns the routes for entries
func (h *EntryHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/collections", h.ListCollections)

	r.Route("/collections/{collection}/entries", func(r chi.Router) {
		r.Post("/", h.CreateEntry)
		r.Get("/", h.ListEntries)
		r.Get("/{slug}", h.GetEntryBySlug)
	})

	// Administrative access by id, bypassing collection/status filters
	r.Route("/entries/{id}", func(r chi.Router) {
		r.Get("/", h.GetEntryByID)
		r.Patch("/", h.UpdateEntry)
		r.Delete("/", h.DeleteEntry)

		r.Post("/media", h.AttachMedia)
		r.Delete("/media/{mediaID}", h.DetachMedia)
	})

	return r
}

// CreateEntryRequest is the request body for creating an entry
type CreateEntryRequest struct {
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Content   map[string]any `json:"content"`
	Fields    map[string]any `json:"fields"`
	Status    string         `json:"status,omitempty"` // Optional initial status (defaults to "draft")
	CreatedBy string         `json:"created_by"`
}

// UpdateEntryRequest is the request body for a partial entry update
type UpdateEntryRequest struct {
	Slug      *string        `json:"slug,omitempty"`
	Title     *string        `json:"title,omitempty"`
	Content   map[string]any `json:"content,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Status    *string        `json:"status,omitempty"`
	UpdatedBy string         `json:"updated_by,omitempty"`
}

// AttachMediaRequest is the request body for attaching a media asset
type AttachMediaRequest struct {
	MediaID  string `json:"media_id"`
	Position *int   `json:"position,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// ListCollections returns the configured collection definitions
func (h *EntryHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Registry().List())
}

// CreateEntry creates a new entry in a collection
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	createdBy, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		slog.Error("Invalid created_by", "created_by", req.CreatedBy, "error", err)
		http.Error(w, "Invalid created_by", http.StatusBadRequest)
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), simpleentries.CreateEntryRequest{
		Collection: collection,
		Slug:       req.Slug,
		Title:      req.Title,
		Content:    req.Content,
		Fields:     req.Fields,
		Status:     simpleentries.EntryStatus(req.Status),
		CreatedBy:  createdBy,
	})
	if err != nil {
		h.renderError(w, r, "create entry", err)
		return
	}

	slog.Info("Entry created", "entry_id", entry.ID.String(), "collection", collection, "slug", entry.Slug)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, entry)
}

// ListEntries lists entries in a collection
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	req := simpleentries.ListEntriesRequest{
		Collection: chi.URLParam(r, "collection"),
		Status:     simpleentries.EntryStatus(r.URL.Query().Get("status")),
		Include:    parseInclude(r.URL.Query().Get("include")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		req.Limit = &limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid offset", http.StatusBadRequest)
			return
		}
		req.Offset = &offset
	}

	entries, err := h.service.ListEntries(r.Context(), req)
	if err != nil {
		h.renderError(w, r, "list entries", err)
		return
	}
	if entries == nil {
		entries = []*simpleentries.Entry{}
	}
	render.JSON(w, r, entries)
}

// GetEntryBySlug retrieves an entry by its slug within a collection
func (h *EntryHandler) GetEntryBySlug(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetEntryBySlug(r.Context(), simpleentries.GetEntryBySlugRequest{
		Collection: chi.URLParam(r, "collection"),
		Slug:       chi.URLParam(r, "slug"),
		Status:     simpleentries.EntryStatus(r.URL.Query().Get("status")),
		Include:    parseInclude(r.URL.Query().Get("include")),
	})
	if err != nil {
		h.renderError(w, r, "get entry by slug", err)
		return
	}
	if entry == nil {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	render.JSON(w, r, entry)
}

// GetEntryByID retrieves an entry by its id
func (h *EntryHandler) GetEntryByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.GetEntryByID(r.Context(), id, parseInclude(r.URL.Query().Get("include")))
	if err != nil {
		h.renderError(w, r, "get entry by id", err)
		return
	}
	render.JSON(w, r, entry)
}

// UpdateEntry applies a partial update to an entry
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	update := simpleentries.UpdateEntryRequest{
		ID:      id,
		Slug:    req.Slug,
		Title:   req.Title,
		Content: req.Content,
		Fields:  req.Fields,
	}
	if req.Status != nil {
		status := simpleentries.EntryStatus(*req.Status)
		update.Status = &status
	}
	if req.UpdatedBy != "" {
		updatedBy, err := uuid.Parse(req.UpdatedBy)
		if err != nil {
			http.Error(w, "Invalid updated_by", http.StatusBadRequest)
			return
		}
		update.UpdatedBy = updatedBy
	}

	entry, err := h.service.UpdateEntry(r.Context(), update)
	if err != nil {
		h.renderError(w, r, "update entry", err)
		return
	}

	slog.Info("Entry updated", "entry_id", id.String())
	render.JSON(w, r, entry)
}

// DeleteEntry deletes an entry and its media associations
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		h.renderError(w, r, "delete entry", err)
		return
	}

	slog.Info("Entry deleted", "entry_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// AttachMedia attaches a media asset to an entry
func (h *EntryHandler) AttachMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req AttachMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mediaID, err := uuid.Parse(req.MediaID)
	if err != nil {
		http.Error(w, "Invalid media_id", http.StatusBadRequest)
		return
	}

	assoc, err := h.service.AttachMedia(r.Context(), simpleentries.AttachMediaRequest{
		EntryID:  id,
		MediaID:  mediaID,
		Position: req.Position,
		Caption:  req.Caption,
	})
	if err != nil {
		h.renderError(w, r, "attach media", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, assoc)
}

// DetachMedia detaches a media asset from an entry
func (h *EntryHandler) DetachMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	mediaID, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		http.Error(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DetachMedia(r.Context(), id, mediaID); err != nil {
		h.renderError(w, r, "detach media", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntryHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid entry ID", "entry_id", idStr, "error", err)
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// renderError maps the library error taxonomy onto HTTP status codes.
func (h *EntryHandler) renderError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, simpleentries.ErrCollectionNotFound),
		errors.Is(err, simpleentries.ErrEntryNotFound),
		errors.Is(err, simpleentries.ErrMediaNotFound),
		errors.Is(err, simpleentries.ErrProfileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, simpleentries.ErrDuplicateSlug),
		errors.Is(err, simpleentries.ErrSlugConflict),
		errors.Is(err, simpleentries.ErrUpdateConflict),
		errors.Is(err, simpleentries.ErrMediaAlreadyAttached):
		status = http.StatusConflict
	case errors.Is(err, simpleentries.ErrValidation),
		errors.Is(err, simpleentries.ErrInvalidEntryStatus),
		errors.Is(err, simpleentries.ErrInvalidStatusTransition):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "op", op, "error", err)
	} else {
		slog.Info("Request rejected", "op", op, "status", status, "error", err)
	}
	http.Error(w, err.Error(), status)
}

// parseInclude parses the comma-separated include query parameter
// (e.g. "creator,media") into a relation set.
func parseInclude(raw string) simpleentries.Relations {
	var rel simpleentries.Relations
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case "creator":
			rel.Creator = true
		case "media":
			rel.Media = true
		}
	}
	return rel
}
