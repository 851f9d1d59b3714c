package handler

import (
	"net/http"

	"dry-cleaner/internal/model"

	"github.com/rs/zerolog"
)

// CatalogueHandler serves the clothing catalogue.
type CatalogueHandler struct {
	logger zerolog.Logger
}

// NewCatalogueHandler creates a catalogue handler.
func NewCatalogueHandler(logger zerolog.Logger) *CatalogueHandler {
	return &CatalogueHandler{logger: logger.With().Str("handler", "catalogue").Logger()}
}

// List handles GET /api/catalogue.
func (h *CatalogueHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Catalogue, h.logger)
}
