package handler

import (
	"fmt"
	"net/http"

	domainerr "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles reward configuration endpoints
type CatalogHandler struct {
	catalog usecase.CatalogUseCase
	letters usecase.LetterUseCase
	logger  coreport.Logger
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(catalog usecase.CatalogUseCase, letters usecase.LetterUseCase, logger coreport.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		letters: letters,
		logger:  logger,
	}
}

// ListWords handles GET /words
func (h *CatalogHandler) ListWords(c *gin.Context) {
	words, err := h.letters.ListActiveWords(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := make([]dto.WordResponse, 0, len(words))
	for _, w := range words {
		resp = append(resp, dto.NewWordResponse(w))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateDepositMission handles POST /admin/deposit-missions
func (h *CatalogHandler) CreateDepositMission(c *gin.Context) {
	var in usecase.DepositMissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	m, err := h.catalog.CreateDepositMission(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewDepositMissionResponse(m))
}

// CreateDailyLoginMission handles POST /admin/daily-login-missions
func (h *CatalogHandler) CreateDailyLoginMission(c *gin.Context) {
	var in usecase.DailyLoginMissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	m, err := h.catalog.CreateDailyLoginMission(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.DailyLoginMissionResponse{
		ID:           m.ID,
		Name:         m.Name,
		SpinsGranted: m.SpinsGranted,
		Active:       m.Active,
	})
}

// CreateSlot handles POST /admin/slots
func (h *CatalogHandler) CreateSlot(c *gin.Context) {
	var in usecase.SlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	s, err := h.catalog.CreateSlot(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.SlotResponse{
		ID:     s.ID,
		Type:   string(s.Type),
		Value:  s.Value,
		Weight: s.Weight,
		Active: s.Active,
	})
}

// CreateWord handles POST /admin/words
func (h *CatalogHandler) CreateWord(c *gin.Context) {
	var in usecase.WordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	w, err := h.catalog.CreateWord(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewWordResponse(w))
}

// SetActive handles PATCH /admin/{kind}/{id}/active
func (h *CatalogHandler) SetActive(c *gin.Context) {
	kind := usecase.CatalogKind(c.Param("kind"))
	switch kind {
	case usecase.CatalogDepositMissions, usecase.CatalogDailyLoginMissions, usecase.CatalogSlots, usecase.CatalogWords:
	default:
		_ = c.Error(fmt.Errorf("%w: unknown catalog kind %q", domainerr.ErrNotFound, kind))
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	if err := h.catalog.SetActive(c.Request.Context(), kind, id, *req.Active); err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("Catalog row toggled", map[string]any{
		"kind":   kind,
		"id":     id,
		"active": *req.Active,
	})
	c.JSON(http.StatusOK, gin.H{"kind": kind, "id": id, "active": *req.Active})
}
