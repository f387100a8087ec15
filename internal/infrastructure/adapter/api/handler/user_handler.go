package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler handles the per-user reward endpoints
type UserHandler struct {
	missions usecase.MissionUseCase
	spins    usecase.SpinUseCase
	letters  usecase.LetterUseCase
	accounts usecase.AccountUseCase
	logger   coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	missions usecase.MissionUseCase,
	spins usecase.SpinUseCase,
	letters usecase.LetterUseCase,
	accounts usecase.AccountUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		missions: missions,
		spins:    spins,
		letters:  letters,
		accounts: accounts,
		logger:   logger,
	}
}

// RecordDeposit handles POST /users/{userId}/deposits
func (h *UserHandler) RecordDeposit(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid deposit request format", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		_ = c.Error(bindError(err))
		return
	}

	result, err := h.missions.EvaluateDeposit(c.Request.Context(), userID, req.Amount, req.Reference)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DailyLogin handles POST /users/{userId}/daily-login
func (h *UserHandler) DailyLogin(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.missions.EvaluateDailyLogin(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Spin handles POST /users/{userId}/spins
func (h *UserHandler) Spin(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	outcome, err := h.spins.ConsumeSpin(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// ClaimWord handles POST /users/{userId}/words/{wordId}/claim
func (h *UserHandler) ClaimWord(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	wordID, err := parseID(c, "wordId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.letters.ClaimWord(c.Request.Context(), userID, wordID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLetters handles GET /users/{userId}/letters
func (h *UserHandler) GetLetters(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	letters, err := h.letters.GetLetterCollection(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if letters == nil {
		letters = map[string]int64{}
	}

	c.JSON(http.StatusOK, dto.LetterCollectionResponse{UserID: userID, Letters: letters})
}

// GetAccount handles GET /users/{userId}
func (h *UserHandler) GetAccount(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	summary, err := h.accounts.GetAccount(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListTransactions handles GET /users/{userId}/transactions?limit=&offset=
func (h *UserHandler) ListTransactions(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	limit, offset, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	rows, err := h.accounts.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionListResponse(userID, limit, offset, rows))
}
