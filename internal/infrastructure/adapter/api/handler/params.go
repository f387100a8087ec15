package handler

import (
	"fmt"
	"strconv"

	domainerr "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/account"
	"github.com/gin-gonic/gin"
)

func parseUserID(c *gin.Context) (uint64, error) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID == 0 {
		return 0, domainerr.ErrInvalidUserID
	}
	return userID, nil
}

func parseID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domainerr.ErrInvalidRequest, name)
	}
	return id, nil
}

func parsePage(c *gin.Context) (limit, offset int, err error) {
	limit = account.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("%w: limit must be a positive integer", domainerr.ErrInvalidRequest)
		}
		if limit > account.MaxListLimit {
			limit = account.MaxListLimit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("%w: offset must be a non-negative integer", domainerr.ErrInvalidRequest)
		}
	}
	return limit, offset, nil
}

func bindError(err error) error {
	return fmt.Errorf("%w: %s", domainerr.ErrInvalidRequest, err.Error())
}
