package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adilevy/guide-roster-api/internal/middleware"
	"github.com/adilevy/guide-roster-api/internal/models"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id parameter")
	}
	return id, nil
}

func monthParams(c *gin.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "invalid year parameter")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "invalid month parameter")
	}
	return year, month, nil
}

func dateParam(c *gin.Context, name string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", c.Param(name))
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date parameter")
	}
	return day.UTC(), nil
}
