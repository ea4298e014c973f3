package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adilevy/guide-roster-api/internal/models"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

// Envelope is the wire shape of every JSON response body.
type Envelope struct {
	Data       interface{}        `json:"data,omitempty"`
	Error      *appErrors.Error   `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

func write(c *gin.Context, status int, env Envelope) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, env)
}

// OK sends a 200 with the payload wrapped in the envelope.
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Envelope{Data: data})
}

// Paginated sends a 200 list payload with paging metadata.
func Paginated(c *gin.Context, data interface{}, pagination *models.Pagination) {
	write(c, http.StatusOK, Envelope{Data: data, Pagination: pagination})
}

// Created sends a 201 with the newly created resource.
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Envelope{Data: data})
}

// Error normalizes err into the envelope's error shape and picks the
// status from it.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	write(c, appErr.Status, Envelope{Error: appErr})
}

// NoContent sends an empty 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
