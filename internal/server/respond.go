package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/centsible/centsible/internal/common"
)

// pageMeta describes the pagination portion of a list response.
type pageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, data any, meta pageMeta) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "meta": meta})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondServiceError maps domain errors onto HTTP status codes. Anything
// unrecognized becomes a 500 with a generic message so internals stay hidden.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		respondError(c, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, common.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, userMessage(err))
	case errors.Is(err, common.ErrNotFound):
		respondError(c, http.StatusNotFound, userMessage(err))
	case errors.Is(err, common.ErrConflict):
		respondError(c, http.StatusConflict, userMessage(err))
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// respondBindError turns gin binding failures into 400s with field-level
// messages when the failure came from struct validation.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		respondError(c, http.StatusBadRequest, strings.Join(msgs, "; "))
		return
	}
	respondError(c, http.StatusBadRequest, "invalid request body")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// userMessage strips the error down to its outermost description.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
