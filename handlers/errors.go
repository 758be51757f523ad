package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"baggr-backend/identity"
	"baggr-backend/services"
	"baggr-backend/utils"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// respondError maps service errors to HTTP responses. Anything not
// recognised is logged, reported to Sentry and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var fieldErr *services.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErr.Fields})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrCycle),
		errors.Is(err, services.ErrInvalidParent):
		c.JSON(http.StatusBadRequest, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrCategoryInUse):
		c.JSON(http.StatusConflict, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, identity.ErrDependencyUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Authorization service unavailable"})
	default:
		internalError(c, err)
	}
}

func internalError(c *gin.Context, err error) {
	zap.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}

// bindError answers a failed ShouldBind with field-level detail.
func bindError(c *gin.Context, err error) {
	body := gin.H{"error": utils.SanitizeValidationError(err)}
	if fields := utils.FieldErrors(err); fields != nil {
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func parseUUIDParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

type pagination struct {
	Page  int
	Limit int
}

func (p pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

func (p pagination) pages(total int64) int {
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

func parsePagination(c *gin.Context) pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return pagination{Page: page, Limit: limit}
}

func likePattern(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}
