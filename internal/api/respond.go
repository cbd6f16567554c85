// Package api holds the gin handlers of the HTTP API.
package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/types"
)

type errorResponse = middleware.ErrorResponse

// statusOf maps err onto an HTTP status code and a client-safe message.
func statusOf(err error) (int, errorResponse) {
	if verr, ok := errs.AsValidation(err); ok {
		return http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field}
	}
	for _, m := range []struct {
		target error
		status int
	}{
		{errs.ErrValidation, http.StatusBadRequest},
		{errs.ErrInvalidCredentials, http.StatusUnauthorized},
		{errs.ErrUnauthorized, http.StatusUnauthorized},
		{errs.ErrForbidden, http.StatusForbidden},
		{errs.ErrNotFound, http.StatusNotFound},
		{errs.ErrAlreadyExists, http.StatusConflict},
		{errs.ErrInUse, http.StatusConflict},
		{errs.ErrRateLimited, http.StatusTooManyRequests},
	} {
		if errors.Is(err, m.target) {
			msg := m.target.Error()
			if m.target == errs.ErrValidation {
				msg = err.Error()
			}
			return m.status, errorResponse{Error: msg}
		}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func respondError(c *gin.Context, err error) {
	status, body := statusOf(err)
	if status == http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the body into req and answers 400 on malformed input.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: errs.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.Invalid(name, "must be a non-negative integer")
	}
	return n, nil
}

// queryBool treats "1" and "true" as set.
func queryBool(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

func pageFromQuery(c *gin.Context) (types.Page, error) {
	number, err := queryInt(c, "page")
	if err != nil {
		return types.Page{}, err
	}
	if number > types.MaxPageNumber {
		return types.Page{}, errs.Invalid("page", "must be at most %d", types.MaxPageNumber)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return types.Page{}, err
	}
	return types.NewPage(number, limit), nil
}

// paginate wraps results in the list envelope with absolute next and
// previous links.
func paginate[T any](c *gin.Context, page types.Page, total int64, results []T) types.Paginated[T] {
	if results == nil {
		results = []T{}
	}
	out := types.Paginated[T]{Count: total, Results: results}
	if page.HasNext(total) {
		link := pageURL(c, page.Number+1, page.Limit)
		out.Next = &link
	}
	if page.Number > 1 {
		link := pageURL(c, page.Number-1, page.Limit)
		out.Previous = &link
	}
	return out
}

func pageURL(c *gin.Context, number, limit int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(number))
	q.Set("limit", strconv.Itoa(limit))
	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
