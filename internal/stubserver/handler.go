package stubserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/response"
)

// fail reports a store error with its own message, anything else as an
// internal error.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	var se *storeError
	if errors.As(err, &se) {
		response.FailWithMessage(c, se.status, se.code, se.msg)
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// queryID reads a positive integer query parameter.
func queryID(c *gin.Context, key string) (int, bool) {
	id, err := strconv.Atoi(c.Query(key))
	if err != nil || id <= 0 {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidID, key+" must be a positive integer")
		return 0, false
	}
	return id, true
}
