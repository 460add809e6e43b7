package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAlreadyExists))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInsufficientStock))
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeTokenExpired))
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(ErrCodeUnavailable))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NOBODY_KNOWS"))
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeUnauthorized, NormalizeErrorCode("INVALID_CREDENTIALS"))
	assert.Equal(t, ErrCodeInvalidState, NormalizeErrorCode("INVALID_TRANSITION"))
	assert.Equal(t, ErrCodeConflict, NormalizeErrorCode("CATEGORY_IN_USE"))

	// Field validation codes fold into invalid input.
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_PRODUCT_NAME"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_RATING"))
}
