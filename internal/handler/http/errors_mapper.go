package http

import (
	"errors"
	"net/http"

	"github.com/veridoc/signcore/internal/service"
	"github.com/veridoc/signcore/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:    http.StatusBadRequest,
	service.ErrCorrectionRequestEmpty: http.StatusBadRequest,
	service.ErrFieldOwnership:         http.StatusForbidden,
	service.ErrIllegalTransition:      http.StatusConflict,
	service.ErrCorrectionOutstanding:  http.StatusConflict,
	service.ErrTokenInvalid:           http.StatusUnauthorized,
	service.ErrTokenCreationFailed:    http.StatusInternalServerError,
	service.ErrRenderFailed:           http.StatusInternalServerError,

	store.ErrFieldNotFound:    http.StatusNotFound,
	store.ErrDocumentNotFound: http.StatusNotFound,
	store.ErrSignerNotFound:   http.StatusNotFound,
	store.ErrTokenNotFound:    http.StatusNotFound,
	store.ErrBlobNotFound:     http.StatusNotFound,
	store.ErrNothingSaved:     http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
