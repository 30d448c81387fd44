package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	logpkg "github.com/kailas-cloud/transcriptqa/internal/logger"
)

// domainError maps a sentinel to its HTTP rendering. The response message
// is the sentinel's own text so wrapped details stay in the logs.
type domainError struct {
	sentinel error
	status   int
	code     ErrorCode
}

// First match wins: a 429 from the provider is reported as rate limiting
// even though it also wraps the provider error.
var domainErrors = []domainError{
	{domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed},
	{domain.ErrIndexNotFound, http.StatusNotFound, ErrorCodeIndexNotFound},
	{domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited},
	{domain.ErrEmbeddingQuotaExceeded, http.StatusTooManyRequests, ErrorCodeEmbeddingQuotaExceeded},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError},
	{domain.ErrChatProviderError, http.StatusBadGateway, ErrorCodeChatProviderError},
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.From(r.Context(), s.logger)
	for _, de := range domainErrors {
		if errors.Is(err, de.sentinel) {
			log.Warn("Request failed", zap.String("code", string(de.code)), zap.Error(err))
			writeError(w, de.status, de.code, de.sentinel.Error())
			return
		}
	}
	log.Error("Unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
