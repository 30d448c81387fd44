package chi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
)

const maxBodyBytes = 1 << 20

// Usage response headers.
const (
	HeaderEmbeddingTokens = "X-Embedding-Tokens"
	HeaderChatTokens      = "X-Chat-Tokens"
)

// decode reads a JSON body into v, rejecting unknown fields and bodies over
// maxBodyBytes. On failure it writes the 400 itself and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	if usage == nil {
		return
	}
	for header, tokens := range map[string]int{
		HeaderEmbeddingTokens: usage.EmbeddingTokens,
		HeaderChatTokens:      usage.ChatTokens,
	} {
		if tokens > 0 {
			w.Header().Set(header, strconv.Itoa(tokens))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
