package handler

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type message map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"error": ...}. Errors that are not ServiceErrors are
// treated as unexpected failures.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	se, ok := apperrors.As(err)
	if !ok {
		se = apperrors.Internal(err)
	}
	if se.HTTPStatus >= http.StatusInternalServerError {
		h.log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, se.HTTPStatus, message{"error": se.Message})
}

// decodeJSON requires a JSON content type and decodes the body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if !isJSON(r.Header.Get("Content-Type")) {
		return apperrors.UnsupportedMediaType("Missing JSON in request")
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return apperrors.BadRequest("Invalid JSON body", err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

// pathID reads the {id} route variable. Ids are SERIAL columns, so anything outside
// 1..MaxInt32 cannot exist and is reported as not found.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil || id < 1 {
		return 0, false
	}
	return int(id), true
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, message{"error": "Not found"})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, message{"error": "Method not allowed"})
}
