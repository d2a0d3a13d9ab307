package server

import (
	"encoding/json"
	"fed_core/shared"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	apiKeyHeader        = "X-API-KEY"
	authorizationHeader = "Authorization"
	internalErrorStr    = "500 Internal Server Error"
	badRequestStr       = "400 Invalid Request"
	notFoundStr         = "404 Not Found"
	methodNotAllowedStr = "405 Method Not Allowed"
	badApiKeyStr        = "401 Missing or Invalid API Key"
	badAuthorization    = "401 Missing or Invalid Authorization"
	maxRequestBodyBytes = 1 << 20
)

// Defines a single HTTP handler (endpoint)
type handlerDef struct {
	method  string
	pattern string
	handler func(http.ResponseWriter, *http.Request)
}

// IHandlerGroup groups together multiple HTTP handler definitions.
type IHandlerGroup interface {
	Prefix() string
	GroupDefs() []handlerDef
	AuthMW() func(next http.Handler) http.Handler
}

func emptyMW(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	})
}

// Returns the JSON serialized object as the response body with the given status; handles errors.
func writeJsonResponse(logger shared.ILogger, w http.ResponseWriter, code int, resp any) {
	var err error
	var respJson []byte
	if respJson, err = json.Marshal(resp); err != nil {
		logger.Warnf("Failed to serialize response: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/activity+json")
	w.WriteHeader(code)
	if _, err = fmt.Fprintln(w, string(respJson)); err != nil {
		logger.Warnf("Failed to write response: %v", err)
	}
}

type errorResp struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeErrorResponse(w http.ResponseWriter, msg string, code int) {
	resp := errorResp{msg, code}
	respJson, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	fmt.Fprintln(w, string(respJson))
}

// readBody returns the request body, or nil after writing an error response.
func readBody(logger shared.ILogger, w http.ResponseWriter, r *http.Request) []byte {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		logger.Warnf("Failed to read request body: %v", err)
		writeErrorResponse(w, badRequestStr, http.StatusBadRequest)
		return nil
	}
	if len(body) == 0 {
		logger.Info("Empty request body")
		writeErrorResponse(w, "Request body must not be empty", http.StatusBadRequest)
		return nil
	}
	return body
}

// bearerToken extracts the secret from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) (string, bool) {
	token, found := strings.CutPrefix(r.Header.Get(authorizationHeader), "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
