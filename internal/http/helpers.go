package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	goerrors "github.com/goliatone/go-errors"

	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
	"github.com/goliatone/go-scribe/internal/journal"
	"github.com/goliatone/go-scribe/internal/markdown"
	"github.com/goliatone/go-scribe/internal/storage"
	"github.com/goliatone/go-scribe/internal/workspace"
)

const (
	codeBadRequest   = "bad_request"
	codeInvalidInput = "invalid_input"
	codeValidation   = "validation_failed"
	codeNotFound     = "not_found"
	codeInternal     = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.Trim(strings.TrimSpace(base), "/")
	trimmedSuffix := strings.Trim(strings.TrimSpace(suffix), "/")
	switch {
	case trimmedBase == "" && trimmedSuffix == "":
		return "/"
	case trimmedBase == "":
		return "/" + trimmedSuffix
	case trimmedSuffix == "":
		return "/" + trimmedBase
	}
	return "/" + trimmedBase + "/" + trimmedSuffix
}

func writeError(c *gin.Context, err error) {
	status, payload := mapError(err)
	c.AbortWithStatusJSON(status, payload)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: message, Code: codeBadRequest})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown error", Code: codeInternal}
	}

	if errors.Is(err, markdown.ErrInvalidInput) {
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeInvalidInput}
	}

	if errors.Is(err, workspace.ErrProjectNotFound) ||
		errors.Is(err, workspace.ErrBreakNotFound) ||
		errors.Is(err, journal.ErrProjectNotFound) ||
		errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound, errorResponse{Error: err.Error(), Code: codeNotFound}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) ||
		errors.Is(err, workspacecmd.ErrNothingToUpdate) ||
		errors.Is(err, workspace.ErrTitleRequired) ||
		errors.Is(err, workspace.ErrBreakOutOfRange) ||
		errors.Is(err, journal.ErrNoteEmpty) ||
		errors.Is(err, journal.ErrUnsupportedImage) ||
		errors.Is(err, journal.ErrProjectIDRequired) {
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeValidation}
	}

	return http.StatusInternalServerError, errorResponse{Error: err.Error(), Code: codeInternal}
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// bindJSON decodes the request body into target. An empty body leaves target
// untouched.
func bindJSON(c *gin.Context, target any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	decoder := json.NewDecoder(c.Request.Body)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// contentValue accepts break content either as a JSON string holding the
// encoded paragraphs or as the paragraph array itself.
func contentValue(raw json.RawMessage) *string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return &text
		}
	}
	return &trimmed
}
