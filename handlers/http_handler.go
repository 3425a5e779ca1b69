// Package handlers provides HTTP request handlers for the cases API
// endpoints. It implements the HTTPHandler interface with dependency
// injection.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/interfaces"
	"github.com/medkg/tcmcases-api/logging"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// pageSize is the number of cases per page for the paged endpoint.
const pageSize = 10

// searchResultLimit caps text search responses.
const searchResultLimit = 50

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore interfaces.DataStore
	validator interfaces.DataValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator,
	health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore: dataStore,
		validator: validator,
		health:    health,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// ServeAllCases returns the whole processed corpus
func (h *HTTPHandlerImpl) ServeAllCases(w http.ResponseWriter, r *http.Request) {
	cases := h.dataStore.GetCases()
	h.RespondWithJSON(w, http.StatusOK, cases)
}

// ServePagedCases returns paginated cases
func (h *HTTPHandlerImpl) ServePagedCases(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	cases := h.dataStore.GetCases()
	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= len(cases) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	if end > len(cases) {
		end = len(cases)
	}

	totalPages := (len(cases) + pageSize - 1) / pageSize
	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"page":       page,
		"totalPages": totalPages,
		"totalCases": len(cases),
		"cases":      cases[start:end],
	})
}

// FindCase returns one processed case by its identifier
func (h *HTTPHandlerImpl) FindCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := h.validator.ValidateCaseID(chi.URLParam(r, "caseId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, ok := h.dataStore.GetCasesMap()[caseID]
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Case not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, c)
}

// FindCaseEvents returns just the event list of one case
func (h *HTTPHandlerImpl) FindCaseEvents(w http.ResponseWriter, r *http.Request) {
	caseID, err := h.validator.ValidateCaseID(chi.URLParam(r, "caseId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, ok := h.dataStore.GetCasesMap()[caseID]
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Case not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":     c.ID,
		"events": c.Events,
	})
}

// SearchCases returns cases whose text contains the search term. The term
// and the case texts are folded to NFKC half-width lowercase first, so
// full-width input finds half-width text and vice versa.
func (h *HTTPHandlerImpl) SearchCases(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	if err := h.validator.ValidateInput(term); err != nil {
		logging.Warn("Unusual user input", "term", term)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	folded := foldSearchText(term)
	cases := h.dataStore.GetCases()

	matches := make([]entities.ProcessedCase, 0)
	for i := range cases {
		if strings.Contains(foldSearchText(cases[i].Text), folded) {
			matches = append(matches, cases[i])
			if len(matches) >= searchResultLimit {
				break
			}
		}
	}

	if len(matches) == 0 {
		h.RespondWithError(w, http.StatusNotFound, "No case matches the search term")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, matches)
}

// HealthCheck returns current system health status
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	response := map[string]interface{}{
		"status":      status,
		"next_update": h.health.CalculateNextUpdate().Format(time.RFC3339),
	}
	for k, v := range details {
		response[k] = v
	}

	h.RespondWithJSON(w, httpStatus, response)
}

// foldSearchText normalizes text for matching: half-width forms via
// width.Fold, compatibility composition via NFKC, then lowercase.
func foldSearchText(s string) string {
	return strings.ToLower(norm.NFKC.String(width.Fold.String(s)))
}
