// internal/api/temperature.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"punchease/internal/model"
	"punchease/internal/storage"
	"punchease/internal/tenant"
)

// @Summary List a company's temperature logs
// @Tags TemperatureLogs
// @Security ApiKeyAuth
// @Produce json
// @Param slug path string true "Company slug"
// @Success 200 {array} model.TemperatureLog
// @Router /c/{slug}/temperature-logs [get]
func (a *API) ListTemperatureLogs(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	logs, err := a.Storage.ListTemperatureLogs(company.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// @Summary Record a temperature reading
// @Tags TemperatureLogs
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param body body model.TemperatureLog true "Reading"
// @Success 201 {object} model.TemperatureLog
// @Router /c/{slug}/temperature-logs [post]
func (a *API) CreateTemperatureLog(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	var tl model.TemperatureLog
	if err := json.NewDecoder(r.Body).Decode(&tl); err != nil || tl.Location == "" {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	tl.ID = uuid.New()
	tl.CompanyID = company.ID
	if tl.RecordedAt.IsZero() {
		tl.RecordedAt = time.Now().UTC()
	}
	if err := a.Storage.CreateTemperatureLog(&tl); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "temperature_log", model.ActionCreated, tl.ID, tl)
	writeJSON(w, http.StatusCreated, tl)
}

// @Summary Delete a temperature reading
// @Tags TemperatureLogs
// @Security ApiKeyAuth
// @Param slug path string true "Company slug"
// @Param id path string true "Log UUID"
// @Success 204
// @Router /c/{slug}/temperature-logs/{id} [delete]
func (a *API) DeleteTemperatureLog(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid log id")
		return
	}

	if err := a.Storage.DeleteTemperatureLog(company.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "temperature log not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "temperature_log", model.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
