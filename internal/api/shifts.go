// internal/api/shifts.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"punchease/internal/model"
	"punchease/internal/storage"
	"punchease/internal/tenant"
)

// @Summary List a company's shifts
// @Tags Shifts
// @Security ApiKeyAuth
// @Produce json
// @Param slug path string true "Company slug"
// @Success 200 {array} model.Shift
// @Router /c/{slug}/shifts [get]
func (a *API) ListShifts(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	shifts, err := a.Storage.ListShifts(company.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

// @Summary Create a shift
// @Tags Shifts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param body body model.Shift true "Shift"
// @Success 201 {object} model.Shift
// @Router /c/{slug}/shifts [post]
func (a *API) CreateShift(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	var sh model.Shift
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil || sh.EmployeeID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if !sh.EndsAt.After(sh.StartsAt) {
		writeError(w, http.StatusBadRequest, "shift must end after it starts")
		return
	}

	sh.ID = uuid.New()
	sh.CompanyID = company.ID
	if err := a.Storage.CreateShift(&sh); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "shift", model.ActionCreated, sh.ID, sh)
	writeJSON(w, http.StatusCreated, sh)
}

// @Summary Update a shift
// @Tags Shifts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param id path string true "Shift UUID"
// @Param body body model.Shift true "Shift"
// @Success 200 {object} model.Shift
// @Router /c/{slug}/shifts/{id} [put]
func (a *API) UpdateShift(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shift id")
		return
	}

	var sh model.Shift
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil || sh.EmployeeID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	sh.ID = id
	sh.CompanyID = company.ID
	if err := a.Storage.UpdateShift(&sh); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shift not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "shift", model.ActionUpdated, sh.ID, sh)
	writeJSON(w, http.StatusOK, sh)
}

// @Summary Delete a shift
// @Tags Shifts
// @Security ApiKeyAuth
// @Param slug path string true "Company slug"
// @Param id path string true "Shift UUID"
// @Success 204
// @Router /c/{slug}/shifts/{id} [delete]
func (a *API) DeleteShift(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shift id")
		return
	}

	if err := a.Storage.DeleteShift(company.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shift not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "shift", model.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
