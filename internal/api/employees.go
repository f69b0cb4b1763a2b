// internal/api/employees.go
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

// @Summary List a company's employees
// @Tags Employees
// @Security ApiKeyAuth
// @Produce json
// @Param slug path string true "Company slug"
// @Success 200 {array} model.Employee
// @Router /c/{slug}/employees [get]
func (a *API) ListEmployees(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	employees, err := a.Storage.ListEmployees(company.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// @Summary Create an employee
// @Tags Employees
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param body body model.Employee true "Employee"
// @Success 201 {object} model.Employee
// @Router /c/{slug}/employees [post]
func (a *API) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	var e model.Employee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil || e.Name == "" {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	e.ID = uuid.New()
	e.CompanyID = company.ID
	if err := a.Storage.CreateEmployee(&e); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "employee", model.ActionCreated, e.ID, e)
	writeJSON(w, http.StatusCreated, e)
}

// @Summary Update an employee
// @Tags Employees
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param id path string true "Employee UUID"
// @Param body body model.Employee true "Employee"
// @Success 200 {object} model.Employee
// @Router /c/{slug}/employees/{id} [put]
func (a *API) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var e model.Employee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil || e.Name == "" {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	e.ID = id
	e.CompanyID = company.ID
	if err := a.Storage.UpdateEmployee(&e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "employee", model.ActionUpdated, e.ID, e)
	writeJSON(w, http.StatusOK, e)
}

// @Summary Delete an employee
// @Tags Employees
// @Security ApiKeyAuth
// @Param slug path string true "Company slug"
// @Param id path string true "Employee UUID"
// @Success 204
// @Router /c/{slug}/employees/{id} [delete]
func (a *API) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := a.Storage.DeleteEmployee(company.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "employee", model.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
