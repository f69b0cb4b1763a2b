// internal/api/customers.go
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

// @Summary List a company's business customers
// @Tags Customers
// @Security ApiKeyAuth
// @Produce json
// @Param slug path string true "Company slug"
// @Success 200 {array} model.BusinessCustomer
// @Router /c/{slug}/customers [get]
func (a *API) ListBusinessCustomers(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	customers, err := a.Storage.ListBusinessCustomers(company.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// @Summary Create a business customer
// @Tags Customers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param body body model.BusinessCustomer true "Customer"
// @Success 201 {object} model.BusinessCustomer
// @Router /c/{slug}/customers [post]
func (a *API) CreateBusinessCustomer(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	var c model.BusinessCustomer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	c.ID = uuid.New()
	c.CompanyID = company.ID
	if err := a.Storage.CreateBusinessCustomer(&c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "business_customer", model.ActionCreated, c.ID, c)
	writeJSON(w, http.StatusCreated, c)
}

// @Summary Update a business customer
// @Tags Customers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param id path string true "Customer UUID"
// @Param body body model.BusinessCustomer true "Customer"
// @Success 200 {object} model.BusinessCustomer
// @Router /c/{slug}/customers/{id} [put]
func (a *API) UpdateBusinessCustomer(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var c model.BusinessCustomer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	c.ID = id
	c.CompanyID = company.ID
	if err := a.Storage.UpdateBusinessCustomer(&c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "business_customer", model.ActionUpdated, c.ID, c)
	writeJSON(w, http.StatusOK, c)
}

// @Summary Delete a business customer
// @Tags Customers
// @Security ApiKeyAuth
// @Param slug path string true "Company slug"
// @Param id path string true "Customer UUID"
// @Success 204
// @Router /c/{slug}/customers/{id} [delete]
func (a *API) DeleteBusinessCustomer(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := a.Storage.DeleteBusinessCustomer(company.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.publishChange(company.ID, "business_customer", model.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
