// internal/api/admin.go
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"punchease/internal/auth"
	"punchease/internal/model"
	"punchease/internal/storage"
)

type createCompanyRequest struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	TenantUsername string `json:"tenant_username"`
	TenantPassword string `json:"tenant_password"`
}

// @Summary Provision a company with its portal credential
// @Tags Admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body createCompanyRequest true "Company"
// @Success 201 {object} model.Company
// @Router /admin/companies [post]
func (a *API) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.Name == "" || req.Slug == "" || req.TenantUsername == "" || req.TenantPassword == "" {
		writeError(w, http.StatusBadRequest, "name, slug, tenant_username and tenant_password are required")
		return
	}

	company := &model.Company{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Concurrency: a.Cfg.Workers,
	}
	if err := a.Storage.CreateCompany(company); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.TenantPassword, a.Cfg.Auth.BcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	cred := &model.TenantCredential{
		SettingsID:   uuid.New(),
		CompanyID:    company.ID,
		Username:     req.TenantUsername,
		PasswordHash: hash,
	}
	if err := a.Storage.UpsertTenantCredential(cred); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := a.CompanyMgr.Register(company.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("API: Provisioned company %s (%s)", company.ID, company.Slug)
	writeJSON(w, http.StatusCreated, company)
}

// @Summary List all companies
// @Tags Admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} model.Company
// @Router /admin/companies [get]
func (a *API) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := a.Storage.ListCompanies()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// @Summary Delete a company
// @Tags Admin
// @Security ApiKeyAuth
// @Param id path string true "Company UUID"
// @Success 204
// @Router /admin/companies/{id} [delete]
func (a *API) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	company, err := a.Storage.CompanyByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "company not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = a.CompanyMgr.Deregister(id)

	if err := a.Storage.DeleteCompany(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Resolver.Invalidate(company.Slug)

	log.Printf("API: Deleted company %s", id)
	w.WriteHeader(http.StatusNoContent)
}

type concurrencyConfig struct {
	Workers int `json:"workers"`
}

// @Summary Update a company's change-feed worker concurrency
// @Tags Admin
// @Security ApiKeyAuth
// @Param id path string true "Company UUID"
// @Param body body concurrencyConfig true "Concurrency config"
// @Success 204
// @Router /admin/companies/{id}/config/concurrency [put]
func (a *API) UpdateConcurrency(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	var body concurrencyConfig
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Workers <= 0 {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	if err := a.CompanyMgr.SetWorkerCount(id, body.Workers); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
