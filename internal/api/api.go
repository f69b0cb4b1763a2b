package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"punchease/internal/auth"
	"punchease/internal/config"
	"punchease/internal/manager"
	"punchease/internal/messaging"
	"punchease/internal/model"
	"punchease/internal/storage"
	"punchease/internal/tenant"
)

type API struct {
	CompanyMgr *manager.CompanyManager
	Storage    *storage.Storage
	// Credentials is the privileged lookup behind the password check.
	// It is the storage layer in production and a fake in tests.
	Credentials auth.CredentialSource
	Resolver    *tenant.Resolver
	Rabbit      *messaging.RabbitClient
	Cfg         *config.Config
	Routers     chi.Router
}

func NewAPI(cm *manager.CompanyManager, db *storage.Storage, resolver *tenant.Resolver, rabbit *messaging.RabbitClient, cfg *config.Config) *API {
	return &API{
		CompanyMgr:  cm,
		Storage:     db,
		Credentials: db,
		Resolver:    resolver,
		Rabbit:      rabbit,
		Cfg:         cfg,
		Routers:     chi.NewRouter(),
	}
}

// publishChange announces a committed mutation on the company's change
// queue. The write already happened, so a publish failure is logged, not
// surfaced to the client.
func (a *API) publishChange(companyID uuid.UUID, entity, action string, entityID uuid.UUID, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("API: failed to marshal %s payload: %v", entity, err)
		body = nil
	}

	ev := &model.ChangeEvent{
		ID:        uuid.New(),
		CompanyID: companyID,
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Rabbit.PublishChange(ev); err != nil {
		log.Printf("API: failed to publish %s %s event: %v", entity, action, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
