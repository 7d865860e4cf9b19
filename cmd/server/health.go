package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/payroll-console/pkg/application"
	"github.com/iota-uz/payroll-console/pkg/configuration"
	"github.com/iota-uz/payroll-console/pkg/httpapi"
)

type healthController struct{}

func newHealthController() application.Controller {
	return &healthController{}
}

func (c *healthController) Key() string {
	return "/health"
}

func (c *healthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.health).Methods(http.MethodGet)
}

func (c *healthController) health(w http.ResponseWriter, _ *http.Request) {
	conf := configuration.Use()
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": conf.GoAppEnvironment,
	})
}
