package app

import (
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
)

type healthResponse struct {
	Status string `json:"status"`
}

// health answers 503 once shutdown has begun.
func (a *App) health(*router.Request) (any, error) {
	if !a.ready.Load() {
		return nil, goerror.NewBusiness("Service is shutting down", goerror.CodeUnavailable)
	}

	return healthResponse{Status: "ok"}, nil
}
