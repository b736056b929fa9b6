package api

import (
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/axalapp/claims-api-service/docs"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/submit", registerHandler(handlers.Submit))
	r.Post("/dispute", registerHandler(handlers.Dispute))

	r.Post("/v1/claims", registerHandler(handlers.CreateClaim))
	r.Get("/v1/claims", registerHandler(handlers.GetClaimantClaims))
	r.Get("/v1/claims/{claim_id}", registerHandler(handlers.GetClaim))
	r.Post("/v1/claims/{claim_id}/dispute", registerHandler(handlers.FileDispute))
	r.Post("/v1/claims/{claim_id}/settle", registerHandler(handlers.SettleClaim))
	r.Post("/v1/arbitration/callback", registerHandler(handlers.ArbitrationCallback))
	r.Get("/v1/bond/params", registerHandler(handlers.GetBondParams))
	r.Get("/v1/bond/balance", registerHandler(handlers.GetBondBalance))
	r.Get("/v1/pools", registerHandler(handlers.GetPools))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
