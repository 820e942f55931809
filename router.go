package main

import (
	"net/http"

	"agriexpert/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

// routes wires middlewares and the role-scoped endpoint groups. Adjust CORS
// for your frontend hosts.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", a.handleRegister)
		api.Post("/auth/login", a.handleLogin)

		api.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me", a.handleMe)
			pr.Put("/me", a.handleUpdateProfile)
			pr.Put("/me/password", a.handleUpdatePassword)

			pr.Route("/farmer", func(fr chi.Router) {
				fr.Group(func(fo chi.Router) {
					fo.Use(a.requireRole(models.RoleFarmer))
					fo.Post("/soil-test", a.handleSubmitSoilTest)
					fo.Get("/my-tests", a.handleMySoilTests)
					fo.Get("/weather", a.handleWeather)
					fo.Get("/irrigation", a.handleIrrigationPlans)
				})
				fr.With(a.requireRole(models.RoleFarmer, models.RoleAdmin)).
					Get("/recommendation/{soilTestId}", a.handleGetRecommendation)
			})

			pr.Route("/researcher", func(rr chi.Router) {
				rr.Use(a.requireRole(models.RoleResearcher))
				rr.Post("/propose-rules", a.handleProposeRules)
				rr.Get("/soil-insights", a.handleSoilInsights)
				rr.Get("/trends", a.handleRecommendationTrends)
				rr.Get("/rules", a.handleRuleAudit)
				rr.Get("/soiltests", a.handleResearcherSoilTests)
				rr.Put("/soiltests/{id}", a.handleCorrectSoilTest)
			})

			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(a.requireRole(models.RoleAdmin))
				ar.Get("/users", a.handleListUsers)
				ar.Post("/users", a.handleCreateUser)
				ar.Put("/users/{id}", a.handleUpdateUser)
				ar.Delete("/users/{id}", a.handleDeleteUser)

				ar.Get("/soiltests", a.handleAllSoilTests)
				ar.Delete("/soiltests/{id}", a.handleDeleteSoilTest)
				ar.Post("/recommendation/{soilTestId}", a.handleCreateRecommendation)

				ar.Get("/rules", a.handleListRules)
				ar.Post("/rules", a.handleSetRule)
				ar.Get("/pending-rules", a.handlePendingRules)
				ar.Put("/review-rule/{id}", a.handleReviewRule)
				ar.Get("/pending-recommendations", a.handlePendingRecommendations)
				ar.Put("/approve-recommendation/{id}", a.handleReviewRecommendation)

				ar.Get("/stats", a.handleStats)
			})

			pr.Route("/govt", func(gr chi.Router) {
				gr.Use(a.requireRole(models.RoleGovt))
				gr.Get("/reports", a.handleListReports)
				gr.Post("/generate-report/{soilTestId}", a.handleGenerateReport)
			})
		})
	})

	return r
}
