package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	s.engine.GET("/health", HealthCheck)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.recorder.Gatherer(), promhttp.HandlerOpts{})))

	apiGroup := s.engine.Group("/api")
	{
		apiGroup.POST("/login", LoginThrottle(s.cfg.LoginRateLimit, s.cfg.LoginBurst), HandleLogin(s.auth))

		protected := apiGroup.Group("")
		protected.Use(AuthMiddleware(s.auth))
		{
			protected.GET("/user", HandleUser())
			protected.POST("/logout", HandleLogout(s.auth))

			debts := HandleTechnicalDebt(s.collector)
			protected.GET("/technical-debt", debts)
			protected.GET("/technical-debts", debts)
			protected.GET("/technical-debt/metrics", HandleDebtMetrics(s.collector))
			protected.GET("/technical-debt/prioritized", HandlePrioritizedDebt(s.collector))
		}
	}
}
