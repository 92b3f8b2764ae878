package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/auth"
	"tech-debt-manager/src/service/debt"
	"tech-debt-manager/src/util"
)

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleLogin exchanges credentials for a bearer token
func HandleLogin(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		token, user, err := authenticator.Login(req.Email, req.Password)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				util.Error("Login failed for %s: %v", req.Email, err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		util.Info("User %s logged in", user.Email)
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// HandleUser returns the authenticated user
func HandleUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := GetUser(c)
		c.JSON(http.StatusOK, user)
	}
}

// HandleLogout revokes the presented token
func HandleLogout(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticator.Revoke(c.GetString(tokenKey))
		c.Status(http.StatusNoContent)
	}
}

// HandleTechnicalDebt runs a fresh aggregation and returns the items in run order
func HandleTechnicalDebt(collector DebtCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, collect(c, collector))
	}
}

// HandleDebtMetrics returns the summary of a fresh aggregation
func HandleDebtMetrics(collector DebtCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, debt.Metrics(collect(c, collector)))
	}
}

// HandlePrioritizedDebt returns a fresh aggregation sorted by priority
func HandlePrioritizedDebt(collector DebtCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, debt.Prioritize(collect(c, collector)))
	}
}

// collect never fails towards the client: an aggregation error is logged and
// the response carries an empty list
func collect(c *gin.Context, collector DebtCollector) []model.DebtItem {
	items, err := collector.CollectDebts(c.Request.Context())
	if err != nil {
		util.Error("Debt aggregation failed: %v", err)
		return []model.DebtItem{}
	}
	if items == nil {
		return []model.DebtItem{}
	}
	return items
}
