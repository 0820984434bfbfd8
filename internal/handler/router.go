package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires all routes. User creation and login are open; everything
// else sits behind the bearer-token middleware.
func SetupRouter(h *Handler, jwtSecret string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggerMiddleware(logger))
	r.Use(CORSMiddleware())

	v1 := r.Group("/v1")
	{
		v1.POST("/users", h.CreateUser)
		v1.POST("/auth", h.Login)

		authed := v1.Group("")
		authed.Use(RequireAuth(jwtSecret))
		{
			authed.GET("/users/:userId", h.GetUser)
			authed.PATCH("/users/:userId", h.UpdateUser)
			authed.DELETE("/users/:userId", h.DeleteUser)

			authed.POST("/accounts", h.CreateAccount)
			authed.GET("/accounts", h.ListAccounts)
			authed.GET("/accounts/:accountNumber", h.GetAccount)
			authed.PATCH("/accounts/:accountNumber", h.UpdateAccount)
			authed.DELETE("/accounts/:accountNumber", h.DeleteAccount)

			authed.POST("/accounts/:accountNumber/transactions", h.CreateTransaction)
			authed.GET("/accounts/:accountNumber/transactions", h.ListTransactions)
			authed.GET("/accounts/:accountNumber/transactions/:transactionId", h.GetTransaction)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
