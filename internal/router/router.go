package router

import (
	"net/http"
	"slices"
	"time"

	"expense-ledger/internal/config"
	"expense-ledger/internal/handler"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/middleware"
	"expense-ledger/internal/service"
	"expense-ledger/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	DB       *gorm.DB
	Users    *service.UserService
	Ledger   *service.LedgerService
	Log      *logger.Logger
	TokenTTL time.Duration
}

// SetupRouter configures the gin engine and the route table.
func SetupRouter(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Log), gin.Recovery())
	if c, ok := corsConfig(cfg.CORS.AllowedOrigins); ok {
		r.Use(cors.New(c))
	}

	r.GET("/healthz", func(c *gin.Context) {
		util.Success(c, http.StatusOK, util.Response{"status": "ok"})
	})
	r.GET("/readyz", readiness(d.DB))

	authHandler := handler.NewAuthHandler(d.Users, d.TokenTTL)
	r.POST("/sign-up", authHandler.SignUp)
	r.POST("/token", authHandler.Token)

	// everything below needs a bearer token
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(d.Users))

	protected.GET("/profile", handler.Profile)

	ledgerHandler := handler.NewLedgerHandler(d.Ledger)
	protected.GET("/list-accounts", ledgerHandler.ListAccounts)
	protected.POST("/new-account", ledgerHandler.CreateAccount)
	protected.PUT("/update-balance", ledgerHandler.UpdateBalance)
	protected.POST("/new-expense", ledgerHandler.NewExpense)
	protected.GET("/expenses-history", ledgerHandler.ExpenseHistory)
	protected.GET("/expense-history-date", ledgerHandler.ExpenseHistoryByDate)
	protected.GET("/total-expense", ledgerHandler.TotalExpense)
	protected.GET("/tell-expense-rate", ledgerHandler.ExpenseRate)

	exportHandler := handler.NewExportHandler(d.Ledger)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)
	protected.GET("/export/pdf", exportHandler.ExportPDF)

	return r
}

func readiness(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			_ = c.Error(err)
			util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "database unavailable")
			return
		}
		util.Success(c, http.StatusOK, util.Response{"status": "ready"})
	}
}

// corsConfig returns false when no origin is allowed, in which case CORS stays off.
func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c, true
}
