package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/service/assignment"
	"github.com/swiftride/backend/internal/service/location"
	"github.com/swiftride/backend/internal/service/reporting"
	"github.com/swiftride/backend/internal/store"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Engine   *assignment.Engine
	Reports  *reporting.Service
	Location *location.Service
	Auth     *auth.Service
	Stores   store.Stores
	Logger   *logger.Logger
	Monitor  *monitoring.NewRelicApp

	// Seeded admin account. The hash is computed once at startup.
	AdminEmail        string
	AdminPasswordHash string
}

// NewHandlers creates a Handlers instance.
func NewHandlers(
	engine *assignment.Engine,
	reports *reporting.Service,
	loc *location.Service,
	authSvc *auth.Service,
	stores store.Stores,
	log *logger.Logger,
	monitor *monitoring.NewRelicApp,
	adminEmail, adminPasswordHash string,
) *Handlers {
	return &Handlers{
		Engine:            engine,
		Reports:           reports,
		Location:          loc,
		Auth:              authSvc,
		Stores:            stores,
		Logger:            log,
		Monitor:           monitor,
		AdminEmail:        adminEmail,
		AdminPasswordHash: adminPasswordHash,
	}
}

// respondErr maps any error to its HTTP shape. Unrecognized errors
// become a generic 500 and the cause stays in the logs.
func (h *Handlers) respondErr(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			logger.String("request_id", c.GetString("request_id")),
			logger.String("path", c.Request.URL.Path),
			logger.Err(err),
		)
	}
	c.JSON(appErr.Status, appErr)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest("invalid "+name+" path parameter", err)
	}
	return id, nil
}
