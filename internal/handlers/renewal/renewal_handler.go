// internal/handlers/renewal/renewal_handler.go
package renewal

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"insurica-service/internal/domain/renewal"
	xerrors "insurica-service/internal/pkg/errors"
	service "insurica-service/internal/service/renewal"
	ws "insurica-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RunBroadcaster pushes a run summary to connected dashboard agents.
type RunBroadcaster interface {
	PushToAll(event *ws.Event)
}

// RenewalHandler exposes the scheduled renewal job trigger. Response shapes
// here are a fixed external contract with the scheduler, so they bypass the
// standard response envelope:
//
//	200 {"message": ..., "results": [...]}
//	500 {"error": ...}
type RenewalHandler struct {
	renewalService *service.Service
	events         RunBroadcaster
	cronSecret     string
	logger         *zap.Logger
}

func NewRenewalHandler(renewalService *service.Service, events RunBroadcaster, cronSecret string, logger *zap.Logger) *RenewalHandler {
	return &RenewalHandler{
		renewalService: renewalService,
		events:         events,
		cronSecret:     cronSecret,
		logger:         logger,
	}
}

// Run triggers the renewal pipeline. The caller must present the shared cron
// secret as a bearer token. Scheduler-originated calls (x-vercel-cron) are
// gated to the scheduled days of the month (15th, 20th, 25th, last day);
// manual invocations run on any day, and x-test-mode bypasses the gate
// explicitly.
func (h *RenewalHandler) Run(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	testMode := strings.EqualFold(c.GetHeader("x-test-mode"), "true")
	fromScheduler := c.GetHeader("x-vercel-cron") != ""

	if fromScheduler && !testMode && !h.renewalService.IsScheduledDay() {
		h.logger.Info("scheduler trigger outside scheduled day, skipping")
		c.JSON(http.StatusOK, renewal.RunResult{Message: renewal.MsgNotScheduled})
		return
	}

	result, err := h.renewalService.Run(c.Request.Context())
	if err != nil {
		if xerrors.Is(err, xerrors.ErrRunInProgress) {
			c.JSON(http.StatusConflict, renewal.RunResult{Message: renewal.MsgInProgress})
			return
		}

		h.logger.Error("renewal run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.events != nil {
		h.events.PushToAll(ws.NewEvent(ws.EventRenewalRun, result))
	}

	c.JSON(http.StatusOK, result)
}

func (h *RenewalHandler) authorized(c *gin.Context) bool {
	if h.cronSecret == "" {
		// No secret configured: refuse rather than run open.
		return false
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.cronSecret)) == 1
}
