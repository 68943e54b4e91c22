package hook

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptiveflow/zbdiag/internal/logger"
)

// printCompleteRequest is the body Moonraker's notifier posts on job events.
type printCompleteRequest struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// Router builds the webhook listener routes: a health check, a manual
// trigger, and the endpoint Moonraker's print_complete notifier posts to.
func (s *Service) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.health)
	router.GET("/analyze", s.manualAnalyze)
	router.POST("/adaptive_flow_analyze", s.printComplete)
	router.POST("/server/custom/adaptive_flow_analyze", s.printComplete)

	return router
}

func (s *Service) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Service) manualAnalyze(c *gin.Context) {
	logger.Info().Msg("Manual analysis triggered")
	s.notify(c.Request.Context(), "AF: Manual analysis triggered...")

	success := s.Analyze(c.Request.Context())

	code := http.StatusOK
	if !success {
		code = http.StatusInternalServerError
	}
	c.JSON(code, gin.H{"success": success})
}

func (s *Service) printComplete(c *gin.Context) {
	var req printCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Moonraker retries on errors, and a malformed notification will not
		// improve on retry. Acknowledge and move on.
		logger.Warn().Err(err).Msg("Invalid JSON in webhook body")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if req.Filename == "" {
		req.Filename = "unknown"
	}
	if req.Status == "" {
		req.Status = "unknown"
	}

	s.HandlePrintComplete(c.Request.Context(), req.Filename, req.Status)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
