package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/logging"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/terminus-math/internal/middleware"
	"github.com/GriffinCanCode/terminus-math/internal/service"
	apitypes "github.com/GriffinCanCode/terminus-math/internal/shared/types"
	"github.com/GriffinCanCode/terminus-math/internal/shared/utils"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

const defaultDiscoverLimit = 5

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	version  string
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics, logger *logging.Logger, version string) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		version:  version,
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "terminus-math",
		"version": h.version,
	})
}

// Health reports registry and traffic statistics
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")
	if err := utils.ValidateCategory(categoryStr, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices ranks services against a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req apitypes.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateMessage(req.Message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultDiscoverLimit
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Message,
		"services": h.registry.Discover(req.Message, limit),
	})
}

// ExecuteService executes a service tool. Tool-level failures are reported
// in the result body with status 200.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req apitypes.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateToolID(req.ToolID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateParams(req.Params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.execute(c, req.ToolID, req.Params)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// PackageInfo describes the package recipe
func (h *Handlers) PackageInfo(c *gin.Context) {
	h.packageTool(c, "package.info", nil)
}

// PackageLock returns the lockfile view of the recipe's dependencies
func (h *Handlers) PackageLock(c *gin.Context) {
	h.packageTool(c, "package.lock", nil)
}

// PackageToolchain generates CMake cache variables for a configuration
func (h *Handlers) PackageToolchain(c *gin.Context) {
	h.bindPackageTool(c, "package.toolchain")
}

// PackageID computes the binary package ID for a configuration
func (h *Handlers) PackageID(c *gin.Context) {
	h.bindPackageTool(c, "package.id")
}

func (h *Handlers) bindPackageTool(c *gin.Context, toolID string) {
	var req apitypes.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.packageTool(c, toolID, req.Params())
}

func (h *Handlers) packageTool(c *gin.Context, toolID string, params map[string]interface{}) {
	result, err := h.execute(c, toolID, params)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if !result.Success {
		msg := "package operation failed"
		if result.Error != nil {
			msg = *result.Error
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, result.Data)
}

// execute runs a tool through the registry with request metadata, timing and logging
func (h *Handlers) execute(c *gin.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	serviceID, _, _ := strings.Cut(toolID, ".")
	reqCtx := &types.Context{
		RequestID: middleware.GetRequestID(c),
		ClientIP:  c.ClientIP(),
	}

	var timer *monitoring.Timer
	serviceLabel, toolLabel := h.metricLabels(serviceID, toolID)
	if h.metrics != nil {
		timer = monitoring.NewTimer(h.metrics, serviceLabel, toolLabel)
	}

	result, err := h.registry.Execute(c.Request.Context(), toolID, params, reqCtx)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case !result.Success:
		status = "failure"
	}
	if timer != nil {
		duration := timer.Stop(status)
		if status != "success" {
			h.metrics.RecordServiceError(serviceLabel, toolLabel, errorType(err))
		}
		h.logger.Debug("Tool executed",
			zap.String("tool_id", toolID),
			zap.String("status", status),
			zap.Duration("duration", duration),
			zap.String("request_id", reqCtx.RequestID),
		)
	}
	if err != nil {
		h.logger.Warn("Tool execution error",
			zap.String("tool_id", toolID),
			zap.String("request_id", reqCtx.RequestID),
			zap.Error(err),
		)
	}
	return result, err
}

// unknownLabel stands in for service and tool names the registry does not know
const unknownLabel = "unknown"

// metricLabels keeps label values to registered services and tools
func (h *Handlers) metricLabels(serviceID, toolID string) (string, string) {
	provider, ok := h.registry.Get(serviceID)
	if !ok {
		return unknownLabel, unknownLabel
	}
	for _, tool := range provider.Definition().Tools {
		if tool.ID == toolID {
			return serviceID, toolID
		}
	}
	return serviceID, unknownLabel
}

func errorType(err error) string {
	switch {
	case err == nil:
		return "tool_failure"
	case errors.Is(err, service.ErrServiceNotFound):
		return "not_found"
	case errors.Is(err, service.ErrInvalidToolID):
		return "invalid_tool_id"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

func statusFor(err error) int {
	switch errorType(err) {
	case "not_found":
		return http.StatusNotFound
	case "invalid_tool_id":
		return http.StatusBadRequest
	case "cancelled":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
