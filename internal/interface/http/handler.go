package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

const (
	defaultInvocationLimit = 20
	maxInvocationLimit     = 100
)

// ActionExecutor runs registered actions.
type ActionExecutor interface {
	Execute(ctx context.Context, req action.Request) (action.Result, error)
	Names() []string
}

// InvocationReader exposes the most recent invocation records.
type InvocationReader interface {
	Recent(ctx context.Context, limit int) ([]action.Invocation, error)
}

// ActionHandler wires the webhook transport to the action executor.
type ActionHandler struct {
	executor    ActionExecutor
	invocations InvocationReader
	logger      *slog.Logger
}

// NewActionHandler constructs the webhook handler. invocations may be nil.
func NewActionHandler(executor ActionExecutor, invocations InvocationReader, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		executor:    executor,
		invocations: invocations,
		logger:      logger.With("component", "http.handler"),
	}
}

// Webhook executes the action named by next_action.
func (h *ActionHandler) Webhook(c *gin.Context) {
	var call action.Call
	if err := c.ShouldBindJSON(&call); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	name := strings.TrimSpace(call.NextAction)
	if name == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "next_action cannot be empty", nil))
		return
	}
	call.NextAction = name

	result, err := h.executor.Execute(c.Request.Context(), action.NewRequest(call))
	if err != nil {
		if errors.Is(err, action.ErrUnknownAction) {
			h.logger.Warn("unknown action requested", "action", name)
			c.JSON(http.StatusNotFound, gin.H{
				"error":       fmt.Sprintf("No registered action found for name '%s'.", name),
				"action_name": name,
			})
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "action_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, result.ToReply())
}

// Actions lists the registered action names.
func (h *ActionHandler) Actions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": h.executor.Names()})
}

// Health reports liveness.
func (h *ActionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type invocationView struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	SenderID   string    `json:"senderId"`
	Outcome    string    `json:"outcome"`
	ErrorCode  string    `json:"errorCode,omitempty"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Invocations returns the newest invocation records.
func (h *ActionHandler) Invocations(c *gin.Context) {
	limit := defaultInvocationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a positive integer", err))
			return
		}
		limit = min(parsed, maxInvocationLimit)
	}
	if h.invocations == nil {
		c.JSON(http.StatusOK, gin.H{"invocations": []invocationView{}})
		return
	}

	records, err := h.invocations.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "invocations_failed", "failed to load invocations", err))
		return
	}
	views := make([]invocationView, 0, len(records))
	for _, inv := range records {
		views = append(views, invocationView{
			ID:         inv.ID.String(),
			Action:     inv.Action,
			SenderID:   inv.SenderID,
			Outcome:    string(inv.Outcome),
			ErrorCode:  inv.ErrorCode,
			DurationMs: inv.Duration.Milliseconds(),
			CreatedAt:  inv.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"invocations": views})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
