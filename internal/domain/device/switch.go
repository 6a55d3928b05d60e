package device

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

const EntityOn = "on"

// SwitchAction turns the smart plug on or off.
type SwitchAction struct {
	plug   Plug
	logger *slog.Logger
}

// NewSwitchAction builds the plug action.
func NewSwitchAction(plug Plug, logger *slog.Logger) *SwitchAction {
	return &SwitchAction{plug: plug, logger: logger.With("component", "device.switch")}
}

func (a *SwitchAction) Name() string { return "action_toggle_plug" }

// Run reports the requested state even when the command fails.
func (a *SwitchAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	var d action.Dispatcher

	raw, _ := req.LatestEntity(EntityOn)
	on, ok := ParseSwitchState(raw)
	if !ok {
		d.Utter("Should I turn the plug on or off?")
		return d.Result(), nil
	}

	if err := a.plug.SetSwitch(ctx, on); err != nil {
		a.logger.Error("plug switch command failed", "on", on, "error", err)
	} else {
		a.logger.Info("plug switched", "on", on)
	}

	d.Utter(fmt.Sprintf("Okay, the plug is now %s.", onOff(on)))
	return d.Result(), nil
}

// ParseSwitchState reads a boolean-ish entity value.
func ParseSwitchState(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "yes", "1", "enable", "start":
		return true, true
	case "false", "off", "no", "0", "disable", "stop":
		return false, true
	default:
		return false, false
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
