package audit

import (
	"context"

	"github.com/weiawesome/wes-io-live/pkg/log"
)

// Audit actions for roomstate-service.
const (
	ActionStateChange       = "roomstate.state_change"
	ActionModelStatusChange = "roomstate.model_status_change"
	ActionGoalReached       = "roomstate.goal_reached"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldValue  = "value"
)

// LogStateChange emits a structured audit entry for a room state transition
// via the context logger.
func LogStateChange(ctx context.Context, roomID, action, value string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomID, roomID).
		Str(FieldValue, value).
		Msg("room state changed")
}
