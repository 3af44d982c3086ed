package schema

import (
	"fmt"

	"armbuilder/internal/model"
)

// Describe renders the human readable summary of a task. Missing parameters
// read as zero.
func Describe(kind model.Kind, p model.Params) string {
	switch kind {
	case model.KindMove:
		return fmt.Sprintf("Move to Position (%s m, %s m, %s m)",
			ToFixed(p.Get("x"), 2),
			ToFixed(p.Get("y"), 2),
			ToFixed(p.Get("z"), 2),
		)
	case model.KindGrip:
		return fmt.Sprintf("Grip with %s%% force", ToFixed(p.Get("force"), 0))
	case model.KindRelease:
		return "Release gripper"
	case model.KindWait:
		return fmt.Sprintf("Wait for %s sec", ToFixed(p.Get("duration"), 1))
	default:
		return string(kind)
	}
}
