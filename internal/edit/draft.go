package edit

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"armbuilder/internal/model"
	"armbuilder/internal/schema"
	"armbuilder/internal/task"
)

// An optionally signed decimal number in progress: "", "-", "12.", ".5".
var draftPattern = regexp.MustCompile(`^-?\d*\.?\d*$`)

// AcceptsDraft reports whether text may be held as an in-progress draft.
func AcceptsDraft(text string) bool {
	return draftPattern.MatchString(text)
}

// ParseDraft reads a draft as a number. Partial drafts such as "-" or "."
// do not parse. Digits too large for a float64 give ±Inf, which the caller
// clamps to a bound; spelled-out "NaN" or "Inf" are refused.
func ParseDraft(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0) {
			return v, true
		}
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Resolve turns draft text into the value to store: parse, clamp in display
// units, then convert to internal units.
func Resolve(spec schema.ParamSpec, text string) (float64, bool) {
	ui, ok := ParseDraft(text)
	if !ok {
		return 0, false
	}
	v := spec.Internal(spec.Clamp(ui))
	if math.IsInf(v, 0) {
		// no bound on that side
		return 0, false
	}
	if v == 0 {
		// "-0" would otherwise export as -0
		v = 0
	}
	return v, true
}

// DisplayValue is the draft text shown for a committed internal value.
func DisplayValue(spec schema.ParamSpec, internal float64) string {
	return schema.NumberString(spec.Display(internal))
}

// CommitDraft applies draft text to one parameter of t. When the text does
// not parse, t is returned untouched and ok is false.
func CommitDraft(t model.Task, key string, spec schema.ParamSpec, text string) (model.Task, bool) {
	v, ok := Resolve(spec, text)
	if !ok {
		return t, false
	}
	return task.WithParameter(t, key, v), true
}
