package service

import (
	"fmt"
	"strconv"

	"github.com/shaderlpay/backend/internal/model"
)

// VisibleFields returns the fields currently visible for the given answers.
// A field with no condition is always visible. A conditioned field is visible
// iff its trigger answer matches exactly AND every field up its condition
// chain is itself visible — visibility is re-evaluated transitively, never
// inherited. Cycles (which authoring rejects, but stored data may predate
// that) resolve to hidden.
func VisibleFields(fields []*model.FieldDef, answers model.AnswerSet) []*model.FieldDef {
	byID := make(map[string]*model.FieldDef, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	memo := make(map[string]bool, len(fields))
	visiting := make(map[string]bool)

	var visible func(f *model.FieldDef) bool
	visible = func(f *model.FieldDef) bool {
		if v, ok := memo[f.ID]; ok {
			return v
		}
		if visiting[f.ID] {
			return false
		}
		visiting[f.ID] = true
		defer delete(visiting, f.ID)

		v := true
		if f.Condition != nil {
			trigger, ok := byID[f.Condition.FieldID]
			switch {
			case !ok:
				v = false
			case !visible(trigger):
				v = false
			default:
				v = answers[f.Condition.FieldID] == f.Condition.Value
			}
		}
		memo[f.ID] = v
		return v
	}

	out := make([]*model.FieldDef, 0, len(fields))
	for _, f := range fields {
		if visible(f) {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAnswers checks the answers against the currently visible fields and
// aggregates every violation instead of stopping at the first. Hidden fields
// impose no obligation, required or not. Returns nil when everything passes.
func ValidateAnswers(fields []*model.FieldDef, answers model.AnswerSet) *ValidationError {
	errs := map[string]string{}

	for _, f := range VisibleFields(fields, answers) {
		raw, present := answers[f.ID]
		if raw == "" {
			present = false
		}

		if f.Required && !present {
			errs[f.ID] = fmt.Sprintf("%s is required", f.Label)
			continue
		}
		if !present {
			continue
		}

		switch f.Type {
		case model.FieldNumber:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || (f.Min != nil && v < *f.Min) || (f.Max != nil && v > *f.Max) {
				errs[f.ID] = fmt.Sprintf("%s out of range", f.Label)
			}
		case model.FieldSelect, model.FieldRadio:
			if !f.HasOption(raw) {
				errs[f.ID] = fmt.Sprintf("%s has invalid selection", f.Label)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}
