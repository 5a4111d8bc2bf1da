package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shaderlpay/backend/internal/model"
)

// ---------------------------------------------------------------------------
// Payment-derived field reconciliation
// ---------------------------------------------------------------------------

const paymentAmountMin = 100

func paymentAmountField() *model.FieldDef {
	min := float64(paymentAmountMin)
	return &model.FieldDef{
		ID:       model.FieldIDPaymentAmount,
		Label:    "Amount",
		Type:     model.FieldNumber,
		Required: true,
		Min:      &min,
	}
}

func phoneField(id, label string) *model.FieldDef {
	return &model.FieldDef{
		ID:       id,
		Label:    label,
		Type:     model.FieldTel,
		Required: true,
	}
}

// ReconcilePaymentFields diffs the system-managed (payment-derived) fields
// against the selected payment methods and patches the list:
//
//   - stale payment_/phone_ fields whose method was deselected are removed
//   - payment_amount (number, required, min 100) is ensured when any method
//     is selected
//   - phone_momo / phone_om (tel) are ensured for their methods
//
// User-authored fields are never mutated or removed and keep their relative
// order; missing system fields are appended. The operation is a pure function
// and idempotent — the caller persists the result.
func ReconcilePaymentFields(fields []*model.FieldDef, methods []model.PaymentMethod) []*model.FieldDef {
	selected := make(map[model.PaymentMethod]bool, len(methods))
	for _, m := range methods {
		selected[m] = true
	}

	wanted := map[string]bool{}
	if len(methods) > 0 {
		wanted[model.FieldIDPaymentAmount] = true
	}
	if selected[model.MethodMomo] {
		wanted[model.FieldIDPhoneMomo] = true
	}
	if selected[model.MethodOM] {
		wanted[model.FieldIDPhoneOM] = true
	}

	out := make([]*model.FieldDef, 0, len(fields)+3)
	present := map[string]bool{}
	for _, f := range fields {
		if f.IsSystemManaged() && !wanted[f.ID] {
			continue // method deselected, drop its field
		}
		if present[f.ID] {
			continue
		}
		present[f.ID] = true
		out = append(out, f)
	}

	if wanted[model.FieldIDPaymentAmount] && !present[model.FieldIDPaymentAmount] {
		out = append(out, paymentAmountField())
	}
	if wanted[model.FieldIDPhoneMomo] && !present[model.FieldIDPhoneMomo] {
		out = append(out, phoneField(model.FieldIDPhoneMomo, "Mobile Money number"))
	}
	if wanted[model.FieldIDPhoneOM] && !present[model.FieldIDPhoneOM] {
		out = append(out, phoneField(model.FieldIDPhoneOM, "Orange Money number"))
	}

	for i, f := range out {
		f.SortOrder = i
	}
	return out
}

// ---------------------------------------------------------------------------
// Conditional field authoring
// ---------------------------------------------------------------------------

// AddConditionalField appends a new conditional field triggered by
// triggerFieldID answering triggerValue. The trigger must exist in the list,
// be enumerable (select or radio) and actually offer triggerValue as an
// option; the new edge must not close a condition cycle. Violations return
// ErrInvalidReference.
func AddConditionalField(fields []*model.FieldDef, label, triggerFieldID, triggerValue string) (*model.FieldDef, error) {
	var trigger *model.FieldDef
	for _, f := range fields {
		if f.ID == triggerFieldID {
			trigger = f
			break
		}
	}
	if trigger == nil {
		return nil, fmt.Errorf("%w: trigger field %q not found", ErrInvalidReference, triggerFieldID)
	}
	if trigger.Type != model.FieldSelect && trigger.Type != model.FieldRadio {
		return nil, fmt.Errorf("%w: trigger field %q is not enumerable", ErrInvalidReference, triggerFieldID)
	}
	if !trigger.HasOption(triggerValue) {
		return nil, fmt.Errorf("%w: %q is not an option of field %q", ErrInvalidReference, triggerValue, triggerFieldID)
	}

	field := &model.FieldDef{
		ID:        "cond_" + uuid.NewString(),
		Label:     label,
		Type:      model.FieldConditional,
		Condition: &model.Condition{FieldID: triggerFieldID, Value: triggerValue},
		SortOrder: len(fields),
	}

	if hasConditionCycle(append(fields[:len(fields):len(fields)], field)) {
		return nil, fmt.Errorf("%w: condition cycle through %q", ErrInvalidReference, triggerFieldID)
	}
	return field, nil
}

// ValidateFieldSchema checks an authored field list: every condition must
// reference an existing enumerable field and the condition graph must be
// acyclic. Run at authoring time, never at submission time.
func ValidateFieldSchema(fields []*model.FieldDef) error {
	byID := make(map[string]*model.FieldDef, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}
	for _, f := range fields {
		if f.Condition == nil {
			continue
		}
		trigger, ok := byID[f.Condition.FieldID]
		if !ok {
			return fmt.Errorf("%w: field %q references missing field %q",
				ErrInvalidReference, f.ID, f.Condition.FieldID)
		}
		if trigger.Type != model.FieldSelect && trigger.Type != model.FieldRadio {
			return fmt.Errorf("%w: field %q references non-enumerable field %q",
				ErrInvalidReference, f.ID, f.Condition.FieldID)
		}
	}
	if hasConditionCycle(fields) {
		return fmt.Errorf("%w: condition cycle", ErrInvalidReference)
	}
	return nil
}

// hasConditionCycle walks condition edges with a visiting set (DFS). The
// field list is an arena indexed by id; a field conditioned, directly or
// transitively, on itself is a cycle.
func hasConditionCycle(fields []*model.FieldDef) bool {
	byID := make(map[string]*model.FieldDef, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(fields))

	var visit func(f *model.FieldDef) bool
	visit = func(f *model.FieldDef) bool {
		switch state[f.ID] {
		case visiting:
			return true
		case done:
			return false
		}
		state[f.ID] = visiting
		if f.Condition != nil {
			if next, ok := byID[f.Condition.FieldID]; ok && visit(next) {
				return true
			}
		}
		state[f.ID] = done
		return false
	}

	for _, f := range fields {
		if visit(f) {
			return true
		}
	}
	return false
}
