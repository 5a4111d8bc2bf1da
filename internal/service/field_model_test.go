package service

import (
	"errors"
	"testing"

	"github.com/shaderlpay/backend/internal/model"
)

func fieldIDs(fields []*model.FieldDef) []string {
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, f.ID)
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// ReconcilePaymentFields tests
// ---------------------------------------------------------------------------

func TestReconcilePaymentFields_AddsSystemFieldsForMethods(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: "f_name", Label: "Name", Type: model.FieldText, Required: true},
	}
	got := ReconcilePaymentFields(fields, []model.PaymentMethod{model.MethodMomo, model.MethodOM})

	want := []string{"f_name", model.FieldIDPaymentAmount, model.FieldIDPhoneMomo, model.FieldIDPhoneOM}
	if !equalIDs(fieldIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, fieldIDs(got))
	}
}

func TestReconcilePaymentFields_AmountFieldShape(t *testing.T) {
	got := ReconcilePaymentFields(nil, []model.PaymentMethod{model.MethodCard})
	if len(got) != 1 {
		t.Fatalf("expected 1 field, got %d", len(got))
	}
	f := got[0]
	if f.ID != model.FieldIDPaymentAmount || f.Type != model.FieldNumber || !f.Required {
		t.Errorf("unexpected amount field: %+v", f)
	}
	if f.Min == nil || *f.Min != 100 {
		t.Errorf("expected min 100, got %v", f.Min)
	}
}

func TestReconcilePaymentFields_RemovesStaleFieldsOnDeselect(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: "f_name", Label: "Name", Type: model.FieldText},
		{ID: model.FieldIDPaymentAmount, Label: "Amount", Type: model.FieldNumber},
		{ID: model.FieldIDPhoneMomo, Label: "Mobile Money number", Type: model.FieldTel},
		{ID: model.FieldIDPhoneOM, Label: "Orange Money number", Type: model.FieldTel},
	}
	got := ReconcilePaymentFields(fields, []model.PaymentMethod{model.MethodOM})

	want := []string{"f_name", model.FieldIDPaymentAmount, model.FieldIDPhoneOM}
	if !equalIDs(fieldIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, fieldIDs(got))
	}
}

func TestReconcilePaymentFields_NoMethodsDropsAllSystemFields(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: model.FieldIDPaymentAmount, Label: "Amount", Type: model.FieldNumber},
		{ID: "f_name", Label: "Name", Type: model.FieldText},
	}
	got := ReconcilePaymentFields(fields, nil)
	if !equalIDs(fieldIDs(got), []string{"f_name"}) {
		t.Fatalf("expected only f_name, got %v", fieldIDs(got))
	}
}

func TestReconcilePaymentFields_PreservesUserFieldOrder(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: "f_b", Label: "B", Type: model.FieldText},
		{ID: "f_a", Label: "A", Type: model.FieldText},
	}
	got := ReconcilePaymentFields(fields, []model.PaymentMethod{model.MethodMomo})
	if got[0].ID != "f_b" || got[1].ID != "f_a" {
		t.Errorf("user field order changed: %v", fieldIDs(got))
	}
	for i, f := range got {
		if f.SortOrder != i {
			t.Errorf("field %s: sort_order %d at index %d", f.ID, f.SortOrder, i)
		}
	}
}

func TestReconcilePaymentFields_Idempotent(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: "f_name", Label: "Name", Type: model.FieldText, Required: true},
	}
	methods := []model.PaymentMethod{model.MethodMomo, model.MethodCard}

	once := ReconcilePaymentFields(fields, methods)
	twice := ReconcilePaymentFields(once, methods)

	if !equalIDs(fieldIDs(once), fieldIDs(twice)) {
		t.Fatalf("not idempotent: %v vs %v", fieldIDs(once), fieldIDs(twice))
	}
}

// ---------------------------------------------------------------------------
// AddConditionalField tests
// ---------------------------------------------------------------------------

func selectField(id string, options ...string) *model.FieldDef {
	return &model.FieldDef{ID: id, Label: id, Type: model.FieldSelect, Options: options}
}

func TestAddConditionalField_Success(t *testing.T) {
	fields := []*model.FieldDef{selectField("f_type", "student", "parent")}

	got, err := AddConditionalField(fields, "Student ID", "f_type", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != model.FieldConditional {
		t.Errorf("expected conditional type, got %s", got.Type)
	}
	if got.Condition == nil || got.Condition.FieldID != "f_type" || got.Condition.Value != "student" {
		t.Errorf("unexpected condition: %+v", got.Condition)
	}
	if got.ID == "" || got.ID == "f_type" {
		t.Errorf("expected fresh field id, got %q", got.ID)
	}
}

func TestAddConditionalField_MissingTrigger(t *testing.T) {
	_, err := AddConditionalField(nil, "X", "f_nope", "a")
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestAddConditionalField_NonEnumerableTrigger(t *testing.T) {
	fields := []*model.FieldDef{{ID: "f_name", Label: "Name", Type: model.FieldText}}
	_, err := AddConditionalField(fields, "X", "f_name", "a")
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestAddConditionalField_ValueNotAnOption(t *testing.T) {
	fields := []*model.FieldDef{selectField("f_type", "student")}
	_, err := AddConditionalField(fields, "X", "f_type", "teacher")
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ValidateFieldSchema / cycle detection tests
// ---------------------------------------------------------------------------

func TestValidateFieldSchema_Valid(t *testing.T) {
	fields := []*model.FieldDef{
		selectField("f_type", "student", "parent"),
		{ID: "f_sid", Label: "Student ID", Type: model.FieldConditional,
			Condition: &model.Condition{FieldID: "f_type", Value: "student"}},
	}
	if err := ValidateFieldSchema(fields); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateFieldSchema_MissingReference(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: "f_x", Label: "X", Type: model.FieldConditional,
			Condition: &model.Condition{FieldID: "f_gone", Value: "a"}},
	}
	if err := ValidateFieldSchema(fields); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestValidateFieldSchema_DetectsCycle(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: "f_a", Label: "A", Type: model.FieldSelect, Options: []string{"x"},
			Condition: &model.Condition{FieldID: "f_b", Value: "x"}},
		{ID: "f_b", Label: "B", Type: model.FieldSelect, Options: []string{"x"},
			Condition: &model.Condition{FieldID: "f_a", Value: "x"}},
	}
	if err := ValidateFieldSchema(fields); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestValidateFieldSchema_SelfCycle(t *testing.T) {
	fields := []*model.FieldDef{
		{ID: "f_a", Label: "A", Type: model.FieldSelect, Options: []string{"x"},
			Condition: &model.Condition{FieldID: "f_a", Value: "x"}},
	}
	if err := ValidateFieldSchema(fields); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestAddConditionalField_RejectsCycleThroughNewEdge(t *testing.T) {
	// f_a is already conditioned on f_b; adding a field makes no cycle, but
	// the chain check still runs over the combined list.
	fields := []*model.FieldDef{
		selectField("f_b", "x"),
		{ID: "f_a", Label: "A", Type: model.FieldSelect, Options: []string{"y"},
			Condition: &model.Condition{FieldID: "f_b", Value: "x"}},
	}
	if _, err := AddConditionalField(fields, "Deep", "f_a", "y"); err != nil {
		t.Errorf("chained (acyclic) condition should be allowed: %v", err)
	}
}
