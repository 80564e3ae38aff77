package validator

import "testing"

func TestCheckAndCheckField(t *testing.T) {
	var v Validator

	if v.HasErrors() {
		t.Fatal("fresh validator reports errors")
	}

	v.Check(true, "should not be recorded")
	v.CheckField(true, "field", "should not be recorded")

	if v.HasErrors() {
		t.Fatal("passing checks recorded errors")
	}

	v.Check(false, "general failure")
	v.CheckField(false, "studentId", "must be positive")
	v.CheckField(false, "studentId", "second message is dropped")

	if !v.HasErrors() {
		t.Fatal("failing checks not recorded")
	}
	if len(v.Errors) != 1 {
		t.Errorf("Errors length = %d, want 1", len(v.Errors))
	}
	if got := v.FieldErrors["studentId"]; got != "must be positive" {
		t.Errorf("FieldErrors[studentId] = %q, want first message kept", got)
	}
}

func TestNotBlank(t *testing.T) {
	if NotBlank("   ") {
		t.Error("NotBlank(whitespace) = true")
	}
	if !NotBlank(" x ") {
		t.Error("NotBlank(\" x \") = false")
	}
}

func TestBetween(t *testing.T) {
	if !Between(int64(5), 1, 10) {
		t.Error("Between(5, 1, 10) = false")
	}
	if Between(int64(0), 1, 10) {
		t.Error("Between(0, 1, 10) = true")
	}
}
