package validation

import "testing"

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=9"`
	Kind  string `json:"kind" validate:"oneof=A B"`
}

func TestFieldsUsesJSONNames(t *testing.T) {
	err := Default().Validate(sample{Email: "nope", Phone: "12", Kind: "C"})
	fields := Fields(err)
	want := map[string]string{
		"email": "must be a valid email",
		"phone": "must be at least 9",
		"kind":  "must be one of A B",
	}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v", fields)
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
		}
	}
}

func TestFieldsNilForValid(t *testing.T) {
	if err := Default().Validate(sample{Email: "a@b.co", Phone: "0901234567", Kind: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Fields(nil) != nil {
		t.Fatal("nil error should give nil fields")
	}
}
