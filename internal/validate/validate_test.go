package validate

import "testing"

type signupForm struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func TestStructValid(t *testing.T) {
	form := signupForm{
		Username:        "otaku42",
		Email:           "otaku42@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	}
	if errs := Struct(form); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestStructFieldErrors(t *testing.T) {
	form := signupForm{
		Username:        "ab",
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
	}
	errs := Struct(form)
	if errs == nil {
		t.Fatal("expected errors, got nil")
	}

	// keys come from the json tags, not the Go field names
	want := map[string]string{
		"username":        "must be at least 3 characters",
		"email":           "must be a valid email address",
		"password":        "must be at least 6 characters",
		"confirmPassword": "does not match",
	}
	for field, msg := range want {
		if got := errs[field]; got != msg {
			t.Errorf("errs[%q] = %q, want %q", field, got, msg)
		}
	}
}

func TestStructOneof(t *testing.T) {
	type payload struct {
		Type string `json:"type" validate:"required,oneof=TV Movie OVA Special"`
	}
	if errs := Struct(payload{Type: "Documentary"}); errs["type"] != "must be one of: TV Movie OVA Special" {
		t.Fatalf("got %v", errs)
	}
	if errs := Struct(payload{Type: "OVA"}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
