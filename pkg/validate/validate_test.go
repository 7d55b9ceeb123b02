package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/backoffice/pkg/validate"
)

type signupInput struct {
	Username  string `form:"username"  validate:"required,username,max=150"`
	Email     string `form:"email"     validate:"required,email"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,same=password1"`
	Phone     string `form:"phone"     validate:"nullable,max=200"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(signupInput{
		Username:  "john.doe",
		Email:     "john@example.com",
		Password1: "secret123",
		Password2: "secret123",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(signupInput{})
	if _, ok := errs["username"]; !ok {
		t.Error("expected username to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
	if _, ok := errs["phone"]; ok {
		t.Error("nullable phone should not be reported")
	}
}

func TestUsernameRule(t *testing.T) {
	type in struct {
		Username string `form:"username" validate:"username"`
	}
	if errs := validate.Struct(in{Username: "bad name!"}); !validate.HasErrors(errs) {
		t.Error("expected username with a space to fail")
	}
	if errs := validate.Struct(in{Username: "a.b+c@d-e_f"}); validate.HasErrors(errs) {
		t.Errorf("expected valid username, got %v", errs)
	}
}

func TestSameRule(t *testing.T) {
	errs := validate.Struct(signupInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "secret123",
		Password2: "secret124",
	})
	if errs["password2"] != "The two password fields didn't match." {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `form:"status" validate:"required,in=Pending|Out for delivery|Delivered"`
	}
	if errs := validate.Struct(in{Status: "Out for delivery"}); validate.HasErrors(errs) {
		t.Errorf("expected valid status, got %v", errs)
	}
	if errs := validate.Struct(in{Status: "Lost"}); !validate.HasErrors(errs) {
		t.Error("expected unknown status to fail")
	}
}

func TestNumberRules(t *testing.T) {
	type in struct {
		Price string `form:"price" validate:"required,decimal,gte=0"`
		Qty   int    `form:"qty"   validate:"min=1,max=10"`
	}
	if errs := validate.Struct(in{Price: "19.99", Qty: 3}); validate.HasErrors(errs) {
		t.Errorf("expected valid, got %v", errs)
	}

	errs := validate.Struct(in{Price: "-1", Qty: 11})
	if _, ok := errs["price"]; !ok {
		t.Error("expected negative price to fail")
	}
	if _, ok := errs["qty"]; !ok {
		t.Error("expected qty above max to fail")
	}

	if errs := validate.Struct(in{Price: "abc", Qty: 1}); errs["price"] != "Enter a number." {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestDateRule(t *testing.T) {
	type in struct {
		Start string `form:"start_date" validate:"nullable,date"`
	}
	if errs := validate.Struct(in{Start: "2024-02-29"}); validate.HasErrors(errs) {
		t.Errorf("expected valid date, got %v", errs)
	}
	if errs := validate.Struct(in{Start: "29/02/2024"}); !validate.HasErrors(errs) {
		t.Error("expected non-ISO date to fail")
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Error("expected empty nullable date to pass")
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Email string `form:"email" validate:"required,email,max=5"`
	}
	errs := validate.Struct(in{Email: "nope"})
	if errs["email"] != "Enter a valid email address." {
		t.Errorf("expected the email rule message, got %q", errs["email"])
	}
}
