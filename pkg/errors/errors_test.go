package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stdErrors.New("balance update failed")
	err := Wrap(CodeDependency, cause, "debit customer balance")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Error() != "DEPENDENCY_ERROR: debit customer balance" {
		t.Fatalf("unexpected formatted error %q", err.Error())
	}

	outer := fmt.Errorf("create order: %w", err)
	typed := As(outer)
	if typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected typed error through wrap chain, got %v", typed)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "insufficient customer balance").
		WithDetails(map[string]string{"available": "10.00", "required": "25.00"})

	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["available"] != "10.00" || details["required"] != "25.00" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeNotFound, "order not found")); got != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", got)
	}
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("untyped errors should map to internal, got %s", got)
	}
}

func TestDumpExtractsPQDetails(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23503",
		Constraint: "order_items_product_id_fkey",
		Table:      "order_items",
		Detail:     "still referenced",
	}
	dump := Dump(Wrap(CodeDependency, pqErr, "delete product"))

	if dump.PGCode != "23503" {
		t.Fatalf("expected pg code 23503, got %q", dump.PGCode)
	}
	if dump.PGConstraint != "order_items_product_id_fkey" {
		t.Fatalf("unexpected constraint %q", dump.PGConstraint)
	}
	if len(dump.Chain) == 0 {
		t.Fatal("expected non-empty chain")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pq.Error{Code: "23503"}
	if !IsForeignKeyViolation(fmt.Errorf("delete: %w", fk)) {
		t.Fatal("expected foreign key violation to be detected through wrapping")
	}
	if IsForeignKeyViolation(&pq.Error{Code: "23505"}) {
		t.Fatal("unique violations are not foreign key violations")
	}
	if IsForeignKeyViolation(stdErrors.New("other")) {
		t.Fatal("plain errors are not foreign key violations")
	}
}
