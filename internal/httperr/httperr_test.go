package httperr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestBusinessErrorMatching(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrBusiness("time_conflict"))

	if !IsBusiness(err, "time_conflict") {
		t.Fatal("expected wrapped business error to match")
	}
	if IsBusiness(err, "other") {
		t.Fatal("expected different code not to match")
	}

	code, ok := BusinessCode(err)
	if !ok || code != "time_conflict" {
		t.Fatalf("BusinessCode = %q, %v", code, ok)
	}
}

func TestPostgresClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		unique    bool
		fk        bool
		exclusion bool
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, true, false, false},
		{"foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), false, true, false},
		{"exclusion", &pgconn.PgError{Code: "23P01"}, false, false, true},
		{"plain", fmt.Errorf("boom"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.unique {
				t.Fatalf("IsUniqueViolation = %v", got)
			}
			if got := IsForeignKeyViolation(tt.err); got != tt.fk {
				t.Fatalf("IsForeignKeyViolation = %v", got)
			}
			if got := IsExclusionConflict(tt.err); got != tt.exclusion {
				t.Fatalf("IsExclusionConflict = %v", got)
			}
		})
	}
}

func TestPgDetail(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", Message: "duplicate key", Detail: "Key (email)=(a@b.c) already exists."}
	if got := PgDetail(err); got != "duplicate key: Key (email)=(a@b.c) already exists." {
		t.Fatalf("PgDetail = %q", got)
	}
	if got := PgDetail(fmt.Errorf("x")); got != "" {
		t.Fatalf("PgDetail on non pg error = %q", got)
	}
}

func TestValidationWritesFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Validation(c, map[string]string{"end_time": "must be after start"})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}

	var body HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "validation_failed" || body.Fields["end_time"] == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	if v.Err() != nil {
		t.Fatal("expected nil error without fields")
	}

	v.Add("end_time", "O fim deve ser depois do início.")
	v.Add("client_id", "Cliente é obrigatório.")

	err := fmt.Errorf("create: %w", v.Err())
	got, ok := AsValidation(err)
	if !ok || len(got.FieldErrors) != 2 {
		t.Fatalf("expected wrapped validation error, got %v", err)
	}
	if got.Error() != "validation failed: client_id, end_time" {
		t.Fatalf("unexpected message %q", got.Error())
	}
}
