package validation

import (
	"net/http"
	"strings"
	"testing"

	apperrors "github.com/kbukum/transcriptiond/errors"
)

type params struct {
	Model     string `form:"model" validate:"omitempty,max=64,modelname"`
	OutFormat string `form:"out_format" validate:"omitempty,oneof=txt json"`
	JobID     string `json:"job_id" validate:"omitempty,uuid4"`
	NoTags    string `validate:"required"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        params
		wantField string
	}{
		{"valid", params{Model: "openai/whisper-small.en", OutFormat: "json", NoTags: "x"}, ""},
		{"empty optional", params{NoTags: "x"}, ""},
		{"bad format", params{OutFormat: "srt", NoTags: "x"}, "out_format"},
		{"bad model", params{Model: "rm -rf", NoTags: "x"}, "model"},
		{"model flag", params{Model: "--help", NoTags: "x"}, "model"},
		{"model with tag", params{Model: "llama3:8b", NoTags: "x"}, ""},
		{"model control char", params{Model: "tiny\x00", NoTags: "x"}, "model"},
		{"long model", params{Model: strings.Repeat("m", 65), NoTags: "x"}, "model"},
		{"bad uuid", params{JobID: "nope", NoTags: "x"}, "job_id"},
		{"required snake case", params{}, "no_tags"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.HTTPStatus != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", appErr.HTTPStatus)
			}
			fields, _ := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 || fields[0].Field != tc.wantField {
				t.Fatalf("fields = %+v, want one error on %s", fields, tc.wantField)
			}
		})
	}
}

func TestValidateOneofMessage(t *testing.T) {
	err := Validate(params{OutFormat: "srt", NoTags: "x"})
	if err == nil || !strings.Contains(err.Error(), "out_format must be one of: txt json") {
		t.Fatalf("unexpected message: %v", err)
	}
}
