package storage

import (
	"errors"
	"strings"
	"testing"

	"todoapp/internal/models"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "simple text", text: "buy milk"},
		{name: "whitespace only is non-empty", text: "   "},
		{name: "max length", text: strings.Repeat("x", models.MaxTextLength)},
		{name: "empty", text: "", wantErr: true},
		{name: "over max length", text: strings.Repeat("x", models.MaxTextLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error %v is not a ValidationError", err)
				}
			}
		})
	}
}
