package validation

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{name: "Pretty", format: "pretty"},
		{name: "CSV", format: "csv"},
		{name: "Unknown", format: "xml", wantErr: true},
		{name: "Empty", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "GBP"} {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("ValidateCurrency(%q) = %v, expected nil", code, err)
		}
	}
	for _, code := range []string{"JPY", "usd", ""} {
		if err := ValidateCurrency(code); err == nil {
			t.Errorf("ValidateCurrency(%q) = nil, expected an error", code)
		}
	}
}
