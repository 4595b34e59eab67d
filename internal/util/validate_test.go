package util

import "testing"

func TestValidateRange(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{0, false},
		{10, false},
		{-1, true},
		{11, true},
	}

	for _, tt := range tests {
		err := ValidateRange("decay", tt.value, 0, 10)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRange(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && err.Field != "decay" {
			t.Errorf("ValidateRange(%d) field = %q, want %q", tt.value, err.Field, "decay")
		}
	}
}

func TestValidateOneOf(t *testing.T) {
	if err := ValidateOneOf("output", "gpio", "gpio", "text"); err != nil {
		t.Errorf("ValidateOneOf(gpio) = %v, want nil", err)
	}
	if err := ValidateOneOf("output", "lcd", "gpio", "text"); err == nil {
		t.Error("ValidateOneOf(lcd) = nil, want error")
	}
}
