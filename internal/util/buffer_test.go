package util

import "testing"

func TestBoundedBufferKeepsTail(t *testing.T) {
	b := NewBoundedBuffer(8)

	if _, err := b.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Write([]byte("world")); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "lloworld" {
		t.Errorf("String() = %q, want %q", got, "lloworld")
	}

	if _, err := b.Write([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "23456789" {
		t.Errorf("String() = %q, want %q", got, "23456789")
	}

	b.Reset()
	if got := b.String(); got != "" {
		t.Errorf("String() after Reset = %q, want empty", got)
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single", "arecord: main:830: audio open error", "arecord: main:830: audio open error"},
		{"trailing blank lines", "first\nsecond\n\n  \n", "second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastLine(tt.in); got != tt.want {
				t.Errorf("LastLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
