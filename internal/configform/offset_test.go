package configform

import "testing"

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "90", want: 90},
		{in: "1:30", want: 90},
		{in: "01:02:03", want: 3723},
		{in: " 2:00 ", want: 120},
		{in: "", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
		{in: "1:60", wantErr: true},
		{in: "a:10", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseOffset(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseOffset(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseOffset(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestFormatOffset(t *testing.T) {
	if got := FormatOffset(3723); got != "01:02:03" {
		t.Fatalf("unexpected format: %s", got)
	}
}
