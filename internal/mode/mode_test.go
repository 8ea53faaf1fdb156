package mode

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "live", want: Live},
		{input: "  LIVE ", want: Live},
		{input: "mock", want: Mock},
		{input: "", want: Mock},
		{input: "offline", want: Mock, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	if !Static(Live).IsLive() {
		t.Fatalf("expected live selector to report live")
	}
	if Static(Mock).IsLive() {
		t.Fatalf("expected mock selector to report mock")
	}
	if Name(Static(Live)) != "live" || Name(Static(Mock)) != "mock" || Name(nil) != "mock" {
		t.Fatalf("unexpected selector names")
	}
}
