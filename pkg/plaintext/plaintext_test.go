package plaintext

import "testing"

func TestFromMarkup(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		changed bool
	}{
		{in: "Learn Go today", want: "Learn Go today"},
		{in: "<strong>Learn</strong> Go\n  <em>today</em>", want: "Learn Go today", changed: true},
		{in: "Tom &amp; Jerry", want: "Tom & Jerry", changed: true},
		{in: "5 < 6 & 7", want: "5 < 6 & 7"},
		{in: "<p></p>", want: "", changed: true},
	}

	for _, tt := range tests {
		got, changed := FromMarkup(tt.in)
		if got != tt.want || changed != tt.changed {
			t.Errorf("FromMarkup(%q) = %q, %v, want %q, %v", tt.in, got, changed, tt.want, tt.changed)
		}
	}
}
