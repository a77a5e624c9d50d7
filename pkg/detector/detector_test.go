package detector

import "testing"

func TestDetect(t *testing.T) {
	d := New()

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "english",
			text: "Learn new skills with flexible online courses taught by experienced instructors from around the world.",
			want: "en",
			ok:   true,
		},
		{
			name: "spanish",
			text: "Aprende nuevas habilidades con cursos en línea flexibles impartidos por instructores con experiencia de todo el mundo.",
			want: "es",
			ok:   true,
		},
		{name: "too short", text: "Hola", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Detect() = %q, %v, want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMismatch(t *testing.T) {
	d := New()
	text := "Learn new skills with flexible online courses taught by experienced instructors from around the world."

	if got, ok := d.Mismatch("es", text); !ok || got != "en" {
		t.Errorf("Mismatch(es) = %q, %v, want %q, true", got, ok, "en")
	}
	if _, ok := d.Mismatch("en", text); ok {
		t.Error("Mismatch(en) reported a mismatch for English text")
	}
}
