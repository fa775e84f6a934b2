package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextThemeCycles(t *testing.T) {
	SetCurrentTheme("dark")
	t.Cleanup(func() { SetCurrentTheme("dark") })

	var seen []string
	for range ThemeNames() {
		seen = append(seen, NextTheme())
	}
	assert.Equal(t, []string{"light", "sepia", "tinta", "dark"}, seen)
	assert.Equal(t, "dark", CurrentTheme().Name)
}

func TestUnknownThemeFallsBackToDark(t *testing.T) {
	SetCurrentTheme("sepia")
	t.Cleanup(func() { SetCurrentTheme("dark") })

	SetCurrentTheme("solarized")
	assert.Equal(t, DarkTheme, CurrentTheme())
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "Caminante", width: 20, want: "Caminante"},
		{name: "cut", in: "Volverán las oscuras golondrinas", width: 9, want: "Volverán…"},
		{name: "zero width", in: "mar", width: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.in, tt.width))
		})
	}
}
