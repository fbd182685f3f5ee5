package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemesPopulated(t *testing.T) {
	for _, name := range Names() {
		th := Get(name)

		fields := []struct {
			name  string
			color lipgloss.Color
		}{
			{"Bg", th.Bg},
			{"Accent", th.Accent},
			{"Subtle", th.Subtle},
			{"Text", th.Text},
			{"Dim", th.Dim},
			{"Border", th.Border},
			{"Locked", th.Locked},
			{"StatusBg", th.StatusBg},
			{"StatusFg", th.StatusFg},
			{"Info", th.Info},
			{"Warn", th.Warn},
			{"Error", th.Error},
		}

		for _, f := range fields {
			if string(f.color) == "" {
				t.Errorf("%s.%s is empty", name, f.name)
			}
		}
		if th.Glamour == "" {
			t.Errorf("%s.Glamour is empty", name)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	if got := Get("nope").Name; got != "catppuccin" {
		t.Errorf("Get(unknown) = %q", got)
	}
}

func TestSetAccent(t *testing.T) {
	th := DefaultTheme()
	th.SetAccent("#112233")
	if th.Accent != "#112233" {
		t.Errorf("Accent = %q", th.Accent)
	}
	th.SetAccent("red")
	if th.Accent != DefaultTheme().Accent {
		t.Errorf("invalid accent not reverted: %q", th.Accent)
	}
}
