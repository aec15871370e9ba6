package cmd

import (
	"testing"
)

func saveColorState(t *testing.T) {
	t.Helper()
	origMode := colorMode
	origRed := colorRed
	t.Cleanup(func() {
		colorMode = origMode
		if origRed != "" {
			enableColors()
		} else {
			disableColors()
		}
	})
}

func TestApplyColorMode(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		start     func()
		wantColor bool
	}{
		{"always overrides a disabled start", "always", disableColors, true},
		{"never overrides an enabled start", "never", enableColors, false},
		// stdout is a pipe under go test
		{"auto without a terminal", "auto", enableColors, false},
		{"unknown mode behaves like auto", "sometimes", enableColors, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveColorState(t)
			tt.start()
			colorMode = tt.mode
			applyColorMode()

			if got := colorRed != ""; got != tt.wantColor {
				t.Errorf("applyColorMode(%q) colors = %v, want %v", tt.mode, got, tt.wantColor)
			}
		})
	}
}

func TestEnableDisableColors(t *testing.T) {
	saveColorState(t)

	disableColors()
	for _, c := range []string{colorRed, colorGreen, colorYellow, colorCyan, colorDim, colorBold, colorReset} {
		if c != "" {
			t.Errorf("disableColors left %q set", c)
		}
	}

	enableColors()
	if colorRed == "" || colorReset == "" {
		t.Error("enableColors should set color codes")
	}
}

func TestShouldDisableColors(t *testing.T) {
	t.Run("NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		if !shouldDisableColors() {
			t.Error("shouldDisableColors should return true when NO_COLOR is set")
		}
	})

	t.Run("TERM=dumb", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "dumb")
		if !shouldDisableColors() {
			t.Error("shouldDisableColors should return true when TERM=dumb")
		}
	})
}

func TestTerminalWidth(t *testing.T) {
	tests := []struct {
		columns string
		want    int
	}{
		{"", 80},
		{"120", 120},
		{"notanumber", 80},
		{"-5", 80},
	}

	for _, tt := range tests {
		t.Setenv("COLUMNS", tt.columns)
		if got := terminalWidth(); got != tt.want {
			t.Errorf("terminalWidth() with COLUMNS=%q = %d, want %d", tt.columns, got, tt.want)
		}
	}
}
