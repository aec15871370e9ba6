package cmd

import (
	"os"
	"strings"
	"testing"
)

const sampleRules = `# spelling
teh the word
colour color

'\s+$' '' regex
`

func TestRules_ToStdout(t *testing.T) {
	env := newTestEnv(t)
	rulesPath := env.writeFile(t, "fix.rules", sampleRules)

	out, err := env.run(t, "Teh colour, teh tehran  ", "rules", rulesPath)
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if want := "the color, the tehran"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRules_InPlace(t *testing.T) {
	env := newTestEnv(t)
	rulesPath := env.writeFile(t, "fix.rules", sampleRules)
	path := env.writeFile(t, "essay.txt", "my favourite colour")

	out, err := env.run(t, "", "rules", "--in-place", rulesPath, path)
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected no stdout with --in-place, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "my favourite color" {
		t.Errorf("file = %q", data)
	}
}

func TestRules_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		args    []string
		wantErr string
	}{
		{"malformed rule", "ok fine\nlonely\n", nil, "line 2"},
		{"unknown flag", "a b loud\n", nil, "unknown flag"},
		{"bad regex", "'(' x regex\n", nil, "line 1"},
		{"in-place without file", "a b\n", []string{"-i"}, "--in-place needs a file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rulesPath := env.writeFile(t, "bad.rules", tt.rules)

			args := append([]string{"rules"}, tt.args...)
			_, err := env.run(t, "text", append(args, rulesPath)...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRules_MissingRulesFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "rules", env.path("absent.rules"))
	if err == nil || !strings.Contains(err.Error(), "failed to open rules") {
		t.Errorf("expected open error, got %v", err)
	}
}
