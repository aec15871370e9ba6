package cmd

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestReplace_ToStdout(t *testing.T) {
	const input = "cat concat cat Cat"

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"first match by default", []string{"cat", "dog"}, "dog concat cat Cat"},
		{"all", []string{"--all", "cat", "dog"}, "dog condog dog dog"},
		{"all whole words", []string{"-a", "-w", "cat", "dog"}, "dog concat dog dog"},
		{"all with case", []string{"-a", "-c", "Cat", "Dog"}, "cat concat cat Dog"},
		{"nth", []string{"--nth", "3", "cat", "dog"}, "cat concat dog Cat"},
		{"nth past the end replaces the first", []string{"--nth", "9", "cat", "dog"}, "dog concat cat Cat"},
		{"no match leaves text", []string{"bird", "dog"}, input},
		{"replacement is literal", []string{"-r", "-a", `(c)at`, "$1og"}, "$1og con$1og $1og $1og"},
		{"empty replacement deletes", []string{"-a", "-w", "cat ", ""}, "concat Cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			args := append([]string{"replace"}, tt.args...)
			out, err := env.run(t, input, args...)
			if err != nil {
				t.Fatalf("replace failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestReplace_InPlace(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile(t, "draft.txt", "teh quick teh\n")

	out, err := env.run(t, "", "replace", "--in-place", "--all", "teh", "the", path)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected no stdout with --in-place, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "the quick the\n" {
		t.Errorf("file = %q, want %q", data, "the quick the\n")
	}
}

func TestReplace_InPlaceKeepsMode(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile(t, "draft.txt", "unchanged\n")
	if err := os.Chmod(path, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := env.run(t, "", "replace", "-i", "un", "", path); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "changed\n" {
		t.Errorf("file = %q, want %q", data, "changed\n")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestReplace_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   string
		wantUsage bool
	}{
		{"nth below one", []string{"replace", "--nth", "0", "a", "b"}, "--nth must be at least 1", true},
		{"in-place without file", []string{"replace", "-i", "a", "b"}, "--in-place needs a file", true},
		{"invalid regex", []string{"replace", "-r", "[", "b"}, "invalid pattern", false},
		{"missing replacement", []string{"replace", "a"}, "accepts between 2 and 3 arg(s)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.run(t, "abc", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if errors.Is(err, errInvalidArgs) != tt.wantUsage {
				t.Errorf("errors.Is(err, errInvalidArgs) = %v, want %v", !tt.wantUsage, tt.wantUsage)
			}
		})
	}
}

func TestReplacedMessage(t *testing.T) {
	tests := map[int]string{
		0: "No matches replaced",
		1: "Replaced 1 occurrence",
		4: "Replaced 4 occurrences",
	}
	for n, want := range tests {
		if got := replacedMessage(n); got != want {
			t.Errorf("replacedMessage(%d) = %q, want %q", n, got, want)
		}
	}
}
