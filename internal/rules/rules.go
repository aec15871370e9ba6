// Package rules runs batch find/replace rules over a buffer.
//
// A rules file holds one rule per line:
//
//	<term> <replacement> [case] [word] [regex]
//
// Lines are split with POSIX shell quoting, so terms containing spaces or
// backslashes should be single-quoted ('\d+'). Blank lines and lines whose
// first token starts with # are ignored.
package rules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"github.com/runger/notepadcc/internal/search"
)

// Rule is one parsed line of a rules file.
type Rule struct {
	Line        int
	Term        string
	Replacement string
	Options     search.Options
}

// ParseError describes a malformed rule and the 1-based line it came from.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Outcome reports what one rule did.
type Outcome struct {
	Rule  Rule
	Count int
	Err   error // set when the rule was skipped, e.g. search.ErrInvalidPattern
}

// Parse reads rules from r. It stops at the first malformed line.
func Parse(r io.Reader) ([]Rule, error) {
	var rules []Rule

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule, err := parseLine(line)
		if err != nil {
			return nil, ParseError{Line: lineNo, Message: err.Error()}
		}
		rule.Line = lineNo
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	return rules, nil
}

func parseLine(line string) (Rule, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return Rule{}, err
	}
	if len(tokens) < 2 {
		return Rule{}, errors.New("rule needs a term and a replacement")
	}
	if tokens[0] == "" {
		return Rule{}, errors.New("term must not be empty")
	}

	rule := Rule{Term: tokens[0], Replacement: tokens[1]}
	for _, flag := range tokens[2:] {
		switch strings.ToLower(flag) {
		case "case":
			rule.Options.MatchCase = true
		case "word":
			rule.Options.WholeWord = true
		case "regex":
			rule.Options.UseRegex = true
		default:
			return Rule{}, fmt.Errorf("unknown flag %q (want case, word or regex)", flag)
		}
	}

	if rule.Options.UseRegex {
		if _, err := search.BuildPattern(rule.Term, rule.Options); err != nil {
			return Rule{}, err
		}
	}

	return rule, nil
}

// Apply runs every rule against buffer in order, each seeing the output of
// the previous one, and returns the final buffer with one Outcome per rule.
func Apply(buffer string, rules []Rule) (string, []Outcome) {
	outcomes := make([]Outcome, 0, len(rules))
	for _, rule := range rules {
		out := Outcome{Rule: rule}

		if _, err := search.Scan(buffer, rule.Term, rule.Options); err != nil {
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		}

		buffer, out.Count = search.Replace(buffer, rule.Term, rule.Replacement, search.ScopeAll(), rule.Options)
		outcomes = append(outcomes, out)
	}
	return buffer, outcomes
}

// Total sums the replacement counts of outcomes.
func Total(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		n += o.Count
	}
	return n
}
