// Package latex normalizes a restricted LaTeX-like input into an arithmetic
// expression string the evaluator understands. Only the documented subset is
// handled; unrecognized constructs are left in place rather than guessed at.
package latex

import (
	"regexp"
	"strings"
)

const (
	commandFraction = `\frac`
	commandRoot     = `\sqrt`
	commandText     = `\text`
	commandUpright  = `\mathrm`

	// braceNotFound is the sentinel for an unbalanced brace group. Callers
	// stop rewriting and leave the input as-is, never panic.
	braceNotFound = -1
)

var bracketReplacer = strings.NewReplacer(
	`\left(`, "(",
	`\right)`, ")",
	`\left[`, "[",
	`\right]`, "]",
	`\left\{`, "{",
	`\right\}`, "}",
)

// The sign ambiguity of \pm is not preserved; mapping it to plus is a
// documented simplification.
var operatorReplacer = strings.NewReplacer(
	`\cdot`, "*",
	`\times`, "*",
	`\div`, "/",
	`\pm`, "+",
)

var (
	superscriptGroupPattern = regexp.MustCompile(`\^\{([^}]+)\}`)
	backslashCommandPattern = regexp.MustCompile(`\\([a-zA-Z]+)`)
	genericBraceReplacer    = strings.NewReplacer("{", "(", "}", ")")
)

// Normalize rewrites the LaTeX-like expression into plain arithmetic. The
// function is pure and idempotent on inputs already free of LaTeX tokens.
func Normalize(latexLike string) string {
	if latexLike == "" {
		return ""
	}

	expression := bracketReplacer.Replace(latexLike)
	expression = operatorReplacer.Replace(expression)

	for strings.Contains(expression, commandFraction+"{") {
		rewritten, changed := replaceCommand(expression, commandFraction, 2, func(arguments []string) string {
			return "(" + arguments[0] + ")/(" + arguments[1] + ")"
		})
		if !changed {
			break
		}
		expression = rewritten
	}

	for strings.Contains(expression, commandRoot) {
		// The bracketed-root form \sqrt[n]{A} is recognized but intentionally
		// left unhandled.
		if !strings.Contains(expression, commandRoot+"{") {
			break
		}
		rewritten, changed := replaceCommand(expression, commandRoot, 1, func(arguments []string) string {
			return "sqrt(" + arguments[0] + ")"
		})
		if !changed {
			break
		}
		expression = rewritten
	}

	for _, unwrapCommand := range []string{commandText, commandUpright} {
		for strings.Contains(expression, unwrapCommand+"{") {
			rewritten, changed := replaceCommand(expression, unwrapCommand, 1, func(arguments []string) string {
				return arguments[0]
			})
			if !changed {
				break
			}
			expression = rewritten
		}
	}

	expression = superscriptGroupPattern.ReplaceAllString(expression, "^($1)")

	// Strip any remaining backslash command down to its bare identifier so it
	// resolves as a scope variable or constant.
	expression = backslashCommandPattern.ReplaceAllString(expression, "$1")

	expression = genericBraceReplacer.Replace(expression)

	return expression
}

// replaceCommand locates the first occurrence of the command, scans its
// matched-brace argument groups and substitutes the handler's rewrite. The
// second return value reports whether a rewrite happened; a missing or
// unbalanced argument list leaves the input untouched.
func replaceCommand(input string, command string, argumentCount int, handler func(arguments []string) string) (string, bool) {
	commandIndex := strings.Index(input, command)
	if commandIndex == -1 {
		return input, false
	}

	cursor := commandIndex + len(command)
	var arguments []string

	for cursor < len(input) {
		for cursor < len(input) && (input[cursor] == ' ' || input[cursor] == '\t') {
			cursor++
		}
		if cursor >= len(input) || input[cursor] != '{' {
			break
		}
		closingIndex := findMatchingBrace(input, cursor)
		if closingIndex == braceNotFound {
			break
		}
		arguments = append(arguments, input[cursor+1:closingIndex])
		cursor = closingIndex + 1
	}

	if len(arguments) < argumentCount {
		return input, false
	}

	return input[:commandIndex] + handler(arguments) + input[cursor:], true
}

// findMatchingBrace returns the index of the brace closing the group opened at
// start, counting nested depth. Returns braceNotFound for unbalanced input.
func findMatchingBrace(input string, start int) int {
	depth := 0
	for index := start; index < len(input); index++ {
		switch input[index] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return index
			}
		}
	}
	return braceNotFound
}
