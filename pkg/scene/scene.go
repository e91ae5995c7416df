package scene

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation, such
// as a parse error or a runtime error in the scene script.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for scene evaluation. It is safe for
// concurrent use; each call to Evaluate creates a fresh sandboxed
// environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate parses and runs scene source code, producing a new Plan.
//
// Return semantics:
//   - On success: plan + nil errors + nil error
//   - On parse/eval failure: nil plan + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*Plan, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		plan, evalErrs, err := evaluate(source)
		ch <- evalResult{plan: plan, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys run in a fresh sandbox.
func evaluate(source string) (*Plan, []EvalError, error) {
	// Empty source is a valid script that produces an empty plan.
	if strings.TrimSpace(source) == "" {
		return NewPlan(), nil, nil
	}

	// Sandbox mode keeps scene scripts away from the filesystem and
	// syscalls; file paths in a plan are only opened by the caller.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	plan := NewPlan()
	registerBuiltins(env, plan)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygoError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygoError(err), nil
	}

	return plan, nil, nil
}

// linePattern matches zygomys error messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." messages.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygoError converts a zygomys error into EvalError values, extracting
// line numbers from the message where possible.
func parseZygoError(err error) []EvalError {
	msg := err.Error()

	for _, pat := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pat.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

// preprocessSource rewrites scene source before it reaches zygomys:
// traditional Lisp ; comments become // comments, and :keyword tokens become
// marker strings that the builtins recognize as keyword arguments. Both
// transformations respect string literal boundaries.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/8)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch {
		case b[i] == '"':
			// Copy the string literal untouched, honoring escapes.
			out = append(out, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					out = append(out, b[i], b[i+1])
					i += 2
					continue
				}
				out = append(out, b[i])
				i++
			}
			if i < len(b) {
				out = append(out, b[i])
				i++
			}

		case b[i] == ';':
			// zygomys uses // for line comments.
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case b[i] == ':' && i+1 < len(b) && isKWStart(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		default:
			out = append(out, b[i])
			i++
		}
	}
	return string(out)
}

func isKWStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isKWStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
