package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/r2"

	"claw_arm/ik"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // One or more commands were rejected
	ExitCommandError = 2 // Bad flags, config or arguments
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

type pointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type strokeView struct {
	From pointView `json:"from"`
	To   pointView `json:"to"`
}

// StateView is the printed form of a chain after a command.
type StateView struct {
	Command    string       `json:"command"`
	Status     string       `json:"status"`
	Iterations int          `json:"iterations"`
	Error      float64      `json:"error"`
	Clamped    bool         `json:"clamped"`
	Joints     []pointView  `json:"joints"`
	Claw       []strokeView `json:"claw"`
	Warning    string       `json:"warning,omitempty"`
}

// newStateView describes chain after a command that ended with res.
func newStateView(what string, chain *ik.Chain, res ik.Result, warning error) StateView {
	v := StateView{
		Command:    what,
		Status:     res.Status.String(),
		Iterations: res.Iterations,
		Error:      res.Error,
		Clamped:    chain.Clamped(),
		Joints:     []pointView{},
		Claw:       []strokeView{},
	}
	for _, j := range chain.Joints() {
		v.Joints = append(v.Joints, toPointView(j))
	}
	for _, s := range chain.Claw().Strokes() {
		v.Claw = append(v.Claw, strokeView{From: toPointView(s.From), To: toPointView(s.To)})
	}
	if warning != nil {
		v.Warning = warning.Error()
	}
	return v
}

func toPointView(p r2.Point) pointView {
	return pointView{X: p.X, Y: p.Y}
}

func (v StateView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", v.Command, v.Status)
	if v.Status != ik.StatusConverged.String() || v.Iterations > 0 {
		fmt.Fprintf(&b, " after %d iterations", v.Iterations)
	}
	fmt.Fprintf(&b, " (error %.4g)\n", v.Error)

	b.WriteString("  joints:")
	for _, j := range v.Joints {
		fmt.Fprintf(&b, " (%.3f, %.3f)", j.X, j.Y)
	}
	b.WriteString("\n")

	claw := "open"
	if v.Clamped {
		claw = "closed"
	}
	fmt.Fprintf(&b, "  claw: %s", claw)
	if v.Warning != "" {
		fmt.Fprintf(&b, "\n  warning: %s", v.Warning)
	}
	return b.String()
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	JSON      bool
	Writer    io.Writer
	ErrWriter io.Writer
}

// Print writes one result. JSON output is one object per line.
func (f *OutputFormatter) Print(v fmt.Stringer) error {
	if f.JSON {
		return json.NewEncoder(f.Writer).Encode(v)
	}
	_, err := fmt.Fprintln(f.Writer, v.String())
	return err
}

// Reject reports a command that was not executed.
func (f *OutputFormatter) Reject(what string, err error) {
	if f.JSON {
		_ = json.NewEncoder(f.Writer).Encode(map[string]string{"command": what, "rejected": err.Error()})
		return
	}
	fmt.Fprintf(f.ErrWriter, "%s: rejected: %v\n", what, err)
}
