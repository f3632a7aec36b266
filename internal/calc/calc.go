// Package calc implements the tally arithmetic engine.
// A Calculator performs the four basic operations and keeps an append-only
// history of every operation that completed successfully.
package calc

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Op identifies an arithmetic operator.
type Op string

const (
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
	OpMultiply Op = "multiply"
	OpDivide   Op = "divide"
)

// Domain errors.
var (
	// ErrDivisionByZero is returned when the divisor of a divide operation
	// is zero. The operation records nothing; the result is never coerced
	// to Inf or NaN.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrUnknownOp is returned by Calculate for an unrecognized operator.
	ErrUnknownOp = errors.New("unknown operation")
)

// Operation is an immutable record of one completed computation.
type Operation struct {
	ID     string    `json:"id"`
	Op     Op        `json:"op"`
	Left   float64   `json:"left"`
	Right  float64   `json:"right"`
	Result float64   `json:"result"`
	At     time.Time `json:"at"`
}

// String renders the record in the classic "add(10, 5) = 15" form.
func (o Operation) String() string {
	return fmt.Sprintf("%s(%g, %g) = %g", o.Op, o.Left, o.Right, o.Result)
}

// Recorder receives successful operations for persistence.
// The in-memory history is the source of truth; a recorder failure is
// surfaced to the caller after the history entry has been appended.
type Recorder interface {
	Record(op Operation) error
}

// Calculator owns an ordered, append-only history of Operations.
// The zero value is not usable; construct with New.
type Calculator struct {
	mu       sync.RWMutex
	history  []Operation
	recorder Recorder
}

// New creates an empty Calculator.
func New() *Calculator {
	return &Calculator{}
}

// NewWithRecorder creates a Calculator that mirrors every successful
// operation to the given recorder.
func NewWithRecorder(r Recorder) *Calculator {
	return &Calculator{recorder: r}
}

// Add returns a + b and records the operation.
func (c *Calculator) Add(a, b float64) (float64, error) {
	return c.commit(OpAdd, a, b, a+b)
}

// Subtract returns a - b and records the operation.
func (c *Calculator) Subtract(a, b float64) (float64, error) {
	return c.commit(OpSubtract, a, b, a-b)
}

// Multiply returns a * b and records the operation.
func (c *Calculator) Multiply(a, b float64) (float64, error) {
	return c.commit(OpMultiply, a, b, a*b)
}

// Divide returns a / b and records the operation.
// Fails with ErrDivisionByZero when b is zero; nothing is recorded.
func (c *Calculator) Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, fmt.Errorf("divide(%g, %g): %w", a, b, ErrDivisionByZero)
	}
	return c.commit(OpDivide, a, b, a/b)
}

// Calculate dispatches on the operator name. Mirrors the direct methods;
// useful when the operator arrives as data (CLI args, config).
func (c *Calculator) Calculate(op Op, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return c.Add(a, b)
	case OpSubtract:
		return c.Subtract(a, b)
	case OpMultiply:
		return c.Multiply(a, b)
	case OpDivide:
		return c.Divide(a, b)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
}

// commit appends the completed operation to history and forwards it to the
// recorder when one is attached.
func (c *Calculator) commit(op Op, a, b, result float64) (float64, error) {
	entry := Operation{
		ID:     uuid.NewString(),
		Op:     op,
		Left:   a,
		Right:  b,
		Result: result,
		At:     time.Now().UTC(),
	}

	c.mu.Lock()
	c.history = append(c.history, entry)
	c.mu.Unlock()

	if c.recorder != nil {
		if err := c.recorder.Record(entry); err != nil {
			return result, fmt.Errorf("failed to record operation: %w", err)
		}
	}
	return result, nil
}

// History returns a copy of the history in insertion order.
func (c *Calculator) History() []Operation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Operation, len(c.history))
	copy(out, c.history)
	return out
}

// Len returns the number of recorded operations.
func (c *Calculator) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.history)
}

// ParseOp validates an operator name from external input.
func ParseOp(s string) (Op, error) {
	switch Op(s) {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return Op(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, s)
	}
}
