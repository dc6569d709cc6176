package evaluator

import (
	"fmt"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
)

// DefaultMaxDepth bounds nested evaluation so runaway recursion reports an
// error instead of exhausting the goroutine stack.
const DefaultMaxDepth = 10000

// BudgetTracker tracks resource consumption during one evaluation.
type BudgetTracker struct {
	Depth    int
	MaxDepth int
	Calls    int64
}

func (b *BudgetTracker) enter() error {
	if b.MaxDepth > 0 && b.Depth >= b.MaxDepth {
		return &RuntimeError{
			Code:    diagnostics.ERecursionDepth,
			Message: fmt.Sprintf("recursion depth exceeded (max %d)", b.MaxDepth),
		}
	}
	b.Depth++
	return nil
}

func (b *BudgetTracker) leave() {
	b.Depth--
}
