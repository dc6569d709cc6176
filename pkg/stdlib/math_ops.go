package stdlib

import (
	"fmt"
	"math"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/object"
)

// Arithmetic is checked: a result that does not fit in int64 is an error
// rather than a wrapped value.

func overflow(op string, a, b int64) error {
	return &OpError{
		Code:    diagnostics.EOverflow,
		Message: fmt.Sprintf("integer overflow: (%s %d %d)", op, a, b),
	}
}

// + a b → integer
func opAdd(a, b int64) (object.Object, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return nil, overflow("+", a, b)
	}
	return object.NewInteger(sum), nil
}

// - a b → integer
func opSub(a, b int64) (object.Object, error) {
	diff := a - b
	if (b > 0 && diff > a) || (b < 0 && diff < a) {
		return nil, overflow("-", a, b)
	}
	return object.NewInteger(diff), nil
}

// * a b → integer
func opMul(a, b int64) (object.Object, error) {
	if a == 0 || b == 0 {
		return object.NewInteger(0), nil
	}
	product := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || product/b != a {
		return nil, overflow("*", a, b)
	}
	return object.NewInteger(product), nil
}

// / a b → integer, truncated toward zero
func opDiv(a, b int64) (object.Object, error) {
	if b == 0 {
		return nil, &OpError{Code: diagnostics.EDivisionByZero, Message: "division by zero"}
	}
	if a == math.MinInt64 && b == -1 {
		return nil, overflow("/", a, b)
	}
	return object.NewInteger(a / b), nil
}

// % a b → integer, sign follows the dividend
func opMod(a, b int64) (object.Object, error) {
	if b == 0 {
		return nil, &OpError{Code: diagnostics.EDivisionByZero, Message: "modulo by zero"}
	}
	if b == -1 {
		return object.NewInteger(0), nil
	}
	return object.NewInteger(a % b), nil
}

func compare(pred func(a, b int64) bool) func(a, b int64) (object.Object, error) {
	return func(a, b int64) (object.Object, error) {
		return object.NewBool(pred(a, b)), nil
	}
}
