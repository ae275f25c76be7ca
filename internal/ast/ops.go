package ast

import "fmt"

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryShiftLeft
	BinaryShiftRight
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryEq
	BinaryNotEq
	BinaryLess
	BinaryLessEq
	BinaryGreater
	BinaryGreaterEq
	BinaryAssign
)

var binarySpelling = [...]string{
	BinaryAdd:        "+",
	BinarySub:        "-",
	BinaryMul:        "*",
	BinaryDiv:        "/",
	BinaryMod:        "%",
	BinaryBitAnd:     "&",
	BinaryBitOr:      "|",
	BinaryBitXor:     "^",
	BinaryShiftLeft:  "<<",
	BinaryShiftRight: ">>",
	BinaryLogicalAnd: "&&",
	BinaryLogicalOr:  "||",
	BinaryEq:         "==",
	BinaryNotEq:      "!=",
	BinaryLess:       "<",
	BinaryLessEq:     "<=",
	BinaryGreater:    ">",
	BinaryGreaterEq:  ">=",
	BinaryAssign:     "=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binarySpelling) {
		return binarySpelling[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// ParseBinaryOp maps an operator spelling to its BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i, sp := range binarySpelling {
		if sp == s {
			return BinaryOp(i), true //nolint:gosec // small table
		}
	}
	return 0, false
}

// IsArithmetic reports whether op combines two numeric operands into a
// numeric result.
func (op BinaryOp) IsArithmetic() bool {
	return op <= BinaryShiftRight
}

type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
	UnaryAddr
	UnaryDeref
)

var unarySpelling = [...]string{
	UnaryNeg:    "-",
	UnaryNot:    "!",
	UnaryBitNot: "~",
	UnaryAddr:   "&",
	UnaryDeref:  "*",
}

func (op UnaryOp) String() string {
	if int(op) < len(unarySpelling) {
		return unarySpelling[op]
	}
	return fmt.Sprintf("UnaryOp(%d)", uint8(op))
}

func ParseUnaryOp(s string) (UnaryOp, bool) {
	for i, sp := range unarySpelling {
		if sp == s {
			return UnaryOp(i), true //nolint:gosec // small table
		}
	}
	return 0, false
}
