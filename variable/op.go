package variable

// Op is an operator token shared by UnaryOp and BinaryOp variables (§4.2).
// Go has no operator overloading so, unlike das2C's function-pointer
// dispatch table, Op is just a small enum switched on at Get time — the
// same shape the teacher uses for format.EncodingType.
type Op uint8

const (
	OpUnknown Op = iota
	// Binary operators.
	OpAdd
	OpSub
	OpMul
	OpDiv
	// Unary operators.
	OpNeg
	OpAbs
	OpSqrt
	OpLn
	OpLog10
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpNeg:
		return "-"
	case OpAbs:
		return "abs"
	case OpSqrt:
		return "sqrt"
	case OpLn:
		return "ln"
	case OpLog10:
		return "log10"
	default:
		return "?"
	}
}

// IsBinary reports whether o is one of the binary operator tokens.
func (o Op) IsBinary() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	default:
		return false
	}
}
