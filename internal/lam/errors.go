package lam

import (
	"errors"
	"fmt"
)

// ContractError is the panic value for a caller contract violation:
// input no well-formed elaborator would produce (arity mismatch, a full
// switch flag contradicting its cases, an unknown marshalling rule).
// It is a bug in the caller, never a condition to recover from in
// production code.
type ContractError struct {
	Op      string // constructor that detected the violation
	Message string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("lam.%s: %s", e.Op, e.Message)
}

// IsContractError returns true if err is a *ContractError.
// Uses errors.As to handle wrapped errors.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

func violate(op, format string, args ...any) {
	panic(&ContractError{Op: op, Message: fmt.Sprintf(format, args...)})
}

func mustNodes(op string, nodes ...Node) {
	for i, n := range nodes {
		if n == nil {
			violate(op, "child %d is nil", i)
		}
		if unbuilt(n) {
			violate(op, "child %d is a %s node that no constructor built", i, n.Kind())
		}
	}
}

// mustBuilt rejects nodes written as struct literals (&IfNode{}) or nil
// pointers instead of coming from a constructor.
func mustBuilt(op string, n Node) {
	if n == nil {
		violate(op, "nil node")
	}
	if unbuilt(n) {
		violate(op, "%s node was not built by a constructor", n.Kind())
	}
}

// unbuilt reports a nil pointer or a node missing a child that every
// constructor sets.
func unbuilt(n Node) bool {
	switch n := n.(type) {
	case *VarNode:
		return n == nil
	case *GlobalModuleNode:
		return n == nil
	case *ConstNode:
		return n == nil || n.c == nil
	case *ApplyNode:
		return n == nil || n.fn == nil
	case *FunctionNode:
		return n == nil || n.body == nil
	case *LetNode:
		return n == nil || n.value == nil || n.body == nil
	case *LetRecNode:
		return n == nil || n.body == nil
	case *PrimNode:
		return n == nil || n.prim == nil
	case *SwitchNode:
		return n == nil || n.scrutinee == nil
	case *StringSwitchNode:
		return n == nil || n.scrutinee == nil
	case *StaticRaiseNode:
		return n == nil
	case *StaticCatchNode:
		return n == nil || n.body == nil || n.handler == nil
	case *TryNode:
		return n == nil || n.body == nil || n.handler == nil
	case *IfNode:
		return n == nil || n.cond == nil || n.then == nil || n.els == nil
	case *SeqNode:
		return n == nil || n.first == nil || n.second == nil
	case *WhileNode:
		return n == nil || n.cond == nil || n.body == nil
	case *ForNode:
		return n == nil || n.from == nil || n.to == nil || n.body == nil
	case *AssignNode:
		return n == nil || n.value == nil
	}
	return false
}
