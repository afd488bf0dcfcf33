package ir

import (
	"errors"
	"fmt"
	"slices"
)

// Verify checks the structural invariants the optimizer relies on: every
// block ends in exactly one terminator, operand slots reference live values
// of the same function, and use lists exactly mirror operand slots.
func Verify(fn *Function) error {
	var errs []error
	report := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]interface{}{fn.Name}, args...)...))
	}

	if len(fn.blocks) == 0 {
		report("function has no blocks")
	}

	live := make(map[*Instruction]bool)
	for _, b := range fn.blocks {
		for _, inst := range b.insts {
			live[inst] = true
		}
	}

	for _, b := range fn.blocks {
		if b.Parent != fn {
			report("block %s has wrong parent", b.Label)
		}
		if b.Terminator() == nil {
			report("block %s does not end with a terminator", b.Label)
		}
		seenNonPhi := false
		for n, inst := range b.insts {
			if inst.parent != b {
				report("%s is listed in %s but has a different parent", inst.Ref(), b.Label)
			}
			if inst.erased {
				report("%s is erased but still listed in %s", inst.Ref(), b.Label)
			}
			if fn.Lookup(inst.id) != inst {
				report("%s has a stale handle %s", inst.Ref(), inst.id)
			}
			if inst.IsTerminator() && n != len(b.insts)-1 {
				report("terminator %s is not last in %s", inst.Ref(), b.Label)
			}
			if inst.IsPhi() {
				if seenNonPhi {
					report("phi %s is not grouped at the top of %s", inst.Ref(), b.Label)
				}
				if len(inst.Incoming) != len(inst.operands) {
					report("phi %s has %d values for %d incoming blocks", inst.Ref(), len(inst.operands), len(inst.Incoming))
				}
			} else {
				seenNonPhi = true
			}
			for _, target := range inst.Targets {
				if target.Parent != fn {
					report("%s branches to foreign block %s", inst.Ref(), target.Label)
				}
			}
			errs = append(errs, verifyOperands(fn, inst, live)...)
			errs = append(errs, verifyUses(fn, inst, live)...)
		}
	}

	return errors.Join(errs...)
}

func verifyOperands(fn *Function, inst *Instruction, live map[*Instruction]bool) []error {
	var errs []error
	for n, u := range inst.operands {
		if u.user != inst || u.index != n {
			errs = append(errs, fmt.Errorf("%s: operand %d of %s has a corrupt slot", fn.Name, n, inst.Ref()))
		}
		if u.val == nil {
			if !inst.Intrinsic.IsDebugMarker() {
				errs = append(errs, fmt.Errorf("%s: operand %d of %s is detached", fn.Name, n, inst.Ref()))
			}
			continue
		}
		if !slices.Contains(u.val.base().uses, u) {
			errs = append(errs, fmt.Errorf("%s: operand %d of %s is missing from the use list of %s", fn.Name, n, inst.Ref(), u.val.Ref()))
		}
		switch v := u.val.(type) {
		case *Instruction:
			if v.erased || !live[v] {
				errs = append(errs, fmt.Errorf("%s: %s references erased value %s", fn.Name, inst.Ref(), v.Ref()))
			}
		case *Argument:
			if v.Parent != fn {
				errs = append(errs, fmt.Errorf("%s: %s references argument %s of another function", fn.Name, inst.Ref(), v.Ref()))
			}
		}
	}
	return errs
}

func verifyUses(fn *Function, inst *Instruction, live map[*Instruction]bool) []error {
	var errs []error
	for _, u := range inst.uses {
		if u.val != Value(inst) {
			errs = append(errs, fmt.Errorf("%s: use list of %s contains a slot referencing %s", fn.Name, inst.Ref(), u.val.Ref()))
			continue
		}
		if !live[u.user] {
			errs = append(errs, fmt.Errorf("%s: %s is used by erased instruction %s", fn.Name, inst.Ref(), u.user.Ref()))
			continue
		}
		if u.index >= len(u.user.operands) || u.user.operands[u.index] != u {
			errs = append(errs, fmt.Errorf("%s: use of %s by %s does not match an operand slot", fn.Name, inst.Ref(), u.user.Ref()))
		}
	}
	return errs
}

// VerifyModule verifies every function of m.
func VerifyModule(m *Module) error {
	var errs []error
	for _, fn := range m.Functions {
		if err := Verify(fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
