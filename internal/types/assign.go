package types

// Rule names the assignability rule that decided a query.
type Rule uint8

const (
	RuleIdentical Rule = iota + 1
	RuleAlias
	RuleNumericWidening
	RulePointer
	RuleMismatch
)

func (r Rule) String() string {
	switch r {
	case RuleIdentical:
		return "identical"
	case RuleAlias:
		return "alias"
	case RuleNumericWidening:
		return "numeric-widening"
	case RulePointer:
		return "pointer"
	case RuleMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// assignRule inspects (to, from) and either decides (decided=true) or
// passes to the next rule.
type assignRule struct {
	rule  Rule
	check func(in *Interner, to, from TypeID) (ok, decided bool)
}

// assignRules is evaluated top to bottom; the last rule always decides, so
// every query terminates with an answer. Filled in init because the alias
// rule recurses through assignable.
var assignRules []assignRule

func init() {
	assignRules = []assignRule{
		{RuleIdentical, func(_ *Interner, to, from TypeID) (bool, bool) {
			return true, to == from
		}},
		{RuleAlias, func(in *Interner, to, from TypeID) (bool, bool) {
			uto, ufrom := in.Unalias(to), in.Unalias(from)
			if uto == to && ufrom == from {
				return false, false
			}
			if uto == NoTypeID || ufrom == NoTypeID {
				return false, true
			}
			ok, _ := in.assignable(uto, ufrom)
			return ok, true
		}},
		{RuleNumericWidening, func(in *Interner, to, from TypeID) (bool, bool) {
			tt, _ := in.Lookup(to)
			ft, _ := in.Lookup(from)
			if tt.Kind != KindPrimitive || ft.Kind != KindPrimitive {
				return false, false
			}
			fam := tt.Prim.Family()
			if fam == FamilyNone || fam != ft.Prim.Family() {
				return false, true
			}
			return ft.Prim.Bits() < tt.Prim.Bits(), true
		}},
		{RulePointer, func(in *Interner, to, from TypeID) (bool, bool) {
			tt, _ := in.Lookup(to)
			ft, _ := in.Lookup(from)
			if tt.Kind != KindPointer || ft.Kind != KindPointer {
				return false, false
			}
			return in.Unalias(tt.Elem) == in.Unalias(ft.Elem), true
		}},
		{RuleMismatch, func(*Interner, TypeID, TypeID) (bool, bool) {
			return false, true
		}},
	}
}

// IsAssignable reports whether a value of type from may be stored into a
// location of type to. It never allocates and never fails; unknown types are
// simply not assignable (unless identical).
func (in *Interner) IsAssignable(to, from TypeID) bool {
	ok, _ := in.assignable(to, from)
	return ok
}

// AssignRule reports the answer together with the rule that produced it.
func (in *Interner) AssignRule(to, from TypeID) (bool, Rule) {
	return in.assignable(to, from)
}

func (in *Interner) assignable(to, from TypeID) (bool, Rule) {
	if to == NoTypeID || from == NoTypeID {
		return false, RuleMismatch
	}
	for _, r := range assignRules {
		if ok, decided := r.check(in, to, from); decided {
			return ok, r.rule
		}
	}
	return false, RuleMismatch
}

func (in *Interner) prim(id TypeID) Prim {
	tt, ok := in.Lookup(in.Unalias(id))
	if !ok || tt.Kind != KindPrimitive {
		return PrimNone
	}
	return tt.Prim
}

// IsInteger holds for signed and unsigned integer primitives (through
// aliases).
func (in *Interner) IsInteger(id TypeID) bool {
	f := in.prim(id).Family()
	return f == FamilySigned || f == FamilyUnsigned
}

func (in *Interner) IsSigned(id TypeID) bool {
	return in.prim(id).Family() == FamilySigned
}

func (in *Interner) IsUnsigned(id TypeID) bool {
	return in.prim(id).Family() == FamilyUnsigned
}

func (in *Interner) IsFloat(id TypeID) bool {
	return in.prim(id).Family() == FamilyFloat
}

func (in *Interner) IsNumeric(id TypeID) bool {
	return in.prim(id).Family() != FamilyNone
}
