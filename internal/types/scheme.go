package types

// Generalize closes over every Unbound type variable in t whose Rank is
// deeper than the enclosing let's rank (§4.6: "descend back to L, then
// generalize all free type variables whose level is > L"). The caller is
// responsible for only calling this when the right-hand side passed the
// syntactic-value restriction — Generalize itself has no way to tell a
// value from an effectful expression.
func Generalize(rank int, t Type) *Scheme {
	var vars []*TVar
	for _, tv := range FreeTypeVars(t) {
		if tv.Rank > rank {
			vars = append(vars, tv)
		}
	}
	for i, tv := range vars {
		tv.State = Generalized
		tv.Index = i
	}
	return &Scheme{Vars: vars, Type: t}
}

// Instantiate replaces every quantified variable of s with a fresh Unbound
// variable at rank, yielding a monomorphic instance of s fit for use at the
// current let-nesting depth.
func Instantiate(arena *Arena, rank int, s *Scheme) Type {
	if len(s.Vars) == 0 {
		return s.Type
	}
	sub := make(map[int]*TVar, len(s.Vars))
	for _, v := range s.Vars {
		sub[v.ID] = arena.Fresh(rank)
	}
	return instantiateType(sub, s.Type)
}

// InstantiateConstructor mints a fresh copy of a constructor's argument
// types and result type at rank, substituting fresh Unbound variables for
// info's type parameters — the constructor equivalent of Instantiate for
// a Scheme, since a constructor's polymorphism is recorded on
// ConstructorInfo rather than wrapped in a *Scheme.
func InstantiateConstructor(arena *Arena, rank int, info *ConstructorInfo) ([]Type, Type) {
	sub := make(map[int]*TVar, len(info.TypeParams))
	for _, v := range info.TypeParams {
		sub[v.ID] = arena.Fresh(rank)
	}
	args := make([]Type, len(info.ArgTypes))
	for i, a := range info.ArgTypes {
		args[i] = instantiateType(sub, a)
	}
	if len(info.TypeParams) == 0 {
		return args, &TCon{Name: info.TypeName}
	}
	targs := make([]Type, len(info.TypeParams))
	for i, v := range info.TypeParams {
		targs[i] = sub[v.ID]
	}
	return args, &TApp{Head: &TCon{Name: info.TypeName}, Args: targs}
}

func instantiateType(sub map[int]*TVar, t Type) Type {
	switch n := Prune(t).(type) {
	case *TVar:
		if fresh, ok := sub[n.ID]; ok {
			return fresh
		}
		return n
	case *TCon:
		return n
	case *TApp:
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = instantiateType(sub, a)
		}
		return &TApp{Head: instantiateType(sub, n.Head), Args: args}
	case *TFun:
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = instantiateType(sub, p)
		}
		return &TFun{Params: params, Return: instantiateType(sub, n.Return)}
	case *TRecord:
		fields := make(map[string]Type, len(n.Fields))
		for name, f := range n.Fields {
			fields[name] = instantiateType(sub, f)
		}
		var tail *TVar
		if n.Tail != nil {
			if fresh, ok := sub[n.Tail.ID]; ok {
				tail = fresh
			} else {
				tail = n.Tail
			}
		}
		return &TRecord{Fields: fields, Tail: tail}
	case *TTuple:
		elems := make([]Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = instantiateType(sub, e)
		}
		return &TTuple{Elems: elems}
	case *TUnion:
		members := make([]Type, len(n.Members))
		for i, m := range n.Members {
			members[i] = instantiateType(sub, m)
		}
		return &TUnion{Members: members}
	case *TRef:
		return &TRef{Inner: instantiateType(sub, n.Inner)}
	default:
		return t
	}
}
