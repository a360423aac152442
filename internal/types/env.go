package types

// TypeEnv is a scope-chain mapping name → Scheme (§3). Each `let`/lambda
// body extends the enclosing environment with a child frame rather than
// mutating it in place, so that sibling scopes never see each other's
// bindings — the same scope-chain shape the teacher's env.go uses for its
// substitution-based environment, adapted here to schemes built over the
// mutable TVar representation.
type TypeEnv struct {
	parent *TypeEnv
	vars   map[string]*Scheme
}

// NewTypeEnv creates the root environment for one module.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{vars: make(map[string]*Scheme)}
}

// Extend returns a new child scope of e; bindings added to the child are
// invisible to e and to any of e's other children.
func (e *TypeEnv) Extend() *TypeEnv {
	return &TypeEnv{parent: e, vars: make(map[string]*Scheme)}
}

// Bind adds name → scheme to this frame only (VF5102 duplicate-binding
// detection at one scope is the caller's responsibility, since only the
// caller knows whether name was already declared in *this* frame).
func (e *TypeEnv) Bind(name string, scheme *Scheme) {
	e.vars[name] = scheme
}

// Lookup walks outward from e through parent frames for name.
func (e *TypeEnv) Lookup(name string) (*Scheme, bool) {
	for env := e; env != nil; env = env.parent {
		if s, ok := env.vars[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// DeclaredHere reports whether name is bound directly in e's own frame
// (not an outer one) — used for VF5102's same-scope duplicate check.
func (e *TypeEnv) DeclaredHere(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// FreeTypeVars collects every Unbound TVar reachable from t (after
// pruning), used by generalize to find the variables a let-binding's
// right-hand side introduced.
func FreeTypeVars(t Type) []*TVar {
	seen := make(map[int]*TVar)
	var walk func(Type)
	walk = func(t Type) {
		switch n := Prune(t).(type) {
		case *TVar:
			if n.State == Unbound {
				seen[n.ID] = n
			}
		case *TCon:
		case *TApp:
			walk(n.Head)
			for _, a := range n.Args {
				walk(a)
			}
		case *TFun:
			for _, p := range n.Params {
				walk(p)
			}
			walk(n.Return)
		case *TRecord:
			for _, f := range n.Fields {
				walk(f)
			}
			if n.Tail != nil {
				walk(n.Tail)
			}
		case *TTuple:
			for _, el := range n.Elems {
				walk(el)
			}
		case *TUnion:
			for _, m := range n.Members {
				walk(m)
			}
		case *TRef:
			walk(n.Inner)
		}
	}
	walk(t)
	vars := make([]*TVar, 0, len(seen))
	for _, v := range seen {
		vars = append(vars, v)
	}
	return vars
}

// ConstructorInfo records one nominal variant constructor's argument
// types and the name of the variant type it belongs to (§4.6: "each
// `type T = Ctor(…) | …` registers constructors globally in the current
// module scope"). TypeParams holds the Generalized type variables the
// enclosing `type T<a, b> = …` declared; InstantiateConstructor mints a
// fresh copy per use the same way Instantiate does for a Scheme.
type ConstructorInfo struct {
	TypeName   string
	TypeParams []*TVar
	ArgTypes   []Type
	Index      int // this constructor's position among its type's alternatives
}

// ConstructorEnv maps a constructor name to its info, plus records each
// variant type's full alternative-name set for exhaustiveness checking.
type ConstructorEnv struct {
	ctors map[string]*ConstructorInfo
	types map[string][]string // type name -> constructor names, in declaration order
}

// NewConstructorEnv creates an empty constructor table.
func NewConstructorEnv() *ConstructorEnv {
	return &ConstructorEnv{ctors: make(map[string]*ConstructorInfo), types: make(map[string][]string)}
}

// Register adds ctorName as one alternative of typeName (VF4602 duplicate
// detection is the caller's responsibility: Register itself does not
// reject a second registration of the same name).
func (c *ConstructorEnv) Register(typeName string, typeParams []*TVar, ctorName string, argTypes []Type) {
	info := &ConstructorInfo{
		TypeName: typeName, TypeParams: typeParams, ArgTypes: argTypes,
		Index: len(c.types[typeName]),
	}
	c.ctors[ctorName] = info
	c.types[typeName] = append(c.types[typeName], ctorName)
}

// Lookup returns the registered info for ctorName (VF4102 if absent).
func (c *ConstructorEnv) Lookup(ctorName string) (*ConstructorInfo, bool) {
	info, ok := c.ctors[ctorName]
	return info, ok
}

// ConstructorsOf returns every alternative name declared for typeName, in
// declaration order — the constructor universe CheckExhaustiveness needs.
func (c *ConstructorEnv) ConstructorsOf(typeName string) []string {
	return c.types[typeName]
}

// FFIOverload is one `external` declaration for a given name (§4.6: "FFI
// table = mapping from external name → non-empty ordered list of
// overloads").
type FFIOverload struct {
	Scheme     *Scheme
	JSName     string
	ImportPath string
}

// FFITable maps an external name to its ordered overload list.
type FFITable struct {
	overloads map[string][]*FFIOverload
}

// NewFFITable creates an empty FFI table.
func NewFFITable() *FFITable {
	return &FFITable{overloads: make(map[string][]*FFIOverload)}
}

// Add appends one overload for name, preserving declaration order (the
// order VF4201/VF4205 resolution tries overloads in).
func (f *FFITable) Add(name string, o *FFIOverload) {
	f.overloads[name] = append(f.overloads[name], o)
}

// Lookup returns the ordered overload list for name.
func (f *FFITable) Lookup(name string) ([]*FFIOverload, bool) {
	os, ok := f.overloads[name]
	return os, ok
}
