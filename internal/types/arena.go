package types

// Arena mints fresh type variables with monotonically increasing IDs,
// addressed by small integer handles per §9's "arena allocation with
// integer node ids" preference — mirrored here for type variables rather
// than Core AST nodes (core.CoreNode already does that for the AST).
type Arena struct {
	nextID int
}

// NewArena creates a fresh Arena for one typechecking run.
func NewArena() *Arena {
	return &Arena{}
}

// Fresh allocates a new Unbound type variable at rank.
func (a *Arena) Fresh(rank int) *TVar {
	a.nextID++
	return &TVar{ID: a.nextID, Kind: Star, State: Unbound, Rank: rank}
}

// FreshRow allocates a new Unbound row variable (a record's open tail) at rank.
func (a *Arena) FreshRow(rank int) *TVar {
	a.nextID++
	return &TVar{ID: a.nextID, Kind: RecordRow, State: Unbound, Rank: rank}
}
