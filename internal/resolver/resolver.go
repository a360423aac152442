// Package resolver declares the Resolver contract (§6): the module-path
// resolution collaborator this front end calls out to but never
// implements. Module resolution (finding, reading, and deduplicating the
// files an import path names) is explicitly external — it lives outside
// the lex/parse/desugar/typecheck pipeline this repository builds, the
// same way the teacher keeps its own module loader (internal/loader,
// internal/link) as a separate concern from internal/pipeline's front-end
// phases. This package exists so the VF5000-series diagnostics have a
// documented trigger point even though no implementation ships here.
package resolver

// ResolvedModule is what a successful Resolve call returns: enough for a
// caller to read the module's source and detect on-disk case mismatches
// against the path as written in the importing file (VF5901).
type ResolvedModule struct {
	// AbsolutePath is the resolved module's location on whatever backing
	// store the Resolver implementation uses (filesystem, VFS, registry).
	AbsolutePath string

	// Source is the module's raw source text, ready for Lex.
	Source []byte

	// CaseOnDisk is AbsolutePath's final path segment exactly as it
	// appears in the backing store, for comparing against the
	// as-written import path (VF5901: case mismatch).
	CaseOnDisk string
}

// Resolver turns an import path into a ResolvedModule, relative to the
// module performing the import. Implementations raise the VF5000-series
// diagnostics (§6): VF5000 not found, VF5001 missing export, VF5002
// duplicate import, VF5003 shadowed, VF5004 self-import, VF5005 entry
// point not found — and push VF5900 (cycle) / VF5901 (case mismatch) as
// warnings rather than returning them as errors, matching §4.7's warning
// collector.
type Resolver interface {
	Resolve(path, from string) (ResolvedModule, error)
}
