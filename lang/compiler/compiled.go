package compiler

// Program is the emitter's output: a flat instruction stream plus the
// deduplicated constant pool it references. It carries no magic or header —
// that belongs to container.Assemble, which wraps a Program (or a graph
// layout's equivalent output) into the binary container format.
type Program struct {
	Code      []byte
	Constants []Const
}

// Exports records the names an emitted module makes available, keyed by the
// exported name (spec §4.4: "Named exports are recorded in the output's
// export map (implementation-defined)"). Emit does not build an Exports
// value: exports are emitted as EXPORT and EXPORT_DEFAULT instructions in
// the code stream instead.
type Exports struct {
	Default *int
	Named   map[string]int
}
