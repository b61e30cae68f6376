// Package dsl parses and semantically resolves a declarative, YAML-based
// description of a deployable application topology.
//
// The pipeline runs, leaves first: an alias table maps logical import names
// to file paths; an import loader locates, parses and orders every
// transitively imported document; a merger folds those documents into the
// root one under per-section policies; a schema validator checks the
// combined tree; a type resolver linearizes derived_from chains; a node
// processor autowires plugins and binds operations; and a plan assembler
// emits the final, flattened deployment plan.
//
// Everything upstream of the plan is discarded once assembled: a Parse (or
// ParseFromFile) call is atomic and holds no state across invocations.
package dsl
