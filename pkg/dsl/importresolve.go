package dsl

import (
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/github/topodsl/pkg/logger"
)

var importLog = logger.New("dsl:import")

// mergeableOneLevel are the sections folded by a flat, no-override union of
// their top-level keys.
var mergeableOneLevel = map[string]bool{
	"interfaces": true,
	"plugins":    true,
	"workflows":  true,
}

// importLoader locates, parses, orders and merges a document's transitive
// imports. It holds no state across calls: every Parse/ParseFromFile builds
// its own loader.
type importLoader struct {
	reader  ContentReader
	aliases AliasMap
}

func newImportLoader(reader ContentReader, aliases AliasMap) *importLoader {
	return &importLoader{reader: reader, aliases: aliases}
}

func (l *importLoader) parseYAML(raw []byte) (map[string]any, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, &Error{Code: CodeYAMLParseFailure, Message: "failed to parse YAML: " + err.Error()}
	}
	if tree == nil {
		return nil, &Error{Code: CodeEmptyDocument, Message: "document is empty"}
	}
	return tree, nil
}

// locate resolves an import reference to a concrete, readable path, per
// §4.2: try the alias-mapped reference verbatim, then relative to the
// importing file's directory.
func (l *importLoader) locate(ref string, importingPath string) (string, []string, error) {
	resolved := l.aliases.resolve(ref)
	searched := []string{resolved}
	if _, err := l.reader.ReadFile(resolved); err == nil {
		return resolved, searched, nil
	}
	if importingPath != "" {
		candidate := filepath.Join(filepath.Dir(importingPath), resolved)
		searched = append(searched, candidate)
		if _, err := l.reader.ReadFile(candidate); err == nil {
			return candidate, searched, nil
		}
	}
	return "", searched, errImportNotFound(ref, searched)
}

// expansionState is the bookkeeping the DFS ordered-list construction shares
// across recursive calls.
type expansionState struct {
	ordered    []string
	orderedSet map[string]bool
	active     *pathTracker
}

// buildOrderedImports runs §4.2's ordered-list construction starting from
// the root document's (already-parsed) imports. rootPath may be empty when
// parsing from a string; in that case the returned list holds only the
// root's transitive imports, never the root itself.
func (l *importLoader) buildOrderedImports(rootTree map[string]any, rootPath string) ([]string, error) {
	state := &expansionState{orderedSet: map[string]bool{}, active: newPathTracker()}
	if err := l.expand(rootTree, rootPath, state); err != nil {
		return nil, err
	}
	ordered := state.ordered
	if rootPath != "" {
		// The root itself is not one of "its own imports"; strip it back out
		// of the returned list so callers iterate only over files to merge.
		filtered := ordered[:0]
		for _, p := range ordered {
			if p != rootPath {
				filtered = append(filtered, p)
			}
		}
		ordered = filtered
	}
	return ordered, nil
}

func (l *importLoader) expand(doc map[string]any, currentPath string, state *expansionState) error {
	if currentPath != "" {
		state.ordered = append(state.ordered, currentPath)
		state.orderedSet[currentPath] = true
		state.active.enter(currentPath)
		defer state.active.leave()
	}

	imports, err := stringSlice(doc["imports"], "imports")
	if err != nil {
		if _, ok := doc["imports"]; ok {
			return err
		}
		imports = nil
	}

	for _, ref := range imports {
		path, _, err := l.locate(ref, currentPath)
		if err != nil {
			return err
		}
		if state.orderedSet[path] {
			if chain, onActive := l.checkActive(state, path); onActive {
				return errCircularImports(chain)
			}
			continue // already merged by an earlier branch
		}

		raw, err := l.reader.ReadFile(path)
		if err != nil {
			return &Error{Code: CodeRefOpenFailed, Message: "failed to open import " + path + ": " + err.Error()}
		}
		childTree, err := l.parseYAML(raw)
		if err != nil {
			return err
		}
		if err := validateImportsSchema(childTree); err != nil {
			return err
		}

		importLog.Printf("queued import %s (from %s)", path, currentPath)
		if err := l.expand(childTree, path, state); err != nil {
			return err
		}
	}
	return nil
}

// checkActive reports whether path is currently being expanded (a cycle),
// returning the closing chain if so.
func (l *importLoader) checkActive(state *expansionState, path string) ([]string, bool) {
	for _, p := range state.active.path() {
		if p == path {
			return append(state.active.path(), path), true
		}
	}
	return nil, false
}

// mergeImports folds each file in ordered into combined (the root document,
// already deep-copied, with its own "imports" key removed) per §4.2's
// per-section merge policies. Each imported file is re-read and re-parsed,
// matching the reference resolution behavior even though it was already
// read once during ordered-list construction.
func (l *importLoader) mergeImports(combined map[string]any, ordered []string) (map[string]any, error) {
	for _, path := range ordered {
		raw, err := l.reader.ReadFile(path)
		if err != nil {
			return nil, &Error{Code: CodeRefOpenFailed, Message: "failed to open import " + path + ": " + err.Error()}
		}
		imported, err := l.parseYAML(raw)
		if err != nil {
			return nil, err
		}
		if err := mergeOne(combined, imported); err != nil {
			return nil, err
		}
	}
	delete(combined, "imports")
	return combined, nil
}

func mergeOne(combined, imported map[string]any) error {
	for key, value := range imported {
		if key == "imports" {
			continue
		}
		existing, present := combined[key]
		if !present {
			combined[key] = deepCopy(value)
			continue
		}
		switch {
		case mergeableOneLevel[key]:
			if err := mergeNoOverrideOneLevel(key, existing, value); err != nil {
				return err
			}
		case key == "policies":
			if err := mergePolicies(existing, value); err != nil {
				return err
			}
		default:
			return errNonMergeable(key)
		}
	}
	return nil
}

// mergeNoOverrideOneLevel merges src's top-level keys into dst in place;
// any key dst already has is a conflict (no overrides).
func mergeNoOverrideOneLevel(section string, dst, src any) error {
	dstMap, err := requireMap(dst, section)
	if err != nil {
		return err
	}
	srcMap, err := requireMap(src, section)
	if err != nil {
		return err
	}
	for k, v := range srcMap {
		if _, exists := dstMap[k]; exists {
			return errMergeConflict(section, []string{section, k})
		}
		dstMap[k] = deepCopy(v)
	}
	return nil
}

// mergePolicies merges one nested level deeper: policies.types and
// policies.rules are themselves merged with no-override duplicate detection.
func mergePolicies(dst, src any) error {
	dstMap, err := requireMap(dst, "policies")
	if err != nil {
		return err
	}
	srcMap, err := requireMap(src, "policies")
	if err != nil {
		return err
	}
	for subsection, srcSub := range srcMap {
		dstSub, present := dstMap[subsection]
		if !present {
			dstMap[subsection] = deepCopy(srcSub)
			continue
		}
		if err := mergeNoOverrideOneLevel("policies."+subsection, dstSub, srcSub); err != nil {
			return err
		}
	}
	return nil
}
