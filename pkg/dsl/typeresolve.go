package dsl

// typeResolver computes the fully linearized form of a named type by
// walking its derived_from chain, merging each ancestor's sections with
// child-wins semantics.
type typeResolver struct {
	types map[string]TypeDecl
	cache map[string]TypeDecl
}

func newTypeResolver(types map[string]TypeDecl) *typeResolver {
	return &typeResolver{types: types, cache: map[string]TypeDecl{}}
}

// complete returns the fully merged form of the named type, per §4.4.
func (r *typeResolver) complete(name string) (TypeDecl, error) {
	if cached, ok := r.cache[name]; ok {
		return cached, nil
	}
	decl, ok := r.types[name]
	if !ok {
		return TypeDecl{}, &Error{Code: CodeUnknownNodeType, Message: "undefined type: " + name, Names: []string{name}}
	}
	tracker := newPathTracker()
	tracker.enter(name)
	result, err := r.completeRec(decl, tracker)
	if err != nil {
		return TypeDecl{}, err
	}
	r.cache[name] = result
	return result, nil
}

func (r *typeResolver) completeRec(current TypeDecl, tracker *pathTracker) (TypeDecl, error) {
	current = cloneTypeDecl(current)
	if current.DerivedFrom == "" {
		return current, nil
	}
	parentName := current.DerivedFrom
	if chain, ok := tracker.enter(parentName); !ok {
		return TypeDecl{}, errCircularDerivation(chain)
	}
	defer tracker.leave()

	parentDecl, ok := r.types[parentName]
	if !ok {
		return TypeDecl{}, &Error{Code: CodeUndefinedParentType, Message: "undefined parent type: " + parentName, Names: []string{parentName}}
	}
	parentComplete, err := r.completeRec(parentDecl, tracker)
	if err != nil {
		return TypeDecl{}, err
	}

	current.Properties = mergeMapsChildWins(parentComplete.Properties, current.Properties)
	current.Workflows = mergeMapsChildWins(parentComplete.Workflows, current.Workflows)
	current.Policies = mergeMapsChildWins(parentComplete.Policies, current.Policies)
	current.Interfaces = mergeInterfaceLists(parentComplete.Interfaces, current.Interfaces)
	return current, nil
}

// mergeMapsChildWins unions two maps; on key conflict the child's value
// wins. Either side may be nil.
func mergeMapsChildWins(parent, child map[string]any) map[string]any {
	if len(parent) == 0 && len(child) == 0 {
		return nil
	}
	out := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		out[k] = deepCopy(v)
	}
	for k, v := range child {
		out[k] = deepCopy(v)
	}
	return out
}

// mergeInterfaceLists combines a parent's and a child's interface lists:
// a child entry replaces the parent's entry of the same interface name in
// place; interfaces the child doesn't mention are kept from the parent;
// interfaces new to the child are appended in the child's declared order.
func mergeInterfaceLists(parent, child []InterfaceRef) []InterfaceRef {
	if len(parent) == 0 {
		return append([]InterfaceRef(nil), child...)
	}
	result := append([]InterfaceRef(nil), parent...)
	index := make(map[string]int, len(result))
	for i, ref := range result {
		index[ref.Name] = i
	}
	for _, ref := range child {
		if i, ok := index[ref.Name]; ok {
			result[i] = ref
			continue
		}
		index[ref.Name] = len(result)
		result = append(result, ref)
	}
	return result
}

func cloneTypeDecl(t TypeDecl) TypeDecl {
	return TypeDecl{
		DerivedFrom: t.DerivedFrom,
		Interfaces:  append([]InterfaceRef(nil), t.Interfaces...),
		Properties:  deepCopyMap(t.Properties),
		Workflows:   deepCopyMap(t.Workflows),
		Policies:    deepCopyMap(t.Policies),
	}
}
