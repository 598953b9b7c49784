package model

// Store maintains the ordered set of variables declared for one template.
// It is not safe for concurrent mutation; callers own it the same way they
// own the template being edited.
type Store struct {
	opts      Options
	variables []Variable
	index     map[string]int
}

// NewStore seeds a store by adding each definition in order. The first
// rejected definition aborts construction.
func NewStore(vars ...Variable) (*Store, error) {
	return NewStoreWithOptions(Options{}, vars...)
}

// NewStoreWithOptions is NewStore with a custom configuration.
func NewStoreWithOptions(options Options, vars ...Variable) (*Store, error) {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	s := &Store{
		opts:  opts,
		index: make(map[string]int, len(vars)),
	}
	for _, def := range vars {
		if err := s.AddVariable(def); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddVariable canonicalises and appends def. The store is unchanged when the
// definition is rejected.
func (s *Store) AddVariable(def Variable) error {
	normalized, err := normalizeVariable(def)
	if err != nil {
		return err
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, exists := s.index[normalized.Name]; exists {
		return &VariableError{Name: normalized.Name, Err: ErrDuplicateVariable}
	}
	s.index[normalized.Name] = len(s.variables)
	s.variables = append(s.variables, normalized)
	return nil
}

// RemoveVariable deletes the variable whose canonical name matches name.
// Removing an unknown name is a no-op.
func (s *Store) RemoveVariable(name string) {
	canonical := CanonicalName(name)
	pos, ok := s.index[canonical]
	if !ok {
		return
	}
	s.variables = append(s.variables[:pos], s.variables[pos+1:]...)
	delete(s.index, canonical)
	for i := pos; i < len(s.variables); i++ {
		s.index[s.variables[i].Name] = i
	}
}

// ListVariables returns a copy of the variables in insertion order.
func (s *Store) ListVariables() []Variable {
	if s == nil || len(s.variables) == 0 {
		return nil
	}
	out := make([]Variable, len(s.variables))
	for i, v := range s.variables {
		out[i] = v
		out[i].Options = append([]string(nil), v.Options...)
	}
	return out
}

// Variable looks up a variable by canonical name.
func (s *Store) Variable(name string) (Variable, bool) {
	if s == nil {
		return Variable{}, false
	}
	pos, ok := s.index[CanonicalName(name)]
	if !ok {
		return Variable{}, false
	}
	return s.variables[pos], true
}

// Len reports the number of declared variables.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.variables)
}

// Adopt declares plain text variables for names that are not yet in the
// store, labelled with the configured labeler. It returns the variables that
// were added; names that canonicalise to empty or already exist are skipped.
func (s *Store) Adopt(names ...string) []Variable {
	var added []Variable
	for _, name := range names {
		canonical := CanonicalName(name)
		if canonical == "" {
			continue
		}
		if _, exists := s.index[canonical]; exists {
			continue
		}
		labeler := s.opts.Labeler
		if labeler == nil {
			labeler = DefaultLabeler
		}
		label := labeler(canonical)
		if label == "" {
			label = canonical
		}
		def := Variable{Name: canonical, Label: label, Type: VariableTypeText}
		if err := s.AddVariable(def); err != nil {
			continue
		}
		added = append(added, s.variables[len(s.variables)-1])
	}
	return added
}

// Apply returns a copy of tmpl whose variables are the store's contents.
func (s *Store) Apply(tmpl Template) Template {
	tmpl.Variables = s.ListVariables()
	return tmpl
}
