package prompt

// Field is a tri-state patch field: unset (leave the existing value
// unchanged), or set to an explicit value, where the value may itself be
// the zero value (an explicit clear). This keeps "leave unchanged" and
// "set to empty" structurally distinct instead of collapsing both into a
// single nullable type.
type Field[T any] struct {
	value T
	set   bool
}

// Set wraps a value in a set Field.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// IsSet reports whether the field carries an explicit value.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Value returns the field's value, or the zero value when unset.
func (f Field[T]) Value() T {
	return f.value
}

// Patch describes a partial update of a prompt. Fields left unset are not
// touched by Apply.
type Patch struct {
	Name         Field[string]
	Description  Field[string]
	SystemPrompt Field[string]
	UserPrompt   Field[string]
	Group        Field[string]
	Tags         Field[[]string]
}

// IsZero reports whether the patch carries no changes at all.
func (p Patch) IsZero() bool {
	return !p.Name.IsSet() && !p.Description.IsSet() && !p.SystemPrompt.IsSet() &&
		!p.UserPrompt.IsSet() && !p.Group.IsSet() && !p.Tags.IsSet()
}

// Apply merges the patch onto base and returns the result. The base prompt
// is not modified.
func (p Patch) Apply(base Prompt) Prompt {
	out := *base.Clone()
	if p.Name.IsSet() {
		out.Name = p.Name.Value()
	}
	if p.Description.IsSet() {
		out.Description = p.Description.Value()
	}
	if p.SystemPrompt.IsSet() {
		out.SystemPrompt = p.SystemPrompt.Value()
	}
	if p.UserPrompt.IsSet() {
		out.UserPrompt = p.UserPrompt.Value()
	}
	if p.Group.IsSet() {
		out.Group = p.Group.Value()
	}
	if p.Tags.IsSet() {
		tags := p.Tags.Value()
		out.Tags = make([]string, len(tags))
		copy(out.Tags, tags)
	}
	return out
}
