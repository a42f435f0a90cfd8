package core

// Snapshot is a copy of a note's state. Mutating it never affects the note.
type Snapshot struct {
	Body     string
	Metadata Metadata
}

// Partial is the result of a WholeTransform. Nil fields are left untouched.
type Partial struct {
	Body     *string
	Metadata Metadata
}

// BodyOf is a convenience for building a Partial body.
func BodyOf(s string) *string {
	return &s
}

// Transform reshapes a note. It is either a WholeTransform or a FieldTransform.
type Transform interface {
	isTransform()
}

// WholeTransform receives the full snapshot of a note and returns the fields
// to replace.
type WholeTransform func(Snapshot) Partial

// FieldTransform reshapes the body and the metadata independently.
type FieldTransform struct {
	Body     Field[string]
	Metadata MetadataTransform
}

func (WholeTransform) isTransform() {}
func (FieldTransform) isTransform() {}

// Chain applies transforms in order as a single transform. Each step sees the
// result of the previous one and the note is only updated once all succeed.
func Chain(ts ...Transform) Transform {
	return chain(ts)
}

type chain []Transform

func (chain) isTransform() {}

func validateTransform(t Transform) error {
	switch tr := t.(type) {
	case WholeTransform:
		if tr == nil {
			return &TransformTypeError{Reason: "whole transform function is nil"}
		}
	case FieldTransform:
		if err := tr.Body.validate("body"); err != nil {
			return err
		}
		return tr.Metadata.validate()
	case chain:
		for _, step := range tr {
			if err := validateTransform(step); err != nil {
				return err
			}
		}
	case nil:
		return &TransformTypeError{Reason: "transform is nil"}
	default:
		return &TransformTypeError{Reason: "unsupported transform type"}
	}
	return nil
}

// applyTransform computes the state produced by t from s. It never mutates s
// and assumes t was validated.
func applyTransform(t Transform, s Snapshot) Snapshot {
	switch tr := t.(type) {
	case WholeTransform:
		p := tr(s.clone())
		if p.Body != nil {
			s.Body = *p.Body
		}
		if p.Metadata != nil {
			s.Metadata = CloneMetadata(p.Metadata)
		}
	case FieldTransform:
		if body, ok := tr.Body.resolve(s.Body); ok {
			s.Body = body
		}
		if md, ok := tr.Metadata.resolve(s.Metadata); ok {
			s.Metadata = md
		}
	case chain:
		for _, step := range tr {
			s = applyTransform(step, s)
		}
	}
	return s
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Body: s.Body, Metadata: CloneMetadata(s.Metadata)}
}
