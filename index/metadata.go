// Package index holds decoded compiler metadata keyed by JVM member
// signatures, and correlates declarations with it.
//
// Metadata is read from YAML documents of the form:
//
//	classes:
//	  - class: com.example.DataClass
//	    source: DataClass.kt
//	    members:
//	      - signature: method1(ZI)V
//	        kind: function
//	        visibility: public
//	        nullable: [false, false]
//	        defaults: [false, true]
//	      - signature: "name:Ljava/lang/String;"
//	        kind: property
//	        returnNullable: true
//
// Every signature is checked with the descriptor parser at load time, so a
// loaded Index only holds well-formed keys.
package index

// MemberKind is the kind of a metadata member.
type MemberKind string

const (
	KindFunction    MemberKind = "function"
	KindConstructor MemberKind = "constructor"
	KindProperty    MemberKind = "property"
)

// Visibility is the declared source visibility of a member.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Internal  Visibility = "internal"
	Private   Visibility = "private"
)

// Member is the metadata recorded for one function, constructor or
// property. Signature is the JVM member signature: "name(desc)R" for
// functions and constructors, "name:desc" for properties.
type Member struct {
	Signature  string     `yaml:"signature" validate:"required"`
	Kind       MemberKind `yaml:"kind" validate:"required,oneof=function constructor property"`
	Visibility Visibility `yaml:"visibility,omitempty" validate:"omitempty,oneof=public protected internal private"`

	// Nullable and Defaults are per parameter, in declaration order. Either
	// may be omitted; when present its length must match the descriptor.
	Nullable []bool `yaml:"nullable,omitempty"`
	Defaults []bool `yaml:"defaults,omitempty"`

	ReturnNullable bool `yaml:"returnNullable,omitempty"`
	Inline         bool `yaml:"inline,omitempty"`
	Suspend        bool `yaml:"suspend,omitempty"`
}

// ParamNullable reports whether parameter i was declared nullable.
func (m Member) ParamNullable(i int) bool {
	return i >= 0 && i < len(m.Nullable) && m.Nullable[i]
}

// HasDefault reports whether parameter i declares a default value.
func (m Member) HasDefault(i int) bool {
	return i >= 0 && i < len(m.Defaults) && m.Defaults[i]
}

// ClassMetadata is the metadata of one class. Class is its binary name.
type ClassMetadata struct {
	Class   string   `yaml:"class" validate:"required,excludesall=/;[<>"`
	Source  string   `yaml:"source,omitempty"`
	Members []Member `yaml:"members" validate:"dive"`
}

type document struct {
	Classes []ClassMetadata `yaml:"classes" validate:"dive"`
}
