// Package rdf provides the triple data model consumed by the signature
// extractor and approach selector.
//
// The model is deliberately minimal: a Triple is a subject/predicate pair of
// identifiers plus an object Term, and a Window is an ordered batch of
// triples as delivered by an upstream windowing operator. This package does
// not parse RDF serializations (Turtle, N-Triples, ...); triples arrive
// already decoded from whatever transport the host uses.
//
// Example:
//
//	w := rdf.Window{
//		rdf.NewTriple("ex:sensor1", "ex:temperature", rdf.NewTypedLiteral("21.5", rdf.XSDDouble)),
//		rdf.NewTriple("ex:sensor1", "ex:label", rdf.NewLangLiteral("kitchen", "en")),
//		rdf.NewTriple("ex:sensor1", "ex:locatedIn", rdf.NewIRI("ex:building4")),
//	}
package rdf

// TermType discriminates the kinds of RDF terms that can appear in the
// object position of a triple.
type TermType string

// Object term kinds.
const (
	TermIRI     TermType = "iri"
	TermLiteral TermType = "literal"
	TermBlank   TermType = "bnode"
)

// Common XSD datatype IRIs for typed literals.
const (
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDFloat    = "http://www.w3.org/2001/XMLSchema#float"
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)

// Term is an RDF term in the object position of a triple.
//
// For literals, Value holds the lexical form, Datatype the optional datatype
// IRI, and Language the optional language tag. For IRIs and blank nodes,
// Value holds the identifier and the other fields are empty.
type Term struct {
	Type     TermType `json:"type"`
	Value    string   `json:"value"`
	Datatype string   `json:"datatype,omitempty"`
	Language string   `json:"language,omitempty"`
}

// NewIRI returns an IRI reference term.
func NewIRI(value string) Term {
	return Term{Type: TermIRI, Value: value}
}

// NewBlank returns a blank node term.
func NewBlank(id string) Term {
	return Term{Type: TermBlank, Value: id}
}

// NewLiteral returns a plain literal term with no datatype tag.
func NewLiteral(value string) Term {
	return Term{Type: TermLiteral, Value: value}
}

// NewTypedLiteral returns a literal term tagged with a datatype IRI.
//
// Example:
//
//	rdf.NewTypedLiteral("42", rdf.XSDInteger)
func NewTypedLiteral(value, datatype string) Term {
	return Term{Type: TermLiteral, Value: value, Datatype: datatype}
}

// NewLangLiteral returns a language-tagged literal term.
//
// Example:
//
//	rdf.NewLangLiteral("bonjour", "fr")
func NewLangLiteral(value, language string) Term {
	return Term{Type: TermLiteral, Value: value, Language: language}
}

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool {
	return t.Type == TermLiteral
}

// Triple is a single subject-predicate-object statement.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    Term   `json:"object"`
}

// NewTriple constructs a triple.
func NewTriple(subject, predicate string, object Term) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

// Window is a bounded batch of triples drawn from a stream.
//
// Slice order is the window's iteration order. The signature extractor
// depends on that order staying fixed for the life of one extraction call
// (it determines the numeric sequence fed to the spectral analysis); the
// order carries no other meaning. Windows may be empty.
type Window []Triple
