// Copyright 2021-2025 Datagraphs Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

const (
	RDFSyntaxNS string = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNS       string = "http://www.w3.org/2001/XMLSchema#"
	I18NNS      string = "https://www.w3.org/ns/i18n#"

	XSDBoolean string = XSDNS + "boolean"
	XSDDouble  string = XSDNS + "double"
	XSDInteger string = XSDNS + "integer"
	XSDString  string = XSDNS + "string"

	RDFType        string = RDFSyntaxNS + "type"
	RDFFirst       string = RDFSyntaxNS + "first"
	RDFRest        string = RDFSyntaxNS + "rest"
	RDFNil         string = RDFSyntaxNS + "nil"
	RDFJSONLiteral string = RDFSyntaxNS + "JSON"
	RDFLangString  string = RDFSyntaxNS + "langString"
	RDFList        string = RDFSyntaxNS + "List"
	RDFValue       string = RDFSyntaxNS + "value"
	RDFLanguage    string = RDFSyntaxNS + "language"
	RDFDirection   string = RDFSyntaxNS + "direction"
)

// Node is the value of a subject, predicate or object: an IRI reference, a
// blank node, or a literal.
type Node interface {
	// GetValue returns the node's lexical value.
	GetValue() string

	// Equal returns true if this node is equal to the given node.
	Equal(n Node) bool
}

// IRI represents an IRI reference.
type IRI struct {
	Value string
}

// NewIRI creates a new instance of IRI.
func NewIRI(iri string) *IRI {
	return &IRI{Value: iri}
}

// GetValue returns the node's lexical value.
func (iri *IRI) GetValue() string {
	return iri.Value
}

// Equal returns true if this node is equal to the given node.
func (iri *IRI) Equal(n Node) bool {
	other, ok := n.(*IRI)
	return ok && iri.Value == other.Value
}

// BlankNode represents a blank node.
type BlankNode struct {
	Attribute string
}

// NewBlankNode creates a new instance of BlankNode.
func NewBlankNode(attribute string) *BlankNode {
	return &BlankNode{Attribute: attribute}
}

// GetValue returns the node's lexical value.
func (bn *BlankNode) GetValue() string {
	return bn.Attribute
}

// Equal returns true if this node is equal to the given node.
func (bn *BlankNode) Equal(n Node) bool {
	other, ok := n.(*BlankNode)
	return ok && bn.Attribute == other.Attribute
}

// Literal represents a literal value with a datatype and an optional language
// tag.
type Literal struct {
	Value    string
	Datatype string
	Language string
}

// NewLiteral creates a new instance of Literal. An empty datatype defaults to
// xsd:string.
func NewLiteral(value string, datatype string, language string) *Literal {
	l := &Literal{Value: value, Language: language, Datatype: datatype}
	if datatype == "" {
		l.Datatype = XSDString
	}
	return l
}

// GetValue returns the node's lexical value.
func (l *Literal) GetValue() string {
	return l.Value
}

// Equal returns true if this node is equal to the given node.
func (l *Literal) Equal(n Node) bool {
	other, ok := n.(*Literal)
	return ok && l.Value == other.Value && l.Datatype == other.Datatype && l.Language == other.Language
}

// IsIRINode returns true if the given node is an IRI reference.
func IsIRINode(n Node) bool {
	_, isIRI := n.(*IRI)
	return isIRI
}

// IsBlankNode returns true if the given node is a blank node.
func IsBlankNode(n Node) bool {
	_, isBlankNode := n.(*BlankNode)
	return isBlankNode
}

// IsLiteralNode returns true if the given node is a literal.
func IsLiteralNode(n Node) bool {
	_, isLiteral := n.(*Literal)
	return isLiteral
}

// Quad represents an RDF quad. Graph is nil for the default graph.
type Quad struct {
	Subject   Node
	Predicate Node
	Object    Node
	Graph     Node
}

// NewQuad creates a new instance of Quad. The graph name "" or "@default"
// places the triple in the default graph.
func NewQuad(subject Node, predicate Node, object Node, graph string) *Quad {
	q := &Quad{Subject: subject, Predicate: predicate, Object: object}
	if graph != "" && graph != "@default" {
		if IsBlankNodeIdentifier(graph) {
			q.Graph = NewBlankNode(graph)
		} else {
			q.Graph = NewIRI(graph)
		}
	}
	return q
}

// Equal returns true if this quad is equal to the given quad.
func (q *Quad) Equal(o *Quad) bool {
	if o == nil {
		return false
	}
	if (q.Graph == nil) != (o.Graph == nil) {
		return false
	}
	if q.Graph != nil && !q.Graph.Equal(o.Graph) {
		return false
	}
	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) && q.Object.Equal(o.Object)
}

// Valid reports whether every node of the quad is well formed enough to
// serialize: IRIs must be absolute and literal languages well formed.
func (q *Quad) Valid() bool {
	for _, n := range []Node{q.Subject, q.Predicate, q.Object, q.Graph} {
		switch v := n.(type) {
		case *IRI:
			if !IsAbsoluteIri(v.Value) {
				return false
			}
		case *Literal:
			if v.Language != "" && !bcp47Pattern.MatchString(v.Language) {
				return false
			}
			if v.Datatype != "" && !IsAbsoluteIri(v.Datatype) {
				return false
			}
		}
	}
	return true
}

// RDFDataset is the internal representation of an RDF dataset: quads indexed
// by graph name, with "@default" holding the default graph.
type RDFDataset struct {
	Graphs map[string][]*Quad
}

// NewRDFDataset creates a new instance of RDFDataset.
func NewRDFDataset() *RDFDataset {
	return &RDFDataset{
		Graphs: map[string][]*Quad{
			"@default": make([]*Quad, 0),
		},
	}
}

// GetQuads returns the quads of the given graph.
func (ds *RDFDataset) GetQuads(graphName string) []*Quad {
	return ds.Graphs[graphName]
}
