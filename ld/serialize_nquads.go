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

import (
	"bytes"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// RDFSerializer can serialize and de-serialize RDF datasets.
type RDFSerializer interface {
	// Parse the input (string, []byte or io.Reader) into an RDFDataset.
	Parse(input interface{}) (*RDFDataset, error)

	// Serialize an RDFDataset into its string form.
	Serialize(dataset *RDFDataset) (interface{}, error)
}

// RDFSerializerTo can serialize RDF datasets into an io.Writer.
type RDFSerializerTo interface {
	SerializeTo(w io.Writer, dataset *RDFDataset) error
}

// NQuadRDFSerializer reads and writes N-Quads, delegating the wire syntax to
// the quad/nquads codec.
type NQuadRDFSerializer struct {
}

// Parse N-Quads into an RDFDataset.
func (s *NQuadRDFSerializer) Parse(input interface{}) (*RDFDataset, error) {
	var reader io.Reader
	switch v := input.(type) {
	case string:
		reader = strings.NewReader(v)
	case []byte:
		reader = bytes.NewReader(v)
	case io.Reader:
		reader = v
	default:
		return nil, NewJsonLdError(InvalidInput, "expected a string, []byte or io.Reader of N-Quads")
	}

	dataset := NewRDFDataset()
	dec := nquads.NewReader(reader, false)
	for {
		q, err := dec.ReadQuad()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewJsonLdError(InvalidInput, err)
		}

		subject, err := nodeFromQuadValue(q.Subject)
		if err != nil {
			return nil, err
		}
		predicate, err := nodeFromQuadValue(q.Predicate)
		if err != nil {
			return nil, err
		}
		object, err := nodeFromQuadValue(q.Object)
		if err != nil {
			return nil, err
		}

		graphName := "@default"
		if q.Label != nil {
			graphNode, err := nodeFromQuadValue(q.Label)
			if err != nil {
				return nil, err
			}
			graphName = graphNode.GetValue()
		}

		dataset.Graphs[graphName] = append(dataset.Graphs[graphName], NewQuad(subject, predicate, object, graphName))
	}
	return dataset, nil
}

// SerializeTo writes an RDFDataset as N-Quads into w. Graphs are emitted
// ordered by name length, ties broken lexicographically; the quads of each
// graph keep the order they have in the dataset.
func (s *NQuadRDFSerializer) SerializeTo(w io.Writer, dataset *RDFDataset) error {
	enc := nquads.NewWriter(w)

	graphNames := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		graphNames = append(graphNames, name)
	}
	sortShortestLeast(graphNames)

	for _, graphName := range graphNames {
		for _, triple := range dataset.Graphs[graphName] {
			q := quad.Quad{
				Subject:   quadValueFromNode(triple.Subject),
				Predicate: quadValueFromNode(triple.Predicate),
				Object:    quadValueFromNode(triple.Object),
			}
			if graphName != "@default" {
				q.Label = quadValueFromNode(triple.Graph)
			}
			if err := enc.WriteQuad(q); err != nil {
				return NewJsonLdError(IOError, err)
			}
		}
	}
	if err := enc.Close(); err != nil {
		return NewJsonLdError(IOError, err)
	}
	return nil
}

// Serialize an RDFDataset into an N-Quads string.
func (s *NQuadRDFSerializer) Serialize(dataset *RDFDataset) (interface{}, error) {
	buf := bytes.NewBuffer(nil)
	if err := s.SerializeTo(buf, dataset); err != nil {
		return nil, err
	}
	return buf.String(), nil
}

func quadValueFromNode(n Node) quad.Value {
	switch v := n.(type) {
	case *IRI:
		return quad.IRI(v.Value)
	case *BlankNode:
		return quad.BNode(strings.TrimPrefix(v.Attribute, "_:"))
	case *Literal:
		switch {
		case v.Language != "":
			return quad.LangString{Value: quad.String(v.Value), Lang: v.Language}
		case v.Datatype != "" && v.Datatype != XSDString:
			return quad.TypedString{Value: quad.String(v.Value), Type: quad.IRI(v.Datatype)}
		default:
			return quad.String(v.Value)
		}
	default:
		return nil
	}
}

func nodeFromQuadValue(v quad.Value) (Node, error) {
	switch qv := v.(type) {
	case quad.IRI:
		return NewIRI(string(qv)), nil
	case quad.BNode:
		return NewBlankNode("_:" + string(qv)), nil
	case quad.String:
		return NewLiteral(string(qv), XSDString, ""), nil
	case quad.TypedString:
		return NewLiteral(string(qv.Value), string(qv.Type), ""), nil
	case quad.LangString:
		return NewLiteral(string(qv.Value), RDFLangString, qv.Lang), nil
	case quad.TypedStringer:
		ts := qv.TypedString()
		return NewLiteral(string(ts.Value), string(ts.Type.Full()), ""), nil
	default:
		return nil, NewJsonLdError(InvalidInput, v)
	}
}
