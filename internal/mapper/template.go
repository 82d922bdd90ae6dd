// Package mapper binds connector records to prepared-statement bound
// variables using a declarative mapping, invoking the codec registry per
// field.
package mapper

import "cqlbulk/internal/codec"

// Variable describes one bound variable of a prepared statement: its name,
// the internal CQL type the codec registry must convert to/from, and
// whether it participates in the partition routing key.
type Variable struct {
	Name         string
	Internal     codec.InternalType
	IsRoutingKey bool
}

// Template is the prepared-statement contract the schema/query-synthesis
// component hands to the mapper: a CQL template plus its bound-variable
// declarations, in column order.
type Template struct {
	CQL         string
	Variables   []Variable
	Consistency string
}

// ByName returns the Variable with the given name, or false if none exists.
func (t *Template) ByName(name string) (Variable, bool) {
	for _, v := range t.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
