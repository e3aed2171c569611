// fastview implements a builder pattern for simple server-side views:
// given an input data model, convert it to a view-model, and then
// multiplex that view-model to one or more views, whose element updates
// are pushed to the browser over a websocket.
package fastview

import (
	"html/template"
)

// EleUpdate is an element identifier and a set of operations to apply to its attributes/content.
type EleUpdate struct {
	// The id by which to find the element
	EleId string
	// Op keys are attrib keys or 'textContent', values are the strings to which these are set.
	// Example: ('fill','red') means 'set attribute fill to red'. 'textContent' is a reserved key:
	// ('textContent','0.25') means 'set ele.textContent to 0.25'.
	Ops []Op
}

// Op is a key and value. For example an html attribute and its new value.
type Op struct {
	Key   string
	Value string
}

// ViewComponent is a server side view: Parse adds its initial markup to a page
// template, and Updates is the chan by which its ele-updates are notified.
type ViewComponent interface {
	Updates() <-chan []EleUpdate
	// Parse adds the view-component's named template to the passed parent, inheriting
	// its func-map, and returns the name of the added template.
	Parse(*template.Template) (string, error)
}
