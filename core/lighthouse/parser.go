package lighthouse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"refraction/core/reconcile"
)

const (
	rootTickets = "tickets"
	// rootEmpty is what Rails renders for an empty array.
	rootEmpty     = "nil-classes"
	elementTicket = "ticket"
)

// Item is one parsed <ticket>: its direct child elements in document order.
type Item struct {
	Fields []reconcile.Field
}

// ParseTickets parses a tickets.xml document. Every direct child element of a <ticket> becomes
// a field named after the element's local name. Elements marked nil="true" yield "". An element
// with nested elements cannot be read as text; it is returned with Err set and the rest of the
// ticket is still parsed. Malformed XML or an unexpected root element wraps ErrParse.
func ParseTickets(raw []byte) ([]Item, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	root, err := nextStart(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrParse)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	switch root.Name.Local {
	case rootTickets, rootEmpty:
	default:
		return nil, fmt.Errorf("%w: unexpected root element <%s>", ErrParse, root.Name.Local)
	}

	var items []Item
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elementTicket {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrParse, err)
				}
				continue
			}
			item, err := parseTicket(dec)
			if err != nil {
				return nil, fmt.Errorf("%w: ticket %d: %v", ErrParse, len(items)+1, err)
			}
			items = append(items, item)
		case xml.EndElement:
			if err := ensureTrailer(dec); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrParse, err)
			}
			return items, nil
		}
	}
}

// nextStart skips the prolog and returns the root element.
func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// ensureTrailer rejects anything but whitespace, comments or processing instructions after the root.
func ensureTrailer(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("unexpected text after root")
			}
		}
	}
}

func parseTicket(dec *xml.Decoder) (Item, error) {
	var item Item
	for {
		tok, err := dec.Token()
		if err != nil {
			return item, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			field, err := parseField(dec, t)
			if err != nil {
				return item, err
			}
			item.Fields = append(item.Fields, field)
		case xml.EndElement:
			return item, nil
		}
	}
}

// parseField reads the text content of a field element. Syntax errors are returned;
// nested elements are reported on the field itself.
func parseField(dec *xml.Decoder, start xml.StartElement) (reconcile.Field, error) {
	field := reconcile.Field{Name: start.Name.Local}
	isNil := false
	for _, attr := range start.Attr {
		if attr.Name.Local == "nil" && attr.Value == "true" {
			isNil = true
		}
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return field, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if field.Err == nil {
				field.Err = fmt.Errorf("element <%s> contains nested element <%s>", field.Name, t.Name.Local)
			}
			if err := dec.Skip(); err != nil {
				return field, err
			}
		case xml.EndElement:
			if field.Err == nil && !isNil {
				field.Value = strings.TrimSpace(text.String())
			}
			return field, nil
		}
	}
}
