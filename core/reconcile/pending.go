package reconcile

import "container/list"

// Pending is the batch of records still waiting to be written.
// Appends consume from the front; matches remove the earliest record with a given key
// wherever it sits in the queue.
type Pending struct {
	keyField string
	queue    *list.List
	byKey    map[string][]*list.Element
}

// NewPending returns an empty batch keyed on keyField.
func NewPending(keyField string) *Pending {
	if keyField == "" {
		keyField = KeyField
	}
	return &Pending{
		keyField: normalize(keyField),
		queue:    list.New(),
		byKey:    make(map[string][]*list.Element),
	}
}

// PushBack appends a record to the end of the batch.
func (p *Pending) PushBack(r Record) {
	e := p.queue.PushBack(r)
	if key := r.Key(p.keyField); key != "" {
		p.byKey[key] = append(p.byKey[key], e)
	}
}

// Len returns the number of pending records.
func (p *Pending) Len() int {
	return p.queue.Len()
}

// PopFront removes and returns the oldest pending record.
func (p *Pending) PopFront() (Record, bool) {
	e := p.queue.Front()
	if e == nil {
		return Record{}, false
	}
	r := e.Value.(Record)
	p.remove(e, r.Key(p.keyField))
	return r, true
}

// Take removes and returns the oldest pending record whose key equals key.
// Blank keys never match.
func (p *Pending) Take(key string) (Record, bool) {
	if key == "" {
		return Record{}, false
	}
	elems := p.byKey[key]
	if len(elems) == 0 {
		return Record{}, false
	}
	e := elems[0]
	p.remove(e, key)
	return e.Value.(Record), true
}

// Records returns the pending records in queue order without consuming them.
func (p *Pending) Records() []Record {
	out := make([]Record, 0, p.queue.Len())
	for e := p.queue.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Record))
	}
	return out
}

func (p *Pending) remove(e *list.Element, key string) {
	p.queue.Remove(e)
	if key == "" {
		return
	}
	elems := p.byKey[key]
	for i, candidate := range elems {
		if candidate == e {
			elems = append(elems[:i], elems[i+1:]...)
			break
		}
	}
	if len(elems) == 0 {
		delete(p.byKey, key)
	} else {
		p.byKey[key] = elems
	}
}
