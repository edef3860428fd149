package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticket(number, title string) Record {
	pairs := []Field{{Name: "number", Value: number}}
	if title != "" {
		pairs = append(pairs, Field{Name: "title", Value: title})
	}
	return FromParsedFields(pairs, nil, nil)
}

func TestPending_FIFO(t *testing.T) {
	p := NewPending("")
	p.PushBack(ticket("1", "a"))
	p.PushBack(ticket("2", "b"))
	p.PushBack(ticket("3", "c"))

	r, ok := p.PopFront()
	require.True(t, ok)
	assert.Equal(t, "1", r.Key(KeyField))
	assert.Equal(t, 2, p.Len())
}

func TestPending_TakeByKey(t *testing.T) {
	p := NewPending(KeyField)
	p.PushBack(ticket("1", "a"))
	p.PushBack(ticket("2", "b"))
	p.PushBack(ticket("3", "c"))

	r, ok := p.Take("2")
	require.True(t, ok)
	assert.Equal(t, "b", r.Map()["title"])

	_, ok = p.Take("2")
	assert.False(t, ok)

	keys := []string{}
	for _, rec := range p.Records() {
		keys = append(keys, rec.Key(KeyField))
	}
	assert.Equal(t, []string{"1", "3"}, keys)
}

func TestPending_DuplicateKeysConsumeEarliest(t *testing.T) {
	p := NewPending(KeyField)
	p.PushBack(ticket("5", "first"))
	p.PushBack(ticket("5", "second"))

	r, ok := p.Take("5")
	require.True(t, ok)
	assert.Equal(t, "first", r.Map()["title"])

	r, ok = p.Take("5")
	require.True(t, ok)
	assert.Equal(t, "second", r.Map()["title"])
	assert.Equal(t, 0, p.Len())
}

func TestPending_PopFrontKeepsIndexConsistent(t *testing.T) {
	p := NewPending(KeyField)
	p.PushBack(ticket("9", ""))
	p.PushBack(ticket("10", ""))

	_, ok := p.PopFront()
	require.True(t, ok)

	_, ok = p.Take("9")
	assert.False(t, ok)
	_, ok = p.Take("10")
	assert.True(t, ok)
}

func TestPending_BlankKeyNeverMatches(t *testing.T) {
	p := NewPending(KeyField)
	p.PushBack(FromParsedFields([]Field{{Name: "title", Value: "keyless"}}, nil, nil))

	_, ok := p.Take("")
	assert.False(t, ok)
	assert.Equal(t, 1, p.Len())

	_, ok = p.PopFront()
	assert.True(t, ok)
	_, ok = p.PopFront()
	assert.False(t, ok)
}
