package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSet_Register(t *testing.T) {
	fields := NewFieldSet()
	fields.Register("number")
	fields.Register("Title")
	fields.Register("title")
	fields.Register("URL")
	fields.Register("number")
	fields.Register("")

	assert.Equal(t, []string{"number", "title", "url"}, fields.Names())
	assert.Equal(t, 3, fields.Len())
	assert.True(t, fields.Has("TITLE"))
	assert.False(t, fields.Has("state"))
}

func TestFieldSet_NamesIsCopy(t *testing.T) {
	fields := NewFieldSet()
	fields.Register("number")

	names := fields.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"number"}, fields.Names())
}

func TestFieldSet_RunScoped(t *testing.T) {
	first := NewFieldSet()
	first.Register("milestone-id")

	second := NewFieldSet()
	assert.Equal(t, 0, second.Len())
}
