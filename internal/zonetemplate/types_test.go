package zonetemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func selected(opts []TypeOption) []TypeOption {
	var out []TypeOption

	for _, o := range opts {
		if o.Selected {
			out = append(out, o)
		}
	}

	return out
}

func TestIsKnownType(t *testing.T) {
	assert.True(t, IsKnownType("A"))
	assert.True(t, IsKnownType("srv"))
	assert.False(t, IsKnownType("BOGUS"))
	assert.False(t, IsKnownType(""))
}

func TestRecordTypesIsACopy(t *testing.T) {
	types := RecordTypes()
	types[0] = "changed"

	assert.Equal(t, "A", RecordTypes()[0])
}

func TestTypeOptions(t *testing.T) {
	t.Run("defaults to A", func(t *testing.T) {
		opts := TypeOptions("", "")

		assert.Len(t, opts, len(RecordTypes()))
		assert.Equal(t, []TypeOption{{Value: "A", Selected: true}}, selected(opts))
	})

	t.Run("reverse zone defaults to PTR", func(t *testing.T) {
		opts := TypeOptions("", "2.0.192.in-addr.arpa")
		assert.Equal(t, []TypeOption{{Value: "PTR", Selected: true}}, selected(opts))
	})

	t.Run("posted type", func(t *testing.T) {
		opts := TypeOptions("MX", "")

		assert.Len(t, opts, len(RecordTypes()))
		assert.Equal(t, []TypeOption{{Value: "MX", Selected: true}}, selected(opts))
	})

	t.Run("posted type in lower case", func(t *testing.T) {
		opts := TypeOptions(" a ", "")

		assert.Len(t, opts, len(RecordTypes()))
		assert.Equal(t, []TypeOption{{Value: "A", Selected: true}}, selected(opts))
	})

	t.Run("unknown posted type stays selectable", func(t *testing.T) {
		opts := TypeOptions("FOO", "")

		assert.Len(t, opts, len(RecordTypes())+1)
		assert.Equal(t, []TypeOption{{Value: "FOO", Selected: true, Custom: true}}, selected(opts))
		assert.Equal(t, "FOO", opts[len(opts)-1].Value)
	})
}
