package sphinxdex_test

import (
	"testing"

	"github.com/fwojciec/sphinxdex"
	"github.com/stretchr/testify/assert"
)

func TestObject_FullName(t *testing.T) {
	t.Parallel()

	t.Run("joins prefix and name with a dot", func(t *testing.T) {
		t.Parallel()

		o := sphinxdex.Object{Prefix: "ampel.core.UnitLoader", Name: "UnitLoader"}

		assert.Equal(t, "ampel.core.UnitLoader.UnitLoader", o.FullName())
	})

	t.Run("returns bare name without prefix", func(t *testing.T) {
		t.Parallel()

		o := sphinxdex.Object{Name: "ampel"}

		assert.Equal(t, "ampel", o.FullName())
	})
}

func TestObject_ResolveAnchor(t *testing.T) {
	t.Parallel()

	typ := sphinxdex.ObjType{Domain: "py", Name: "module", Label: "Python module", Role: "py:module"}

	t.Run("empty anchor means full name", func(t *testing.T) {
		t.Parallel()

		o := sphinxdex.Object{Prefix: "ampel.t3", Name: "T3Processor"}

		assert.Equal(t, "ampel.t3.T3Processor", o.ResolveAnchor(typ))
	})

	t.Run("dash anchor prefixes type name", func(t *testing.T) {
		t.Parallel()

		o := sphinxdex.Object{Name: "ampel", Anchor: "-"}

		assert.Equal(t, "module-ampel", o.ResolveAnchor(typ))
	})

	t.Run("explicit anchor is kept", func(t *testing.T) {
		t.Parallel()

		o := sphinxdex.Object{Name: "run", Anchor: "custom-anchor"}

		assert.Equal(t, "custom-anchor", o.ResolveAnchor(typ))
	})
}

func TestIndex_Doc(t *testing.T) {
	t.Parallel()

	t.Run("returns document metadata", func(t *testing.T) {
		t.Parallel()

		idx := validIndex()

		ref, ok := idx.Doc(2)

		assert.True(t, ok)
		assert.Equal(t, sphinxdex.DocRef{Index: 2, DocName: "installing", Filename: "installing.rst", Title: "Installing"}, ref)
	})

	t.Run("returns false out of range", func(t *testing.T) {
		t.Parallel()

		idx := validIndex()

		_, ok := idx.Doc(3)
		assert.False(t, ok)

		_, ok = idx.Doc(-1)
		assert.False(t, ok)
	})

	t.Run("tolerates short parallel arrays", func(t *testing.T) {
		t.Parallel()

		idx := &sphinxdex.Index{DocNames: []string{"a", "b"}, Titles: []string{"A"}}

		ref, ok := idx.Doc(1)

		assert.True(t, ok)
		assert.Equal(t, "b", ref.DocName)
		assert.Empty(t, ref.Title)
		assert.Empty(t, ref.Filename)
	})
}

func TestIndex_SortObjects(t *testing.T) {
	t.Parallel()

	idx := &sphinxdex.Index{Objects: []sphinxdex.Object{
		{Prefix: "b", Name: "x"},
		{Prefix: "a", Name: "z"},
		{Prefix: "a", Name: "y"},
	}}

	idx.SortObjects()

	assert.Equal(t, "a.y", idx.Objects[0].FullName())
	assert.Equal(t, "a.z", idx.Objects[1].FullName())
	assert.Equal(t, "b.x", idx.Objects[2].FullName())
}

func TestIndex_Stats(t *testing.T) {
	t.Parallel()

	stats := validIndex().Stats()

	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 2, stats.Terms)
	assert.Equal(t, 1, stats.TitleTerms)
	assert.Equal(t, 1, stats.Objects)
	assert.Equal(t, 1, stats.ObjTypes)
	assert.Zero(t, stats.Titles)
}
