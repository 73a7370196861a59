package gallery

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/logonova/internal/brand"
)

func bundles(ids ...string) []brand.AssetBundle {
	out := make([]brand.AssetBundle, len(ids))
	for i, id := range ids {
		out[i] = brand.AssetBundle{ID: id, BusinessName: "Acme", Variation: i}
	}
	return out
}

func ids(bs []brand.AssetBundle) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func TestPrependBatch_MostRecentFirst(t *testing.T) {
	g := New()
	require.NoError(t, g.PrependBatch(bundles("a1", "a2")))
	require.NoError(t, g.PrependBatch(bundles("b1", "b2", "b3")))

	assert.Equal(t, []string{"b1", "b2", "b3", "a1", "a2"}, ids(g.List()))
	assert.Equal(t, 5, g.Len())
}

func TestPrependBatch_RejectsDuplicatesAtomically(t *testing.T) {
	g := New()
	require.NoError(t, g.PrependBatch(bundles("a1")))

	assert.Error(t, g.PrependBatch(bundles("b1", "a1")))
	assert.Error(t, g.PrependBatch(bundles("c1", "c1")))
	assert.Error(t, g.PrependBatch([]brand.AssetBundle{{}}))
	assert.Equal(t, []string{"a1"}, ids(g.List()))
}

func TestGet_ReturnsCopy(t *testing.T) {
	g := New()
	require.NoError(t, g.PrependBatch(bundles("a1")))

	b, err := g.Get("a1")
	require.NoError(t, err)
	b.BusinessName = "mutated"

	again, err := g.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.BusinessName)

	_, err = g.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachMotion_Once(t *testing.T) {
	g := New()
	require.NoError(t, g.PrependBatch(bundles("a1")))
	asset := &brand.MotionAsset{Media: brand.Media{Data: []byte("mp4"), MIMEType: "video/mp4"}}

	require.NoError(t, g.AttachMotion("a1", asset))
	b, _ := g.Get("a1")
	assert.True(t, b.HasMotion())

	assert.ErrorIs(t, g.AttachMotion("a1", asset), ErrMotionAlreadyAttached)
	assert.ErrorIs(t, g.AttachMotion("missing", asset), ErrNotFound)
	assert.Error(t, g.AttachMotion("a1", &brand.MotionAsset{}))
}

func TestPrependBatch_Concurrent(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = g.PrependBatch(bundles(fmt.Sprintf("x%d-1", i), fmt.Sprintf("x%d-2", i)))
			_ = g.List()
		}(i)
	}
	wg.Wait()

	list := g.List()
	require.Len(t, list, 40)
	// Each batch stays contiguous and in order.
	for i := 0; i < len(list); i += 2 {
		assert.Equal(t, list[i].ID[:len(list[i].ID)-1]+"2", list[i+1].ID)
	}
}
