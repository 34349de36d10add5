package images_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lhung/web-widgets/images"
	"github.com/lhung/web-widgets/models"
)

// sequentialPicker cycles through indices deterministically.
func sequentialPicker() func(int) int {
	next := 0

	return func(n int) int {
		idx := next % n
		next++

		return idx
	}
}

func TestAssign(t *testing.T) {
	pool := []string{"a.png", "b.png", "c.png"}

	t.Run("FillsOnlyMissingImages", func(t *testing.T) {
		offers := []models.Offer{
			{ListingID: "1", ImageURL: "existing.png"},
			{ListingID: "2"},
			{ListingID: "3", ImageURL: "  "},
		}

		images.NewAssignerWithSource(pool, sequentialPicker()).Assign(offers)

		assert.Equal(t, "existing.png", offers[0].ImageURL)
		assert.NotEmpty(t, offers[1].ImageURL)
		assert.NotEmpty(t, offers[2].ImageURL)
	})

	t.Run("NoRepeatsWithinBatch", func(t *testing.T) {
		offers := []models.Offer{{}, {}, {}}

		images.NewAssigner(pool).Assign(offers)

		seen := map[string]bool{}
		for _, o := range offers {
			assert.NotEmpty(t, o.ImageURL)
			assert.False(t, seen[o.ImageURL], "image %q assigned twice", o.ImageURL)
			seen[o.ImageURL] = true
		}
	})

	t.Run("PoolSmallerThanBatchDegrades", func(t *testing.T) {
		offers := []models.Offer{{}, {}, {}, {}}

		images.NewAssigner([]string{"only.png"}).Assign(offers)

		for _, o := range offers {
			assert.Equal(t, "only.png", o.ImageURL)
		}
	})

	t.Run("EmptyPoolIsNoOp", func(t *testing.T) {
		offers := []models.Offer{{}}

		images.NewAssigner(nil).Assign(offers)

		assert.Empty(t, offers[0].ImageURL)
	})
}
