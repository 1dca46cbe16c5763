package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maelc/combat-notation/internal/model"
)

func personalItem(id uint64, label string) model.LexiconItem {
	uid := uint64(42)
	return model.LexiconItem{ID: id, Category: CategoryOffensive, Label: label, UserID: &uid}
}

func globalItem(id uint64, label string) model.LexiconItem {
	return model.LexiconItem{ID: id, Category: CategoryOffensive, Label: label}
}

func TestMergeAllPersonalShadowsGlobal(t *testing.T) {
	merged := MergeAll(
		[]model.LexiconItem{personalItem(1, "Fente")},
		[]model.LexiconItem{globalItem(2, "Fente"), globalItem(3, "Moulinet")},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, "Fente", merged[0].Label)
	assert.Equal(t, "personal", merged[0].Scope())
	assert.Equal(t, "Moulinet", merged[1].Label)
	assert.Equal(t, "global", merged[1].Scope())
}

func TestMergeAllNoDoubleCount(t *testing.T) {
	merged := MergeAll(
		[]model.LexiconItem{personalItem(1, "X"), personalItem(2, "X")},
		[]model.LexiconItem{globalItem(3, "X")},
	)
	require.Len(t, merged, 1)
	assert.Equal(t, uint64(1), merged[0].ID)
}

func TestMergeAllEmptyScopes(t *testing.T) {
	assert.Empty(t, MergeAll(nil, nil))

	onlyGlobal := MergeAll(nil, []model.LexiconItem{globalItem(1, "Fente")})
	require.Len(t, onlyGlobal, 1)
	assert.Equal(t, "global", onlyGlobal[0].Scope())
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryOffensive))
	assert.True(t, ValidCategory(CategoryPhase))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("couleur"))
}
