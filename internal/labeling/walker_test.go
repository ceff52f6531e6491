package labeling

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagelab/internal/models"
)

func refs(names ...string) []models.ImageRef {
	out := make([]models.ImageRef, len(names))
	for i, n := range names {
		out[i] = models.ImageRef{Name: n}
	}
	return out
}

func TestWalker_RecordAdvancesCursor(t *testing.T) {
	var w Walker
	w.Reset(refs("a.png", "b.png", "c.png"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, i, w.Cursor())
		current, ok := w.Current()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("%c.png", 'a'+i), current.Name)

		done, err := w.Record([]string{"kw"})
		require.NoError(t, err)
		assert.Equal(t, i == 2, done)
	}

	assert.True(t, w.Complete())
	assert.Len(t, w.Labels(), 3)
}

func TestWalker_RecordAfterCompleteFails(t *testing.T) {
	var w Walker
	w.Reset(refs("a.png"))

	done, err := w.Record(nil)
	require.NoError(t, err)
	assert.True(t, done)

	_, err = w.Record(nil)
	assert.ErrorIs(t, err, ErrComplete)
}

func TestWalker_RecordWithoutImagesFails(t *testing.T) {
	var w Walker
	_, err := w.Record([]string{"kw"})
	assert.ErrorIs(t, err, ErrNotStarted)

	w.Reset(nil)
	_, err = w.Record([]string{"kw"})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestWalker_ResetDiscardsSelections(t *testing.T) {
	var w Walker
	w.Reset(refs("a.png", "b.png"))
	_, err := w.Record([]string{"x"})
	require.NoError(t, err)

	w.Reset(refs("c.png"))
	assert.Zero(t, w.Cursor())
	assert.Empty(t, w.Labels())
	assert.False(t, w.Complete())
}

func TestWalker_NilSelectionsStoredAsEmpty(t *testing.T) {
	var w Walker
	w.Reset(refs("a.png"))
	_, err := w.Record(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, w.Labels()["a.png"])
}

func TestWalker_PersistOnceOnCompletion(t *testing.T) {
	// Simulates the handler contract: persist exactly when Record reports
	// done, which happens once per dataset.
	var w Walker
	w.Reset(refs("a.png", "b.png", "c.png"))
	dir := t.TempDir()

	saves := 0
	for i := 0; i < 3; i++ {
		done, err := w.Record([]string{"kw"})
		require.NoError(t, err)
		if done {
			_, err := SaveLabels(dir, "manual-labels", w.Labels())
			require.NoError(t, err)
			saves++
		}
	}

	assert.Equal(t, 1, saves)
	body, err := os.ReadFile(filepath.Join(dir, "manual-labels.json"))
	require.NoError(t, err)
	var persisted map[string][]string
	require.NoError(t, json.Unmarshal(body, &persisted))
	assert.Len(t, persisted, 3)
}

func TestSession_LoadImagesResetsWalker(t *testing.T) {
	sess := &Session{ID: "s1"}
	sess.LoadImages(refs("a.png", "b.png"))
	_, err := sess.Walker.Record([]string{"x"})
	require.NoError(t, err)

	sess.LoadImages(refs("c.png"))
	assert.Zero(t, sess.Walker.Cursor())
	assert.Equal(t, []string{"c.png"}, sess.ImageNames())
}

func TestStore_IsolatesSessions(t *testing.T) {
	store := NewStore()
	a := store.Get("")
	b := store.Get("")

	require.NotEqual(t, a.ID, b.ID)
	a.LoadImages(refs("a.png"))
	assert.Empty(t, b.Images)

	again := store.Get(a.ID)
	assert.Same(t, a, again)
}
