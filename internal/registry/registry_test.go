package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vkshell/vkshell/internal/store"
)

func entry(id, dept string, run *[]string) Entry {
	return Entry{
		Meta: Meta{ID: id, Title: id, Icon: IconZap, Size: SizeMedium, DepartmentID: dept},
		Open: func() (Tool, error) {
			return ToolFunc(func(context.Context) error {
				*run = append(*run, id)
				return nil
			}), nil
		},
	}
}

func TestRegisterAndDepartments(t *testing.T) {
	var run []string
	core, logs := observer.New(zap.WarnLevel)
	r := New(zap.New(core))

	require.NoError(t, r.Register(entry("areaTool", "res", &run)))
	require.NoError(t, r.Register(entry("power", "", &run)))
	require.NoError(t, r.Register(entry("centertp", "res", &run)))
	require.NoError(t, r.Register(entry("areaTool", "res", &run)))

	assert.Equal(t, 1, logs.FilterMessage("Re-registering app").Len())
	assert.Len(t, r.Apps(), 3)
	assert.Equal(t, "areaTool", r.Apps()[0].ID, "re-registration keeps the position")

	assert.Equal(t, []Department{
		{ID: "res", Title: DefaultDepartmentTitle},
		{ID: DefaultDepartmentID, Title: DefaultDepartmentTitle},
	}, r.Departments())

	var ids []string
	for _, m := range r.ByDepartment("res") {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"areaTool", "centertp"}, ids)
	assert.Len(t, r.ByDepartment(DefaultDepartmentID), 1)
	assert.Empty(t, r.ByDepartment("nope"))
}

func TestRegisterRejectsIncompleteEntries(t *testing.T) {
	r := New(nil)
	assert.Error(t, r.Register(Entry{Open: func() (Tool, error) { return nil, nil }}))
	assert.Error(t, r.Register(Entry{Meta: Meta{ID: "x"}}))
}

func TestOpen(t *testing.T) {
	var run []string
	r := New(nil)
	r.MustRegister(entry("a", "", &run), Entry{
		Meta: Meta{ID: "broken"},
		Open: func() (Tool, error) { return nil, fmt.Errorf("boom") },
	})

	tool, err := r.Open("a")
	require.NoError(t, err)
	require.NoError(t, tool.Run(context.Background()))
	assert.Equal(t, []string{"a"}, run)

	_, err = r.Open("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = r.Open("broken")
	assert.Error(t, err)
}

func TestMetaHelpers(t *testing.T) {
	assert.Equal(t, IconMap, ParseIcon("Map"))
	assert.Equal(t, IconUnknown, ParseIcon("Rocket"))
	assert.Equal(t, IconZap.Data(), IconUnknown.Data(), "unknown icons fall back to Zap")

	w, h := ParseSize("large").Dimensions()
	assert.Equal(t, [2]int{1280, 820}, [2]int{w, h})
	assert.Equal(t, SizeMedium, ParseSize("huge"))
	assert.Equal(t, "small", SizeSmall.String())

	d := Meta{ID: "x", DepartmentID: "res", DepartmentTitle: "РЭС"}.Department()
	assert.Equal(t, Department{ID: "res", Title: "РЭС"}, d)
}

func TestShellRecents(t *testing.T) {
	var run []string
	r := New(nil)
	for i := 0; i < 12; i++ {
		require.NoError(t, r.Register(entry(fmt.Sprintf("app%d", i), "", &run)))
	}
	sh := NewShell(r, store.NewMemory(), nil)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, sh.Launch(ctx, fmt.Sprintf("app%d", i)))
	}
	require.NoError(t, sh.Launch(ctx, "app5"))

	recents := sh.Recents()
	require.Len(t, recents, RecentLimit)
	assert.Equal(t, "app5", recents[0])
	assert.Equal(t, "app11", recents[1])
	assert.NotContains(t, recents, "app0")
	assert.Equal(t, 1, countOf(recents, "app5"))

	assert.ErrorIs(t, sh.Launch(ctx, "missing"), ErrNotFound)
	assert.Equal(t, "app5", sh.Recents()[0])
}

func countOf(ids []string, id string) int {
	n := 0
	for _, x := range ids {
		if x == id {
			n++
		}
	}
	return n
}

func TestShellFavorites(t *testing.T) {
	st := store.NewMemory()
	sh := NewShell(New(nil), st, nil)

	on, err := sh.ToggleFavorite("centertp")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = sh.ToggleFavorite("areaTool")
	require.NoError(t, err)
	assert.Equal(t, []string{"areaTool", "centertp"}, sh.Favorites())

	on, err = sh.ToggleFavorite("centertp")
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, sh.IsFavorite("centertp"))
	assert.True(t, sh.IsFavorite("areaTool"))

	// state survives a new shell over the same store
	assert.Equal(t, []string{"areaTool"}, NewShell(New(nil), st, nil).Favorites())
}

func TestShellIgnoresCorruptState(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Set(KeyRecents, []byte(`{"not":"a list"}`)))
	sh := NewShell(New(nil), st, nil)
	assert.Empty(t, sh.Recents())

	assert.False(t, sh.Dark())
	require.NoError(t, sh.SetDark(true))
	assert.True(t, sh.Dark())
}
