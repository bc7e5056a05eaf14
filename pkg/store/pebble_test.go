package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rosechat/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_ProfileLifecycle(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetProfile("alice")
	require.ErrorIs(t, err, ErrNotFound)

	p := models.Profile{
		Name:      "alice",
		Inventory: models.Inventory{"hello": {Rarity: "COMMON"}},
	}
	require.NoError(t, s.SaveProfile(p))

	got, err := s.GetProfile("alice")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Name)
	require.Len(t, got.Inventory, 1)
	require.NotZero(t, got.CreatedTS)
	created := got.CreatedTS

	// Re-save keeps the creation timestamp.
	got.Inventory["world"] = models.WordMeta{Rarity: "RARE"}
	require.NoError(t, s.SaveProfile(got))
	got, err = s.GetProfile("alice")
	require.NoError(t, err)
	require.Equal(t, created, got.CreatedTS)
	require.Len(t, got.Inventory, 2)

	require.NoError(t, s.DeleteProfile("alice"))
	_, err = s.GetProfile("alice")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteProfile("alice"), ErrNotFound)
}

func TestStore_SaveProfileRequiresName(t *testing.T) {
	s := openTestStore(t)
	require.Error(t, s.SaveProfile(models.Profile{}))
}

func TestStore_ListProfiles(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, s.SaveProfile(models.Profile{Name: name}))
	}
	out, err := s.ListProfiles()
	require.NoError(t, err)
	require.Len(t, out, 3)
	// Pebble iterates in key order.
	require.Equal(t, "alice", out[0].Name)
	require.Equal(t, "bob", out[1].Name)
	require.Equal(t, "carol", out[2].Name)
}

func TestStore_InventoryHelpers(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveProfile(models.Profile{Name: "alice"}))

	require.NoError(t, s.SetInventory("alice", models.Inventory{"hello": {Rarity: "COMMON"}}))
	inv, err := s.Inventory("alice")
	require.NoError(t, err)
	require.Contains(t, inv, "hello")

	p, err := s.GrantWords("alice", []string{"hello", "world", ""}, "RARE")
	require.NoError(t, err)
	require.Len(t, p.Inventory, 2)
	// Already-owned words keep their original metadata.
	require.Equal(t, "COMMON", p.Inventory["hello"].Rarity)
	require.Equal(t, "RARE", p.Inventory["world"].Rarity)

	_, err = s.Inventory("ghost")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.SetInventory("ghost", nil), ErrNotFound)
}
