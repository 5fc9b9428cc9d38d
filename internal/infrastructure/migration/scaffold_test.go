package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Run("writes an up and down pair with a header", func(t *testing.T) {
		dir := t.TempDir()

		f, err := Create(dir, "Add Variant Ledger", "stock ledger table")
		require.NoError(t, err)

		assert.Len(t, f.Version, 14)
		assert.Equal(t, filepath.Join(dir, f.Version+"_add_variant_ledger.up.sql"), f.UpFile)
		assert.Equal(t, filepath.Join(dir, f.Version+"_add_variant_ledger.down.sql"), f.DownFile)

		up, err := os.ReadFile(f.UpFile)
		require.NoError(t, err)
		assert.Contains(t, string(up), "Add Variant Ledger (up)")
		assert.Contains(t, string(up), "stock ledger table")

		down, err := os.ReadFile(f.DownFile)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Add Variant Ledger (down)")
	})

	t.Run("creates the migrations directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		_, err := Create(dir, "init", "")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestList(t *testing.T) {
	t.Run("returns up migrations sorted by version", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20240201000000_orders.up.sql",
			"20240201000000_orders.down.sql",
			"20240101000000_variants.up.sql",
			"20240101000000_variants.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		names, err := List(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20240101000000_variants", "20240201000000_orders"}, names)
	})

	t.Run("missing directory lists nothing", func(t *testing.T) {
		names, err := List(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Add Users Table":          "add_users_table",
		"add-purchase--invoices":   "add_purchase_invoices",
		"  spaced  out  ":          "spaced_out",
		"v2 Schema! (breaking)":    "v2_schema_breaking",
		"already_snake_case":       "already_snake_case",
		strings.Repeat("_", 5):     "",
		"MiXeD Case-With_Mixture9": "mixed_case_with_mixture9",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "input %q", in)
	}
}
