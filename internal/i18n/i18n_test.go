package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadValidatesEmbeddedTables(t *testing.T) {
	catalog, err := Load("fr")
	require.NoError(t, err)
	require.Equal(t, []string{"fr", "tr"}, catalog.Languages())
	require.Equal(t, "fr", catalog.Default())

	tr := catalog.Lookup("TR")
	require.Equal(t, "tr", tr.Lang)
	require.Equal(t, "Ana Sayfa", tr.Nav["home"])
}

func TestLookupFallsBackToDefault(t *testing.T) {
	catalog, err := Load("fr")
	require.NoError(t, err)

	require.False(t, catalog.Supports("de"))
	require.Equal(t, "fr", catalog.Lookup("de").Lang)
	require.Equal(t, "Accueil", catalog.Lookup("").Nav["home"])
}

func TestLoadRejectsUnknownDefault(t *testing.T) {
	_, err := Load("de")
	require.Error(t, err)
}
