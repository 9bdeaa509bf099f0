package httpapi_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeIconFile(t *testing.T, iconsDirectory string, fileName string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(iconsDirectory, fileName), []byte("icon-bytes"), 0o644))
}

func TestListIconsReturnsSortedImageFiles(t *testing.T) {
	fixture := newAPIFixture(t)
	writeIconFile(t, fixture.iconsDirectory, "valve.svg")
	writeIconFile(t, fixture.iconsDirectory, "alarm.png")
	writeIconFile(t, fixture.iconsDirectory, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(fixture.iconsDirectory, "nested"), 0o755))

	recorder := fixture.perform(t, http.MethodGet, "/api/icons", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	icons, isList := decodeBody(t, recorder)["icons"].([]any)
	require.True(t, isList)
	require.Equal(t, []any{"alarm.png", "valve.svg"}, icons)
}

func TestListIconsMissingDirectoryIsEmptyCatalog(t *testing.T) {
	fixture := newAPIFixture(t)
	require.NoError(t, os.RemoveAll(fixture.iconsDirectory))

	recorder := fixture.perform(t, http.MethodGet, "/api/icons", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	icons, isList := decodeBody(t, recorder)["icons"].([]any)
	require.True(t, isList)
	require.Empty(t, icons)
}
