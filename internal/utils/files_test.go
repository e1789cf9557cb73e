package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eda-cli/internal/utils"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Sepal Length vs Sepal Width": "sepal-length-vs-sepal-width",
		"petal length (cm)":           "petal-length-cm",
		"  --  ":                      "chart",
		"Mean Ü/ß":                    "mean-ü-ß",
	}
	for in, want := range cases {
		assert.Equal(t, want, utils.Slug(in), in)
	}
}

func TestSafeWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, utils.EnsureDir(dir))

	p := filepath.Join(dir, "report.md")
	require.NoError(t, utils.SafeWriteFile(p, []byte("first")))
	require.NoError(t, utils.SafeWriteFile(p, []byte("second")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	err := utils.SafeWriteFile(filepath.Join(t.TempDir(), "nope", "x.png"), []byte("x"))
	assert.Error(t, err)
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 150})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"rows\": 150\n}", string(b))
}
