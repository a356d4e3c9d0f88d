// Filename: translate/golden_test.go
package translate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// TestGolden runs every fixture under testdata: each archive pairs an
// input.py with the exact expected.cs rendering.
func TestGolden(t *testing.T) {
	t.Parallel()

	fixtures, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, fixtures, "no fixtures found")

	for _, fixture := range fixtures {
		fixture := fixture
		t.Run(filepath.Base(fixture), func(t *testing.T) {
			t.Parallel()

			archive, err := txtar.ParseFile(fixture)
			require.NoError(t, err)

			files := map[string][]byte{}
			for _, f := range archive.Files {
				files[f.Name] = f.Data
			}
			input, ok := files["input.py"]
			require.True(t, ok, "fixture missing input.py")
			expected, ok := files["expected.cs"]
			require.True(t, ok, "fixture missing expected.cs")

			res, err := New(Options{}, nil).TranslateSource(context.Background(), "input.py", input)
			require.NoError(t, err)

			if diff := cmp.Diff(string(expected), res.Source); diff != "" {
				t.Errorf("generated source mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
