// Filename: translate/translate_test.go
package translate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTranslateSource_HoistsAndEmits(t *testing.T) {
	t.Parallel()

	src := []byte(`
def pick(flag):
    if flag:
        result = 1
    else:
        result = 2
    return result
`)
	res, err := New(Options{Concurrency: 2}, nil).TranslateSource(context.Background(), "pick.py", src)
	require.NoError(t, err)

	assert.Contains(t, res.Source, "object result = null;")
	assert.Contains(t, res.Source, "public static class Pick")

	require.Len(t, res.Report.Functions, 1)
	assert.Equal(t, StatusTranslated, res.Report.Functions[0].Status)
	assert.Equal(t, 1, res.Report.Translated)
	assert.Zero(t, res.Report.Skipped)
	assert.NotEmpty(t, res.Report.RunID)
}

func TestTranslateSource_SkipsUnsupportedFunction(t *testing.T) {
	t.Parallel()

	src := []byte(`
def broken(xs):
    return [x for x in xs]

def fine(x):
    return x
`)
	res, err := New(Options{}, nil).TranslateSource(context.Background(), "mixed.py", src)
	require.NoError(t, err)

	assert.Contains(t, res.Source, "// molt: function broken skipped")
	assert.Contains(t, res.Source, "public static object fine(object x)")

	assert.Equal(t, 1, res.Report.Translated)
	assert.Equal(t, 1, res.Report.Skipped)
	require.Len(t, res.Report.Diagnostics, 1)
	assert.Equal(t, "broken", res.Report.Diagnostics[0].Function)
}

func TestTranslateSource_StrictFailsOnUnsupported(t *testing.T) {
	t.Parallel()

	src := []byte(`
def broken(xs):
    return [x for x in xs]
`)
	_, err := New(Options{Strict: true}, nil).TranslateSource(context.Background(), "broken.py", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list comprehension")
}

func TestTranslateSource_SyntaxErrorFails(t *testing.T) {
	t.Parallel()

	_, err := New(Options{}, nil).TranslateSource(context.Background(), "bad.py", []byte("def f(:\n"))
	require.Error(t, err)
}

func TestTranslateSource_ManyFunctionsConcurrently(t *testing.T) {
	t.Parallel()

	var src []byte
	for i := 0; i < 32; i++ {
		src = append(src, []byte(fmt.Sprintf("def f%02d(n):\n    x = n\n    return x\n\n", i))...)
	}
	res, err := New(Options{Concurrency: 8}, nil).TranslateSource(context.Background(), "many.py", src)
	require.NoError(t, err)
	assert.Equal(t, 32, res.Report.Translated)
	assert.Zero(t, res.Report.Skipped)
}

func TestTranslateSource_NestedFunctionsHoisted(t *testing.T) {
	t.Parallel()

	src := []byte(`
def outer(flag):
    def inner(y):
        if y:
            v = 1
        else:
            v = 2
        return v
    return inner(flag)
`)
	res, err := New(Options{}, nil).TranslateSource(context.Background(), "nested.py", src)
	require.NoError(t, err)
	assert.Contains(t, res.Source, "object v = null;")
}

func TestTranslateSource_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}, nil).TranslateSource(ctx, "late.py", []byte("def f(n):\n    x = n\n    return x\n"))
	require.Error(t, err)
}

func TestReportEncode(t *testing.T) {
	t.Parallel()

	r := newReport("a.py", []FunctionOutcome{
		{Name: "f", Status: StatusTranslated},
		{Name: "g", Status: StatusSkipped, Reason: "unsupported slice expression"},
	}, nil, 0)

	out, err := r.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"run_id"`)
	assert.Contains(t, string(out), `"translated": 1`)
	assert.Contains(t, string(out), `"skipped": 1`)
}
