package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/darkxdd/FigmaCursor-sub000/internal/tester"
)

func TestLocalSinkPutWritesUnderRoot(t *testing.T) {
	root := t.TempDir()
	sink, err := NewLocalSink(root)
	tester.NoErr(t, err)

	rec, err := sink.Put("session-1", "Login Button", "const LoginButton = () => null;")
	tester.NoErr(t, err)
	tester.Eq(t, "session_1/Login_Button.jsx", rec.Key)
	tester.True(t, strings.HasPrefix(rec.URL, "file://"))

	body, err := os.ReadFile(filepath.Join(sink.Root(), "session_1", "Login_Button.jsx"))
	tester.NoErr(t, err)
	tester.Eq(t, "const LoginButton = () => null;", string(body))
}

func TestLocalSinkOverwriteReplacesFile(t *testing.T) {
	sink, err := NewLocalSink(t.TempDir())
	tester.NoErr(t, err)

	_, err = sink.Put("s", "Card", "v1")
	tester.NoErr(t, err)
	rec, err := sink.Put("s", "Card", "v2")
	tester.NoErr(t, err)

	body, err := os.ReadFile(filepath.Join(sink.Root(), rec.Key))
	tester.NoErr(t, err)
	tester.Eq(t, "v2", string(body))
}

func TestLocalSinkRejectsEmptyInputs(t *testing.T) {
	sink, err := NewLocalSink(t.TempDir())
	tester.NoErr(t, err)

	_, err = sink.Put("", "Card", "code")
	tester.True(t, err != nil)
	_, err = sink.Put("s", "  ", "code")
	tester.True(t, err != nil)
}
