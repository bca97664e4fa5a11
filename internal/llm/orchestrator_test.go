package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"cmpr/internal/block"
	"cmpr/internal/cmprdir"
	"cmpr/internal/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessagesOrdering(t *testing.T) {
	msgs := BuildMessages("be terse", true, "bootstrap context", "do the thing")
	require.Len(t, msgs, 4)
	assert.Equal(t, Message{"system", "be terse"}, msgs[0])
	assert.Equal(t, Message{"user", "bootstrap context"}, msgs[1])
	assert.Equal(t, Message{"assistant", "OK"}, msgs[2])
	assert.Equal(t, Message{"user", "do the thing"}, msgs[3])
}

func TestBuildMessagesNoSystemNoBootstrap(t *testing.T) {
	msgs := BuildMessages("", false, "", "just this")
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{"user", "just this"}, msgs[0])
}

func TestCommentToPromptWrapsCodeLanguages(t *testing.T) {
	got := CommentToPrompt(block.C, "does the thing")
	assert.Contains(t, got, "```\ndoes the thing\n```")
	assert.Contains(t, got, writeCodeInstruction)
}

func TestCommentToPromptMarkdownIsVerbatim(t *testing.T) {
	got := CommentToPrompt(block.Markdown, "# Heading\nbody text")
	assert.Equal(t, "# Heading\nbody text", got)
}

func TestFindSystemPromptLowestIndex(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(a, []byte("# no marker\nbody\n"), 0o644))
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(b, []byte("# has #systemprompt here\nbody\n"), 0o644))

	p, err := project.Load([]project.FileSpec{
		{Path: a, Language: block.Markdown},
		{Path: b, Language: block.Markdown},
	})
	require.NoError(t, err)

	text, ok := FindSystemPrompt(p)
	require.True(t, ok)
	assert.Contains(t, text, "#systemprompt")
}

func TestFindSystemPromptAbsent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(a, []byte("# plain\nbody\n"), 0o644))
	p, err := project.Load([]project.FileSpec{{Path: a, Language: block.Markdown}})
	require.NoError(t, err)

	_, ok := FindSystemPrompt(p)
	assert.False(t, ok)
}

func TestExtractCodeStripsExactlyTwoFences(t *testing.T) {
	content := "```\nline one\nline two\n```"
	assert.Equal(t, "line one\nline two", ExtractCode(content))
}

func TestExtractCodeLeavesUnfencedContentAlone(t *testing.T) {
	content := "line one\nline two"
	assert.Equal(t, content, ExtractCode(content))
}

func TestExtractCodeLeavesSingleFenceAlone(t *testing.T) {
	content := "```\nunterminated"
	assert.Equal(t, content, ExtractCode(content))
}

func TestParseResponseExtractsFirstChoice(t *testing.T) {
	data := []byte(`{"choices":[{"message":{"content":"hello"}}]}`)
	content, err := ParseResponse(data)
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
}

func TestParseResponseMalformedJSONIsError(t *testing.T) {
	_, err := ParseResponse([]byte("not json"))
	assert.Error(t, err)
}

func TestParseResponseNoChoicesIsError(t *testing.T) {
	_, err := ParseResponse([]byte(`{"choices":[]}`))
	assert.Error(t, err)
}

func TestDispatchNoAPIKeyShortCircuits(t *testing.T) {
	dir := t.TempDir()
	layout := cmprdir.New(filepath.Join(dir, ".cmpr"))
	o := New(layout, "curl", "gpt-4", "")

	_, err := o.Dispatch([]Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, statErr := os.Stat(layout.APICallsDir())
	assert.True(t, os.IsNotExist(statErr), "no artifacts should be written when no key is configured")
}

func TestDispatchWritesArtifactsAndExtractsCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake curl script is a shell script")
	}
	dir := t.TempDir()
	layout := cmprdir.New(filepath.Join(dir, ".cmpr"))

	fakeCurl := writeFakeCurl(t, dir, `{"choices":[{"message":{"content":"` + "```\\ncode here\\n```" + `"}}]}`)

	o := New(layout, fakeCurl, "gpt-4", "sk-test")
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	o.Now = func() time.Time { return fixed }

	out, err := o.Dispatch([]Message{{Role: "user", Content: "write it"}})
	require.NoError(t, err)
	assert.Equal(t, "code here", out)

	reqPath, respPath, errPath := layout.APICallPaths(fixed)
	reqBody, err := os.ReadFile(reqPath)
	require.NoError(t, err)
	assert.Contains(t, string(reqBody), "write it")
	_, err = os.Stat(respPath)
	assert.NoError(t, err)
	_, err = os.Stat(errPath)
	assert.NoError(t, err)
}

func TestDispatchSurfacesCurlFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake curl script is a shell script")
	}
	dir := t.TempDir()
	layout := cmprdir.New(filepath.Join(dir, ".cmpr"))
	fakeCurl := writeFakeFailingCurl(t, dir)

	o := New(layout, fakeCurl, "gpt-4", "sk-test")
	_, err := o.Dispatch([]Message{{Role: "user", Content: "write it"}})
	assert.Error(t, err)
}

// writeFakeCurl writes a shell script standing in for curl: it locates
// the --output flag's argument and writes body there, ignoring every
// other flag, the way the real binary would succeed silently.
func writeFakeCurl(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-curl.sh")
	script := fmt.Sprintf(`#!/bin/sh
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--output" ]; then
    out="$arg"
  fi
  prev="$arg"
done
printf '%%s' %s > "$out"
`, shellQuote(body))
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeFakeFailingCurl(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-curl-fail.sh")
	script := "#!/bin/sh\necho 'connection refused' 1>&2\nexit 7\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func shellQuote(s string) string {
	return "'" + s + "'"
}
