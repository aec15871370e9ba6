package expect

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEditor(t *testing.T, content string) (*Session, string) {
	t.Helper()
	SkipIfShort(t, "interactive editor test")
	bin := SkipIfBinaryMissing(t)

	home := t.TempDir()
	path := filepath.Join(home, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	session, err := NewSession(bin, []string{"edit", path}, WithHome(home), WithTimeout(10*time.Second))
	require.NoError(t, err, "failed to start editor")
	t.Cleanup(func() { session.Close() })

	_, err = session.Expect("notes.txt")
	require.NoError(t, err, "tab bar should show the file name")
	return session, path
}

func TestEdit_FindShowsCounter(t *testing.T) {
	session, _ := startEditor(t, "cat concat cat\n")

	require.NoError(t, session.Send("cat"))
	_, err := session.Expect("1/3")
	require.NoError(t, err, "expected the match counter")

	require.NoError(t, session.SendKey(KeyAltWord))
	_, err = session.Expect("1/2")
	require.NoError(t, err, "whole word should drop the match inside concat")

	require.NoError(t, session.SendKey(KeyCtrlN))
	_, err = session.Expect("2/2")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyEscape))
	assert.NoError(t, session.Wait())
}

func TestEdit_InvalidRegex(t *testing.T) {
	session, _ := startEditor(t, "text\n")

	require.NoError(t, session.SendKey(KeyAltRegex))
	require.NoError(t, session.Send("(oops"))
	_, err := session.Expect("Invalid pattern")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyEscape))
	assert.NoError(t, session.Wait())
}

func TestEdit_ReplaceAllAndSave(t *testing.T) {
	session, path := startEditor(t, "teh cat and teh dog\n")

	require.NoError(t, session.Send("teh"))
	_, err := session.Expect("1/2")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyTab))
	require.NoError(t, session.Send("the"))
	require.NoError(t, session.SendKey(KeyAltAll))
	_, err = session.Expect("Replaced 2 occurrences")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyCtrlS))
	_, err = session.Expect("Saved notes.txt")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyEscape))
	require.NoError(t, session.Wait())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "the cat and the dog\n", string(data))
}

func TestEdit_UndoReplace(t *testing.T) {
	session, path := startEditor(t, "one one\n")

	require.NoError(t, session.Send("one"))
	require.NoError(t, session.SendKey(KeyTab))
	require.NoError(t, session.Send("two"))
	require.NoError(t, session.SendKey(KeyCtrlR))
	_, err := session.Expect("Replaced 1 occurrence")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyCtrlZ))
	require.NoError(t, session.SendKey(KeyCtrlS))
	_, err = session.Expect("Saved notes.txt")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyEscape))
	require.NoError(t, session.Wait())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one one\n", string(data))
}

func TestEdit_WarnsAboutUnsavedChanges(t *testing.T) {
	session, path := startEditor(t, "draft\n")

	require.NoError(t, session.Send("draft"))
	require.NoError(t, session.SendKey(KeyTab))
	require.NoError(t, session.Send("final"))
	require.NoError(t, session.SendKey(KeyAltAll))
	_, err := session.Expect("Replaced 1 occurrence")
	require.NoError(t, err)

	require.NoError(t, session.SendKey(KeyEscape))
	_, err = session.Expect("unsaved changes in notes.txt")
	require.NoError(t, err)
	require.NoError(t, session.Wait())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "draft\n", string(data), "quitting must not save")
}

func TestFind_Binary(t *testing.T) {
	SkipIfShort(t, "runs the notepadcc binary")
	bin := SkipIfBinaryMissing(t)
	home := t.TempDir()

	path := filepath.Join(home, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("ok\nERROR one\nok\nerror two\n"), 0644))

	cmd := exec.Command(bin, "find", "--count", "error", path) //nolint:gosec // G204: bin comes from the test environment
	cmd.Env = Env(home)
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(out))
}
