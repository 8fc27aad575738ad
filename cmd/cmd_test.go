// File: cmd/cmd_test.go
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/uitree"
	"github.com/xkilldash9x/uidriver/internal/uitree/uitreetest"
)

func page() *fakeBackend {
	ok := uitreetest.WithID(1, "host:id/ok")
	ok.Label = "OK"
	alice, bob := uitreetest.WithText(12, "Alice"), uitreetest.WithText(14, "Bob")
	row1 := &uitreetest.Node{Key: 11, Kids: []uitree.Element{alice}}
	row2 := &uitreetest.Node{Key: 13, Kids: []uitree.Element{bob}}
	list := &uitreetest.Node{Key: 10, NodeKind: uitree.KindList, Kids: []uitree.Element{row1, row2}}
	// Providers enumerate the whole tree flat, containers before their children.
	return &fakeBackend{tree: []uitree.Element{ok, uitreetest.WithText(2, "Welcome 世界"), list, row1, alice, row2, bob}}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "uidriver version Alpha")

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "uidriver version Alpha\n", out)
}

func TestWait(t *testing.T) {
	backend := page()
	useBackend(t, backend)

	out, err := execute(t, "wait", "host:id/ok")
	require.NoError(t, err)
	assert.Equal(t, "wait host:id/ok: true\n", out)
	assert.True(t, backend.closed)

	// The default match mode is substring.
	_, err = execute(t, "wait", "ok")
	require.NoError(t, err)

	_, err = execute(t, "wait", "ok", "--mode", "complete")
	assert.ErrorIs(t, err, errConditionNotMet)
}

func TestWait_JSONMiss(t *testing.T) {
	useBackend(t, page())

	out, err := execute(t, "-o", "json", "wait", "host:id/missing", "--timeout", "30ms")
	assert.ErrorIs(t, err, errConditionNotMet)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, false, res["ok"])
	assert.Equal(t, "host:id/missing", res["target"])
}

func TestVanishAndText(t *testing.T) {
	useBackend(t, page())

	_, err := execute(t, "vanish", "host:id/gone")
	require.NoError(t, err)

	_, err = execute(t, "text", "Welcome")
	require.NoError(t, err)

	_, err = execute(t, "text", "Welcome", "--min", "2")
	assert.ErrorIs(t, err, errConditionNotMet)

	_, err = execute(t, "text", "Goodbye", "--vanish")
	require.NoError(t, err)
}

func TestClick(t *testing.T) {
	backend := page()
	useBackend(t, backend)

	// Clicks match the complete name after the namespace.
	_, err := execute(t, "click", "id/ok")
	require.NoError(t, err)

	_, err = execute(t, "click", "--text", "Welcome")
	require.NoError(t, err)

	clicks := backend.clicks()
	require.Len(t, clicks, 2)
	id, _ := clicks[0].Identifier()
	assert.Equal(t, "host:id/ok", id)
	assert.Equal(t, "Welcome 世界", clicks[1].Text())

	_, err = execute(t, "click", "host:id/nope")
	assert.ErrorIs(t, err, errConditionNotMet)
}

func TestTab_Assertion(t *testing.T) {
	useBackend(t, page())

	_, err := execute(t, "tab", "0", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, driver.ErrAssertion)
	assert.Contains(t, err.Error(), "tab is null")

	_, err = execute(t, "tab", "zero", "1")
	assert.ErrorContains(t, err, `invalid number "zero"`)
}

func TestList(t *testing.T) {
	backend := page()
	useBackend(t, backend)

	out, err := execute(t, "-o", "json", "list", "2")
	require.NoError(t, err)

	var recs []schemas.ElementRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Bob", recs[0].Text)

	_, err = execute(t, "list", "5", "--no-scroll")
	assert.ErrorIs(t, err, errConditionNotMet)

	_, err = execute(t, "list", "1", "--list", "3")
	assert.ErrorIs(t, err, driver.ErrAssertion)
}

func TestDump(t *testing.T) {
	useBackend(t, page())

	out, err := execute(t, "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "INDEX  KIND")
	assert.Contains(t, out, "host:id/ok")
	assert.Contains(t, out, "Welcome 世界")

	out, err = execute(t, "dump", "-o", "json", "--text", "Ali")
	require.NoError(t, err)
	var recs []schemas.ElementRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Alice", recs[0].Text)

	_, err = execute(t, "dump", "-o", "xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestGestures(t *testing.T) {
	backend := page()
	useBackend(t, backend)

	_, err := execute(t, "tap", "left")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.frames, "a tap is one down and one up")

	_, err = execute(t, "swipe", "up", "--steps", "4")
	require.NoError(t, err)
	assert.Equal(t, 2+6, backend.frames)

	_, err = execute(t, "zoom", "--start", "150,400,250,400", "--end", "50,400,350,400")
	require.NoError(t, err)
	assert.Equal(t, 2+6+12, backend.frames)

	_, err = execute(t, "zoom", "--start", "1,2,3", "--end", "1,2,3,4")
	assert.ErrorContains(t, err, "--start needs four numbers")

	_, err = execute(t, "swipe", "sideways")
	assert.ErrorContains(t, err, `unknown direction "sideways"`)
}

func TestDrag(t *testing.T) {
	backend := page()
	useBackend(t, backend)

	_, err := execute(t, "drag", "--from", "200,600", "--to", "200,100", "--steps", "3")
	require.NoError(t, err)
	assert.Equal(t, 5, backend.frames)

	_, err = execute(t, "drag", "--from", "200", "--to", "200,100")
	assert.ErrorContains(t, err, "need two numbers")
}

func TestDiff(t *testing.T) {
	backend := page()
	backend.onClick = func(f *fakeBackend) {
		f.tree = append(append([]uitree.Element(nil), f.tree...), uitreetest.WithID(99, "host:id/dialog"))
	}
	useBackend(t, backend)

	out, err := execute(t, "-o", "json", "diff", "id/ok", "--settle", "0s")
	require.NoError(t, err)

	var recs []schemas.ElementRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "host:id/dialog", recs[0].Identifier)

	_, err = execute(t, "diff", "id/missing", "--settle", "0s")
	assert.ErrorIs(t, err, errConditionNotMet)
}

func TestRun(t *testing.T) {
	backend := page()
	useBackend(t, backend)

	path := writeFile(t, "flow.yaml", `
name: smoke
steps:
  - action: wait
    id: host:id/ok
  - action: begin_diff
  - action: click
    id: id/ok
  - name: banner
    action: click
    id: host:id/banner
    optional: true
`)
	out, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "smoke PASSED")
	assert.Contains(t, out, "skipped")
	assert.Len(t, backend.clicks(), 1)

	failing := writeFile(t, "fail.yaml", "name: broken\nsteps:\n  - action: click\n    id: host:id/banner\n")
	out, err = execute(t, "run", "-o", "json", failing)
	require.Error(t, err)
	assert.Contains(t, out, `"passed": false`)

	_, err = execute(t, "run", writeFile(t, "bad.yaml", "steps: []\n"))
	assert.ErrorContains(t, err, "no steps")
}

func TestBackendFailure(t *testing.T) {
	failBackend(t, errBoom)

	_, err := execute(t, "wait", "x")
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "failed to open browser session")
}

func TestBadConfig(t *testing.T) {
	useBackend(t, page())

	root := NewRootCommand()
	root.SetArgs([]string{"--config", writeFile(t, "bad.yaml", "driver:\n  poll_interval: 0s\n"), "dump"})
	err := root.Execute()
	assert.ErrorContains(t, err, "poll_interval must be a positive duration")
}
