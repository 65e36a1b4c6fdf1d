package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/text"
)

const testDoc = `{
  "width": 200, "height": 100,
  "root": {
    "style": {"color": "red", "fontSize": 20},
    "children": [
      {"type": "text", "content": "Hello", "box": {"left": 10, "top": 10, "width": 50, "height": 20}}
    ]
  }
}`

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTreeCommandDOT(t *testing.T) {
	out, err := runCommand(t, testDoc, "tree", "-", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	for _, want := range []string{"digraph G", `"n0" -> "n0-0"`} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}

	detailed, err := runCommand(t, testDoc, "tree", "-", "-f", "dot", "-o", "-", "--detailed")
	if err != nil {
		t.Fatalf("tree --detailed: %v", err)
	}
	if !strings.Contains(detailed, "10,10 50x20") {
		t.Errorf("detailed labels should carry boxes:\n%s", detailed)
	}
}

func TestTreeCommandFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "card.json")
	if err := os.WriteFile(input, []byte(testDoc), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "", "tree", input, "-f", "dot"); err != nil {
		t.Fatalf("tree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "card.tree.dot")); err != nil {
		t.Errorf("tree output: %v", err)
	}

	if _, err := runCommand(t, "", "tree", input, "-f", "png"); err == nil {
		t.Error("unsupported tree format should fail")
	}
}

func TestInspectPlain(t *testing.T) {
	out, err := runCommand(t, testDoc, "inspect", "-")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"n0-0", "text", "10,10 50×20", "color: red"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestFlattenNodesCascades(t *testing.T) {
	doc, err := node.ReadJSON(strings.NewReader(testDoc))
	if err != nil {
		t.Fatal(err)
	}
	entries := flattenNodes(doc.Root)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Depth != 1 {
		t.Errorf("child depth = %d", entries[1].Depth)
	}
	if v, ok := entries[1].Computed.Get("font-size"); !ok || v != "20" {
		t.Errorf("computed fontSize = %q, %v; want inherited 20", v, ok)
	}
	if _, ok := entries[1].Node.Style.Get("font-size"); ok {
		t.Error("flattening must not modify the node's own style")
	}
}

func TestNodeListModelNavigation(t *testing.T) {
	doc, err := node.ReadJSON(strings.NewReader(testDoc))
	if err != nil {
		t.Fatal(err)
	}
	m := NewNodeListModel(doc.Root)
	m.Height = 1

	m.Cursor, m.Offset = 1, 1
	if !strings.Contains(m.View(), "[2/2]") {
		t.Errorf("view should show position:\n%s", m.View())
	}
}

func TestClassifyRows(t *testing.T) {
	res := text.SplitWords("日本 ok\n✓", "normal", "normal")
	rows := classifyRows(res, "zh-CN")
	if len(rows) != len(res.Words) {
		t.Fatalf("rows = %d, words = %d", len(rows), len(res.Words))
	}
	var buckets []string
	for _, r := range rows {
		buckets = append(buckets, r[4])
	}
	joined := strings.Join(buckets, "|")
	if !strings.Contains(joined, "zh-CN, ja-JP") {
		t.Errorf("preferred locale should lead Han segments: %s", joined)
	}
	if !strings.Contains(joined, "unknown") {
		t.Errorf("latin segment should be unknown: %s", joined)
	}
}

func TestClassifyCommand(t *testing.T) {
	out, err := runCommand(t, "", "classify", "--locale", "ko-KR", "한국어")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, "ko-KR") {
		t.Errorf("classify output:\n%s", out)
	}
}

func TestFontsCommand(t *testing.T) {
	out, err := runCommand(t, "", "fonts")
	if err != nil {
		t.Fatalf("fonts: %v", err)
	}
	if !strings.Contains(out, "Go Mono") {
		t.Errorf("fonts output should list bundled faces:\n%s", out)
	}
}
