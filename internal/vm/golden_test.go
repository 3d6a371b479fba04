package vm

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// Golden fixtures: each txtar archive has one "source" file (the program)
// and one "stdout" file (expected output).
var goldenArchives = []string{
	`
-- source --
var greeting = "hello" + " " + "world";
print greeting;
-- stdout --
hello world
`,
	`
-- source --
{
	var outer = "outer";
	{
		var inner = "inner";
		print outer + "-" + inner;
	}
	print outer;
}
-- stdout --
outer-inner
outer
`,
	`
-- source --
var a = 1;
var b = a + 1;
var c = b * 2;
print c;
print c == 4;
print c != 4;
-- stdout --
4
true
false
`,
}

func TestGoldenFixtures(t *testing.T) {
	for i, src := range goldenArchives {
		archive := txtar.Parse([]byte(src))

		var source, wantStdout string
		for _, f := range archive.Files {
			switch f.Name {
			case "source":
				source = string(f.Data)
			case "stdout":
				wantStdout = string(f.Data)
			}
		}
		if source == "" {
			t.Fatalf("archive %d: missing 'source' file", i)
		}

		var out bytes.Buffer
		v := New()
		v.Stdout = &out
		result := v.Interpret(source)
		v.Close()

		if result != InterpretOK {
			t.Fatalf("archive %d: Interpret = %s, want OK", i, result)
		}
		got := out.String()
		if strings.TrimRight(got, "\n") != strings.TrimRight(wantStdout, "\n") {
			t.Errorf("archive %d: stdout = %q, want %q", i, got, wantStdout)
		}
	}
}
