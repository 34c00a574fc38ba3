package prog_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/patrickelectric/sixtyfps/pkg/buildinfo"
	"github.com/patrickelectric/sixtyfps/pkg/env"
	"github.com/patrickelectric/sixtyfps/pkg/must"
	. "github.com/patrickelectric/sixtyfps/pkg/prog"
	"github.com/patrickelectric/sixtyfps/pkg/prog/progtest"
	"github.com/patrickelectric/sixtyfps/pkg/testutil"
)

var (
	Test         = progtest.Test
	ThatSixtyFPS = progtest.ThatSixtyFPS
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)

	Test(t, testProgram{},
		ThatSixtyFPS("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatSixtyFPS("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatSixtyFPS("-help").
			WritesStdoutContaining("Usage: sixtyfps [flags] file.60..."),

		ThatSixtyFPS("-cpuprofile", "cpuprof").DoesNothing(),
		ThatSixtyFPS("-cpuprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create CPU profile:"),
	)

	// Check for the effect of -cpuprofile. There isn't much to test beyond a
	// sanity check that the profile file now exists.
	_, err := os.Stat("cpuprof")
	if err != nil {
		t.Errorf("CPU profile file does not exist: %v", err)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatSixtyFPS().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatSixtyFPS().WritesStdout("program 2"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatSixtyFPS().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatSixtyFPS().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatSixtyFPS().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatSixtyFPS().ExitsWith(0),
	)
}

func TestVersionAndBuildInfo(t *testing.T) {
	Test(t, Composite(VersionProgram{}, BuildInfoProgram{}),
		ThatSixtyFPS("-version").WritesStdout(buildinfo.Value.Version+"\n"),
		ThatSixtyFPS("-buildinfo").WritesStdout(
			"Version: "+buildinfo.Value.Version+"\n"+
				"Go version: "+buildinfo.Value.GoVersion+"\n"),
		ThatSixtyFPS("-buildinfo", "-json").WritesStdout(buildinfo.Value.JSON()+"\n"),
	)
}

var program = Composite(VersionProgram{}, BuildInfoProgram{},
	DumpProgram{}, PropsProgram{}, CheckProgram{})

var files = testutil.Dir{
	"ok.60": `
Main := Rectangle {
    property <int> counter: 3;
    signal clicked;
    for i in counter : Rectangle { }
}`,
	"bad.60": `
Main := Rectangle {
    foo: 1;
}`,
	"lib": testutil.Dir{
		"badge.60": `
Badge := Rectangle {
    property <string> label;
}`,
	},
	"with-lib.60": `
Main := Rectangle {
    b := Badge { label: "x"; }
}`,
}

func TestCheckProgram(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)

	Test(t, program,
		ThatSixtyFPS("-color", "never", "ok.60"),
		ThatSixtyFPS("-color", "never", "bad.60").
			ExitsWith(1).
			WritesStderrContaining("Error: Unknown property foo"),
		ThatSixtyFPS("-color", "never", "with-lib.60").
			ExitsWith(1).
			WritesStderrContaining("Badge"),
		ThatSixtyFPS("-color", "never", "-I", "lib", "with-lib.60"),
		ThatSixtyFPS("missing.60").
			ExitsWith(2).
			WritesStderrContaining("no such file"),
		ThatSixtyFPS().
			ExitsWith(2).
			WritesStderrContaining("no input files\nUsage:"),
	)
}

func TestCheckProgram_IncludePathFromEnv(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)
	t.Setenv(env.SIXTYFPS_INCLUDE_PATH, "lib")

	Test(t, program,
		ThatSixtyFPS("-color", "never", "with-lib.60"),
	)
}

func TestCheckProgram_JSON(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)

	exit, stdout, _ := progtest.Run(program, "-json", "bad.60")
	if exit != 1 {
		t.Errorf("got exit %d, want 1", exit)
	}
	var diags []struct {
		FileName, Severity, Message string
		Start, End                  int
	}
	must.OK(json.Unmarshal([]byte(stdout), &diags))
	if len(diags) != 1 || diags[0].FileName != "bad.60" || diags[0].Severity != "error" ||
		diags[0].End <= diags[0].Start {
		t.Errorf("got diagnostics %+v", diags)
	}
}

func TestProjectFile(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)
	must.WriteFile(DefaultProject, "include_paths: [lib]\n")
	must.WriteFile("old.yaml", "requires: v0.0.1\n")
	must.WriteFile("future.yaml", "requires: \"99.0\"\n")
	must.WriteFile("typo.yaml", "include_path: [lib]\n")

	Test(t, program,
		ThatSixtyFPS("-color", "never", "with-lib.60"),
		ThatSixtyFPS("-project", "old.yaml", "ok.60"),
		ThatSixtyFPS("-project", "future.yaml", "ok.60").
			ExitsWith(2).
			WritesStderrContaining("project requires sixtyfps 99.0"),
		ThatSixtyFPS("-project", "typo.yaml", "ok.60").
			ExitsWith(2).
			WritesStderrContaining("field include_path not found"),
		ThatSixtyFPS("-project", "missing.yaml", "ok.60").
			ExitsWith(2).
			WritesStderrContaining("missing.yaml"),
	)
}

func TestProjectFile_TOML(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)
	must.WriteFile(DefaultTOMLProject, "include_paths = [\"lib\"]\n")
	must.WriteFile("typo.toml", "include_path = [\"lib\"]\n")

	Test(t, program,
		ThatSixtyFPS("-color", "never", "with-lib.60"),
		ThatSixtyFPS("-project", "typo.toml", "ok.60").
			ExitsWith(2).
			WritesStderrContaining("field include_path not found"),
	)
}

func TestLoadProject_TOML(t *testing.T) {
	testutil.InTempDir(t)
	must.MkdirAll("proj")
	must.WriteFile("proj/sixtyfps.toml",
		"requires = \"0.1\"\ninclude_paths = [\"widgets\"]\nembed_resources = true\n")

	p := must.OK1(LoadProject("proj/sixtyfps.toml"))
	want := &Project{
		Requires:       "0.1",
		IncludePaths:   []string{"proj/widgets"},
		EmbedResources: true,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("LoadProject (-want +got):\n%s", diff)
	}
}

func TestLoadProject_RelativePaths(t *testing.T) {
	testutil.InTempDir(t)
	must.MkdirAll("proj")
	must.WriteFile("proj/sixtyfps.yaml",
		"include_paths: [widgets, /abs]\nembed_resources: true\nresource_cache: cache.db\n")

	p := must.OK1(LoadProject("proj/sixtyfps.yaml"))
	want := &Project{
		IncludePaths:   []string{"proj/widgets", "/abs"},
		EmbedResources: true,
		ResourceCache:  "proj/cache.db",
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("LoadProject (-want +got):\n%s", diff)
	}
}

func TestProjectFile_ResourceCache(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("icon.png", "not really a png")
	must.WriteFile("image.60", `
Main := Rectangle {
    Image { source: img!"icon.png"; }
}`)
	must.WriteFile(DefaultProject, "embed_resources: true\nresource_cache: cache.db\n")

	Test(t, program,
		ThatSixtyFPS("-dump", "image.60").
			WritesStdoutContaining(`img!"icon.png"[16 bytes]`),
	)
	if _, err := os.Stat("cache.db"); err != nil {
		t.Errorf("resource cache was not created: %v", err)
	}
}

func TestPropsProgram(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)

	Test(t, program,
		ThatSixtyFPS("-props", "ok.60").
			WritesStdout("clicked: signal\ncounter: int32\n"),
		ThatSixtyFPS("-props", "-json", "ok.60").
			WritesStdout(`{"clicked":"signal","counter":"int32"}` + "\n"),
		ThatSixtyFPS("-props", "ok.60", "bad.60").
			ExitsWith(2).
			WritesStderrContaining("need exactly one input file"),
		ThatSixtyFPS("-props", "-color", "never", "bad.60").
			ExitsWith(1).
			WritesStderrContaining("Unknown property foo"),
	)
}

func TestDumpProgram(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)

	Test(t, program,
		ThatSixtyFPS("-dump", "ok.60").
			WritesStdoutContaining("component Main\n"),
		ThatSixtyFPS("-dump", "ok.60").
			WritesStdoutContaining("public property<int32> counter"),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) Run(fds [3]*os.File, _ *Flags, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}
