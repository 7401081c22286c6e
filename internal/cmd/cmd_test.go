package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/lightgit/internal/testutil"
)

// executeCommand runs a cobra command with args and stdin, returning stdout
// and stderr separately
func executeCommand(root *cobra.Command, stdin string, args ...string) (stdout, stderr string, err error) {
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	root.SetOut(outBuf)
	root.SetErr(errBuf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// isolateConfig points the config directory at a temp dir and clears viper
func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("LIGHTGIT_GIT_EXECUTABLE", "")
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Cleanup(func() { statusBar = false })
	return filepath.Join(dir, "lightgit")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return lines[len(lines)-1]
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "lightgit" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "lightgit")
	}

	expectedCmds := []string{"status", "follow", "config"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}

	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestStatusCommand(t *testing.T) {
	testutil.SkipIfNoGit(t)
	isolateConfig(t)

	repo := testutil.SetupTestRepo(t)
	testutil.CheckoutNewBranch(t, repo, "feature/status")
	file := testutil.WriteFile(t, repo, "pkg/file.go", "package pkg\n")

	out, _, err := executeCommand(rootCmd, "", "status", file)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if out != "feature/status\n" {
		t.Errorf("status output = %q, want %q", out, "feature/status\n")
	}
}

func TestStatusCommand_OutsideRepository(t *testing.T) {
	testutil.SkipIfNoGit(t)
	isolateConfig(t)

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	out, _, err := executeCommand(rootCmd, "", "status", filepath.Join(dir, "notes.txt"))
	if err != nil {
		t.Fatalf("status should not fail outside a repository: %v", err)
	}
	if out != "" {
		t.Errorf("status output = %q, want empty", out)
	}
}

func TestStatusCommand_StatusBar(t *testing.T) {
	testutil.SkipIfNoGit(t)
	isolateConfig(t)

	repo := testutil.SetupTestRepo(t)

	out, _, err := executeCommand(rootCmd, "", "status", "--statusbar", filepath.Join(repo, "README.md"))
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, "Git:") || !strings.Contains(out, "main") {
		t.Errorf("status --statusbar output = %q, want prefix and branch", out)
	}
}

func TestStatusCommand_MissingExecutable(t *testing.T) {
	testutil.SkipIfNoGit(t)
	isolateConfig(t)

	repo := testutil.SetupTestRepo(t)
	t.Setenv("LIGHTGIT_GIT_EXECUTABLE", filepath.Join(t.TempDir(), "no-git"))

	out, _, err := executeCommand(rootCmd, "", "status", filepath.Join(repo, "README.md"))
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if out != "" {
		t.Errorf("status output = %q, want empty when git cannot run", out)
	}
}

func TestFollowCommand(t *testing.T) {
	testutil.SkipIfNoGit(t)

	tests := []struct {
		name     string
		commands func(repo, other string) string
		wantLast string
	}{
		{
			name: "select file",
			commands: func(repo, other string) string {
				return filepath.Join(repo, "README.md") + "\n"
			},
			wantLast: "Git: main",
		},
		{
			name: "cleared selection",
			commands: func(repo, other string) string {
				return filepath.Join(repo, "README.md") + "\n:none\n"
			},
			wantLast: "Git: -",
		},
		{
			name: "closing falls back to previous file",
			commands: func(repo, other string) string {
				a := filepath.Join(repo, "README.md")
				b := filepath.Join(other, "README.md")
				return a + "\n" + b + "\n:close " + b + "\n"
			},
			wantLast: "Git: main",
		},
		{
			name: "last of rapid selections wins",
			commands: func(repo, other string) string {
				a := filepath.Join(repo, "README.md")
				b := filepath.Join(other, "README.md")
				return strings.Repeat(a+"\n"+b+"\n", 10)
			},
			wantLast: "Git: develop",
		},
		{
			name: "quit stops reading",
			commands: func(repo, other string) string {
				return filepath.Join(repo, "README.md") + "\n:quit\n:none\n"
			},
			wantLast: "Git: main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)

			repo := testutil.SetupTestRepo(t)
			other := testutil.SetupTestRepo(t)
			testutil.CheckoutNewBranch(t, other, "develop")

			out, _, err := executeCommand(rootCmd, tt.commands(repo, other), "follow")
			if err != nil {
				t.Fatalf("follow error: %v", err)
			}
			if got := lastLine(out); got != tt.wantLast {
				t.Errorf("last line = %q, want %q (output %q)", got, tt.wantLast, out)
			}
		})
	}
}

func TestFollowCommand_ActivateResolvesSelectedFile(t *testing.T) {
	testutil.SkipIfNoGit(t)
	isolateConfig(t)

	repo := testutil.SetupTestRepo(t)
	testutil.CheckoutNewBranch(t, repo, "hotfix")
	file := filepath.Join(repo, "README.md")

	out, _, err := executeCommand(rootCmd, file+"\n:activate\n", "follow")
	if err != nil {
		t.Fatalf("follow error: %v", err)
	}
	if got := lastLine(out); got != "Git: hotfix" {
		t.Errorf("last line = %q, want %q", got, "Git: hotfix")
	}
}

func TestFollowCommand_ReportsBadCommands(t *testing.T) {
	isolateConfig(t)

	_, errOut, err := executeCommand(rootCmd, ":bogus\n:close /not/open\n# comment\n\n", "follow")
	if err != nil {
		t.Fatalf("follow error: %v", err)
	}
	if !strings.Contains(errOut, `unknown command ":bogus"`) {
		t.Errorf("stderr = %q, want unknown command error", errOut)
	}
	if !strings.Contains(errOut, "is not open") {
		t.Errorf("stderr = %q, want close error", errOut)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	configDir := isolateConfig(t)

	out, _, err := executeCommand(rootCmd, "", "config", "init")
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}
	configFile := filepath.Join(configDir, "config.yaml")
	if !strings.Contains(out, configFile) {
		t.Errorf("config init output = %q, want path %s", out, configFile)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	for _, want := range []string{"lookup_timeout_ms: 5000", "prefix: Git", "clear_on_select: false"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config file missing %q:\n%s", want, data)
		}
	}

	if _, _, err := executeCommand(rootCmd, "", "config", "init"); err == nil {
		t.Error("second config init should fail")
	}

	out, _, err = executeCommand(rootCmd, "", "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(out, "Config file: "+configFile) {
		t.Errorf("config show should name the file in use:\n%s", out)
	}
	if !strings.Contains(out, "lookup_timeout_ms: 5000") {
		t.Errorf("config show output missing timeout:\n%s", out)
	}
}

func TestConfigSet(t *testing.T) {
	configDir := isolateConfig(t)

	out, _, err := executeCommand(rootCmd, "", "config", "set", "statusbar.prefix", "Branch")
	if err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if !strings.Contains(out, "Set statusbar.prefix = Branch") {
		t.Errorf("config set output = %q", out)
	}

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "Branch") {
		t.Errorf("config file missing new prefix:\n%s", data)
	}
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown key", "tracker.speed", "1", "unknown configuration key"},
		{"bad bool", "tracker.clear_on_select", "maybe", "expected true or false"},
		{"bad int", "tracker.lookup_timeout_ms", "soon", "expected integer"},
		{"negative timeout", "tracker.lookup_timeout_ms", "-5", "tracker.lookup_timeout_ms"},
		{"bad level", "logging.level", "loud", "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configDir := isolateConfig(t)

			_, _, err := executeCommand(rootCmd, "", "config", "set", "--", tt.key, tt.value)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("config set error = %v, want %q", err, tt.wantErr)
			}
			if _, statErr := os.Stat(filepath.Join(configDir, "config.yaml")); statErr == nil {
				t.Error("rejected value should not create a config file")
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	configDir := isolateConfig(t)

	out, _, err := executeCommand(rootCmd, "", "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if !strings.Contains(out, filepath.Join(configDir, "config.yaml")) {
		t.Errorf("config path output = %q", out)
	}
	if !strings.Contains(out, "LIGHTGIT_GIT_EXECUTABLE") {
		t.Errorf("config path output should mention env overrides: %q", out)
	}
}
