package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const testSchema = `
name: signup
fields:
  - path: email
    default: ""
  - path: newsletter
    default: true
    disabled: true
`

const testSession = `
steps:
  - change: email
    value: a@b.com
  - blur: email
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateOK(t *testing.T) {
	path := writeFile(t, "form.yaml", testSchema)
	stdout, _, err := runCmd(t, "validate", path)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(stdout, "ok") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestValidateRejectsBadSchema(t *testing.T) {
	path := writeFile(t, "bad.yaml", `fields: [{path: "a..b"}]`)
	_, stderr, err := runCmd(t, "validate", path)
	if err == nil {
		t.Fatal("expected a validation failure")
	}
	if stderr == "" {
		t.Error("expected the fault on stderr")
	}
}

func TestInspectTable(t *testing.T) {
	path := writeFile(t, "form.yaml", testSchema)
	stdout, _, err := runCmd(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(stdout, "PATH") || !strings.Contains(stdout, "email") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestInspectJSON(t *testing.T) {
	path := writeFile(t, "form.yaml", testSchema)
	stdout, _, err := runCmd(t, "inspect", path, "--json")
	if err != nil {
		t.Fatalf("inspect --json failed: %v", err)
	}
	var out inspectOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if out.Name != "signup" || len(out.Fields) != 2 {
		t.Errorf("out = %+v", out)
	}
}

func TestSimulateSession(t *testing.T) {
	schemaPath := writeFile(t, "form.yaml", testSchema)
	sessionPath := writeFile(t, "session.yaml", testSession)

	stdout, _, err := runCmd(t, "simulate", schemaPath, sessionPath)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	var out simulateOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if out.Values["email"] != "a@b.com" {
		t.Errorf("values = %v", out.Values)
	}
	if _, ok := out.SubmitValues["newsletter"]; ok {
		t.Error("disabled field leaked into submit values")
	}
	if len(out.DirtyFields) != 1 || out.DirtyFields[0] != "email" {
		t.Errorf("dirty = %v", out.DirtyFields)
	}
	if len(out.Touched) != 1 || out.Touched[0] != "email" {
		t.Errorf("touched = %v", out.Touched)
	}
	if len(out.Rounds) == 0 {
		t.Error("expected recorded notification rounds")
	}
}

func TestSimulateRejectsUnknownStep(t *testing.T) {
	schemaPath := writeFile(t, "form.yaml", testSchema)
	sessionPath := writeFile(t, "session.yaml", `steps: [{value: 3}]`)
	_, _, err := runCmd(t, "simulate", schemaPath, sessionPath)
	if err == nil {
		t.Fatal("expected a step error")
	}
	if !strings.Contains(err.Error(), "step 0") {
		t.Errorf("err = %v", err)
	}
}
