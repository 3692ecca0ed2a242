package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	unlocked bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isUnlocked() bool { return f.unlocked }
func (f *fakeExec) Unlock(ctx context.Context, args []string) error {
	f.unlocked = true
	return f.record("unlock", args)
}
func (f *fakeExec) Lock(ctx context.Context) error {
	f.unlocked = false
	return f.record("lock", nil)
}
func (f *fakeExec) Commit(ctx context.Context) error       { return f.record("commit", nil) }
func (f *fakeExec) DefineSchema(ctx context.Context) error { return f.record("defineschema", nil) }
func (f *fakeExec) CreateState(ctx context.Context) error  { return f.record("createstate", nil) }
func (f *fakeExec) UpdateState(ctx context.Context) error  { return f.record("updatestate", nil) }
func (f *fakeExec) Prove(ctx context.Context, args []string) error {
	return f.record("prove", args)
}
func (f *fakeExec) RegisterJob(ctx context.Context) error { return f.record("registerjob", nil) }
func (f *fakeExec) SubmitJob(ctx context.Context) error   { return f.record("submitjob", nil) }
func (f *fakeExec) Status(ctx context.Context, args []string) error {
	return f.record("status", args)
}
func (f *fakeExec) Result(ctx context.Context, args []string) error {
	return f.record("result", args)
}
func (f *fakeExec) Complete(ctx context.Context, args []string) error {
	return f.record("complete", args)
}
func (f *fakeExec) ListJobs(ctx context.Context) error { return f.record("jobs", nil) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"unlock passphrase",
		"help",
		"defineschema",
		"createstate",
		"updatestate",
		"prove st1",
		"registerjob",
		"submitjob",
		"status job1",
		"result job1",
		"complete job1",
		"jobs",
		"commit",
		"lock",
		"foobar",
		"exit",
		"jobs",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	want := []string{"unlock", "defineschema", "createstate", "updatestate", "prove", "registerjob", "submitjob", "status", "result", "complete", "jobs", "commit", "lock"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	if got := exec.args[0]; len(got) != 1 || got[0] != "passphrase" {
		t.Fatalf("unlock args = %v", got)
	}
	if got := exec.args[4]; len(got) != 1 || got[0] != "st1" {
		t.Fatalf("prove args = %v", got)
	}
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("status x\njobs\n")))

	if len(exec.calls) != 2 {
		t.Fatalf("calls = %v", exec.calls)
	}
	errs := 0
	for _, l := range *out {
		if strings.HasPrefix(l, "Error:") {
			errs++
		}
	}
	if errs != 2 {
		t.Fatalf("expected 2 error lines, got %v", *out)
	}
}

func TestRunREPL_QuitAndUnknown(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{unlocked: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("\nget\nquit\nsubmitjob\n")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	joined := strings.Join(*out, "\n")
	if !strings.Contains(joined, "Unknown command:get") || !strings.Contains(joined, "Bye!") {
		t.Fatalf("unexpected output: %q", joined)
	}
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("jobs")))

	if len(exec.calls) != 1 || exec.calls[0] != "jobs" {
		t.Fatalf("calls = %v", exec.calls)
	}
}
