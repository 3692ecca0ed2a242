package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errLocked = errors.New("session is locked, run 'unlock' first")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	Unlock(ctx context.Context, args []string) error
	Lock(ctx context.Context) error
	Commit(ctx context.Context) error
	DefineSchema(ctx context.Context) error
	CreateState(ctx context.Context) error
	UpdateState(ctx context.Context) error
	Prove(ctx context.Context, args []string) error
	RegisterJob(ctx context.Context) error
	SubmitJob(ctx context.Context) error
	Status(ctx context.Context, args []string) error
	Result(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	ListJobs(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the zkvault CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Remaining tokens are passed to commands that
// take arguments. Interactive prompts of the commands read from the same
// reader. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                   - show available commands
//	  - unlock [passphrase]    - enter the session secret
//	  - commit                 - print the commitment of a text
//	  - defineschema           - register a schema
//	  - registerjob            - register a job type
//	  - prove <state-id>       - request a proof for a state created here
//	  - status <job-id>        - show job status
//	  - jobs                   - list locally recorded jobs
//	  - exit | quit            - leave the program
//
//	Unlocked:
//	  - createstate / updatestate
//	  - submitjob
//	  - result <job-id>        - fetch and decrypt a job result
//	  - complete <job-id>      - store a result for a local job
//	  - lock                   - forget the session key
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("zk> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn("Available commands: commit, defineschema, createstate, updatestate, prove, registerjob, submitjob, status, result, complete, jobs, lock, exit")
			} else {
				printlnFn("Available commands: unlock, commit, defineschema, registerjob, prove, status, jobs, exit")
			}

		case "unlock":
			cmdErr = a.Unlock(ctx, args)

		case "lock":
			cmdErr = a.Lock(ctx)

		case "commit":
			cmdErr = a.Commit(ctx)

		case "defineschema":
			cmdErr = a.DefineSchema(ctx)

		case "createstate":
			cmdErr = a.CreateState(ctx)

		case "updatestate":
			cmdErr = a.UpdateState(ctx)

		case "prove":
			cmdErr = a.Prove(ctx, args)

		case "registerjob":
			cmdErr = a.RegisterJob(ctx)

		case "submitjob":
			cmdErr = a.SubmitJob(ctx)

		case "status":
			cmdErr = a.Status(ctx, args)

		case "result":
			cmdErr = a.Result(ctx, args)

		case "complete":
			cmdErr = a.Complete(ctx, args)

		case "jobs":
			cmdErr = a.ListJobs(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
