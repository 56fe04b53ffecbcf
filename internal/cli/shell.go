package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/abgdnv/productboard/internal/product/ui"
	"github.com/spf13/cobra"
)

const shellPrompt = "> "

const shellHelp = `Commands:
  list | refresh          reload products from the API
  search [text]           filter by name, empty clears the filter
  sort <field>            sort by id, name, price, created_at or updated_at; repeat to flip
  add <name...> <price>   create a product, the last word is the price
  delete <id>             delete a product after confirmation
  help                    show this help
  quit | exit             leave the shell
`

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive product board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := newShell(a.newController(), cmd.InOrStdin(), cmd.OutOrStdout())
			return sh.run(cmd.Context())
		},
	}
}

// shell is a line based session over one controller. The view is rendered
// after each command and again when a banner expires while waiting for input.
type shell struct {
	ctrl *ui.Controller
	in   *bufio.Scanner
	out  io.Writer

	mu         sync.Mutex
	waiting    bool
	closed     bool
	hadMessage bool
}

func newShell(ctrl *ui.Controller, in io.Reader, out io.Writer) *shell {
	return &shell{
		ctrl: ctrl,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

func (s *shell) run(ctx context.Context) error {
	unsubscribe := s.ctrl.Store().Subscribe(s.onChange)
	defer func() {
		unsubscribe()
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	}()

	_ = s.ctrl.Load(ctx)
	s.render()

	for {
		line, ok := s.readLine()
		if !ok {
			return s.in.Err()
		}
		quit, err := s.exec(ctx, line)
		if quit {
			return nil
		}
		if errors.Is(err, ui.ErrBusy) {
			s.printf("Busy, try again.\n")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.render()
	}
}

// exec runs one command line. Failures already show up in the banner.
func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.printf("%s", shellHelp)
		return false, nil
	case "list", "refresh", "r":
		return false, s.ctrl.Load(ctx)
	case "search", "/":
		s.ctrl.SetSearch(rest)
		return false, nil
	case "sort":
		field, err := ui.ParseSortField(rest)
		if err != nil {
			s.printf("%v\n", err)
			return false, err
		}
		s.ctrl.SortBy(field)
		return false, nil
	case "add":
		name, price := splitDraft(rest)
		s.ctrl.SetDraft(name, price)
		return false, s.ctrl.AddProduct(ctx)
	case "delete", "rm":
		return false, s.delete(ctx, rest)
	default:
		s.printf("Unknown command %q, type help.\n", cmd)
		return false, nil
	}
}

func (s *shell) delete(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		s.printf("usage: delete <id>\n")
		return err
	}
	st := s.ctrl.Store().Snapshot()
	p := findProduct(st, id)
	if p.Name == "" {
		s.printf("No product #%d in the list.\n", id)
		return nil
	}

	s.ctrl.ConfirmDelete(p)
	st = s.ctrl.Store().Snapshot()
	s.mu.Lock()
	printPrompt(s.out, st)
	s.mu.Unlock()

	answer, ok := s.readAnswer()
	if !ok || !isYes(answer) {
		s.ctrl.CancelDelete()
		return nil
	}
	return s.ctrl.DeleteConfirmed(ctx)
}

// splitDraft treats the last word as the price and the rest as the name.
func splitDraft(args string) (string, string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return args, ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

func (s *shell) readLine() (string, bool) {
	s.mu.Lock()
	_, _ = io.WriteString(s.out, shellPrompt)
	s.waiting = true
	s.mu.Unlock()
	return s.scan()
}

func (s *shell) readAnswer() (string, bool) {
	return s.scan()
}

func (s *shell) scan() (string, bool) {
	ok := s.in.Scan()
	s.mu.Lock()
	s.waiting = false
	s.mu.Unlock()
	if !ok {
		return "", false
	}
	return s.in.Text(), true
}

// render takes the snapshot before locking mu; listeners run under store locks.
func (s *shell) render() {
	st := s.ctrl.Store().Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = ui.Render(s.out, st)
}

func (s *shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// onChange redraws when a banner expires at the prompt.
func (s *shell) onChange(st ui.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := s.hadMessage && st.Message == nil
	s.hadMessage = st.Message != nil
	if s.closed || !s.waiting || !expired {
		return
	}
	_, _ = io.WriteString(s.out, "\n")
	_ = ui.Render(s.out, st)
	_, _ = io.WriteString(s.out, shellPrompt)
}
