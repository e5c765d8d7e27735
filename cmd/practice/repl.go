package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

const help = `commands:
  k <kind>          switch quiz (mcq|fillups); each keeps its own session
  g                 generate a question set
  a <n> <answer>    answer question n of the current batch
  s                 submit the batch
  n                 next batch
  t <tier>          change difficulty (easy|medium|hard)
  c <count>         change question count (5-20)
  v                 show the current batch
  q                 quit`

type repl[Q quiz.Question] struct {
	ctrl *quiz.Controller[Q]
	out  io.Writer
	// show prints one question of the window.
	show func(w io.Writer, n int, q Q, answer string)
	// resolve turns typed input into the answer value the grader expects.
	resolve func(q Q, input string) string
}

func newChoiceREPL(ctrl *quiz.Controller[quiz.ChoiceQuestion], out io.Writer) *repl[quiz.ChoiceQuestion] {
	return &repl[quiz.ChoiceQuestion]{
		ctrl: ctrl,
		out:  out,
		show: func(w io.Writer, n int, q quiz.ChoiceQuestion, answer string) {
			fmt.Fprintf(w, "%d. %s\n", n, q.Prompt)
			for i, o := range q.Options {
				mark := " "
				if o == answer {
					mark = "*"
				}
				fmt.Fprintf(w, "   %s %d) %s\n", mark, i+1, o)
			}
		},
		// an option number picks that option, anything else is taken verbatim
		resolve: func(q quiz.ChoiceQuestion, input string) string {
			if i, err := strconv.Atoi(input); err == nil && i >= 1 && i <= len(q.Options) {
				return q.Options[i-1]
			}
			return input
		},
	}
}

func newFillREPL(ctrl *quiz.Controller[quiz.FillQuestion], out io.Writer) *repl[quiz.FillQuestion] {
	return &repl[quiz.FillQuestion]{
		ctrl: ctrl,
		out:  out,
		show: func(w io.Writer, n int, q quiz.FillQuestion, answer string) {
			fmt.Fprintf(w, "%d. %s\n", n, q.Prompt)
			if answer != "" {
				fmt.Fprintf(w, "   > %s\n", answer)
			}
		},
		resolve: func(_ quiz.FillQuestion, input string) string { return input },
	}
}

// pane is one quiz kind's session as driven by the shell.
type pane interface {
	exec(ctx context.Context, cmd, arg string) error
	print()
	wait()
}

// shell routes commands to the active pane. Panes never share state.
type shell struct {
	out    io.Writer
	panes  map[quiz.Kind]pane
	active quiz.Kind
}

func newShell(out io.Writer, active quiz.Kind, panes map[quiz.Kind]pane) *shell {
	return &shell{out: out, panes: panes, active: active}
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, help)
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "%s> ", s.active)
		if !sc.Scan() {
			return sc.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		switch cmd {
		case "q":
			return nil
		case "k":
			if _, ok := s.panes[quiz.Kind(rest)]; !ok {
				fmt.Fprintf(s.out, "error: unknown kind %q\n", rest)
				continue
			}
			s.active = quiz.Kind(rest)
			s.panes[s.active].print()
			continue
		}
		if err := s.panes[s.active].exec(ctx, cmd, rest); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

// wait joins outstanding progress saves of every pane.
func (s *shell) wait() {
	for _, p := range s.panes {
		p.wait()
	}
}

func (r *repl[Q]) wait() { r.ctrl.Wait() }

func (r *repl[Q]) exec(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "g":
		v := r.ctrl.View()
		fmt.Fprintf(r.out, "generating %d %s %s...\n", v.Count, v.Tier, v.Kind.Label())
		if err := r.ctrl.Generate(ctx, v.Tier, v.Count); err != nil && !errors.Is(err, quiz.ErrGeneration) {
			return err
		}
		r.print()
	case "a":
		n, answer, _ := strings.Cut(arg, " ")
		i, err := strconv.Atoi(n)
		v := r.ctrl.View()
		if err != nil || i < 1 || i > len(v.Window) {
			return fmt.Errorf("no question %q in this batch", n)
		}
		q := v.Window[i-1]
		return r.ctrl.Answer(q.QuestionID(), r.resolve(q, strings.TrimSpace(answer)))
	case "s":
		fb, err := r.ctrl.Submit()
		if err != nil {
			return err
		}
		r.printFeedback(fb)
	case "n":
		if _, err := r.ctrl.Next(); err != nil {
			return err
		}
		r.print()
	case "t":
		t, err := quiz.ParseTier(arg)
		if err != nil {
			return err
		}
		if err := r.ctrl.ChangeTier(t); err != nil {
			return err
		}
		r.print()
	case "c":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: %q", quiz.ErrInvalidCount, arg)
		}
		return r.ctrl.ChangeCount(n)
	case "v":
		r.print()
	default:
		fmt.Fprintln(r.out, help)
	}
	return nil
}

func (r *repl[Q]) print() {
	v := r.ctrl.View()
	if v.Notice != "" {
		fmt.Fprintln(r.out, v.Notice)
	}
	if len(v.Window) == 0 {
		if v.State == quiz.StateIdle {
			fmt.Fprintf(r.out, "no %s %s loaded; type g to generate\n", v.Tier, v.Kind.Label())
		}
		return
	}
	fmt.Fprintf(r.out, "[%s] questions %d-%d of %d\n", v.Tier, v.Offset+1, v.Offset+len(v.Window), v.Total)
	for i, q := range v.Window {
		answer, _ := v.Answers.Lookup(q.QuestionID())
		r.show(r.out, i+1, q, answer)
	}
}

func (r *repl[Q]) printFeedback(fb quiz.Feedback) {
	for i, v := range fb {
		line := fmt.Sprintf("%d. %s", i+1, v.Result)
		if v.Answer != "" {
			line += fmt.Sprintf(" (you: %s)", v.Answer)
		}
		if v.Result != quiz.ResultCorrect && v.Correct != "" {
			line += fmt.Sprintf(" answer: %s", v.Correct)
		}
		fmt.Fprintln(r.out, line)
		if v.Explanation != "" {
			fmt.Fprintf(r.out, "   %s\n", v.Explanation)
		}
	}
	t := fb.Tally()
	fmt.Fprintf(r.out, "correct %d, wrong %d, not answered %d\n", t.Correct, t.Wrong, t.NotAnswered)
}
