// Provider selection menus.
//
// Information Hiding:
// - Terminal detection hidden
// - Interactive (huh) and line-based rendering hidden behind one interface

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/richinex/twinllm/llm"
)

// Menu choice values besides provider names.
const (
	choiceAuto = "auto"
	choiceExit = "exit"
)

type menuOption struct {
	Label string
	Value string
}

// menu asks the operator to pick one option and returns its value.
type menu interface {
	Choose(title string, options []menuOption) (string, error)
}

// providerOptions lists the available providers, then exit. Auto is offered
// only when there is more than one provider to choose between.
func providerOptions(status []llm.ProviderStatus) []menuOption {
	var options []menuOption
	var preferred string
	available := 0
	for _, s := range status {
		if !s.Available {
			continue
		}
		available++
		if preferred == "" {
			preferred = s.Name
		}
		options = append(options, menuOption{
			Label: fmt.Sprintf("%s (%s)", s.Name, s.Model),
			Value: s.Type.String(),
		})
	}
	if available > 1 {
		options = append(options, menuOption{
			Label: fmt.Sprintf("Auto (prefer %s)", preferred),
			Value: choiceAuto,
		})
	}
	return append(options, menuOption{Label: "Exit", Value: choiceExit})
}

// isInteractive reports whether f is a terminal.
func isInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// huhMenu renders a select form on the terminal.
type huhMenu struct{}

func (huhMenu) Choose(title string, options []menuOption) (string, error) {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&choice),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return choiceExit, nil
		}
		return "", err
	}
	return choice, nil
}

// lineMenu prints numbered options and reads the answer from a scanner.
// Both the number and the option value are accepted.
type lineMenu struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (m lineMenu) Choose(title string, options []menuOption) (string, error) {
	for {
		fmt.Fprintf(m.out, "\n%s\n", title)
		for i, o := range options {
			fmt.Fprintf(m.out, "  %d) %s\n", i+1, o.Label)
		}
		fmt.Fprint(m.out, "Choose: ")

		if !m.scanner.Scan() {
			if err := m.scanner.Err(); err != nil {
				return "", err
			}
			return choiceExit, nil
		}

		if value, ok := matchOption(strings.TrimSpace(m.scanner.Text()), options); ok {
			return value, nil
		}
		fmt.Fprintln(m.out, errorStyle.Render("Invalid choice, try again."))
	}
}

func matchOption(input string, options []menuOption) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return options[n-1].Value, true
	}
	for _, o := range options {
		if strings.EqualFold(input, o.Value) {
			return o.Value, true
		}
	}
	return "", false
}
