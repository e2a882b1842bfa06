// Package shell implements the interactive recon prompt
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/theopenlane/recon/internal/collector"
	"github.com/theopenlane/recon/internal/render"
	"github.com/theopenlane/recon/internal/scanner"
	"github.com/theopenlane/recon/internal/types"
)

// Prompt is printed before every line of input
const Prompt = "recon> "

// Shell reads commands line by line and drives one collector and scanner
type Shell struct {
	collector *collector.Collector
	scanner   *scanner.Scanner
	renderer  *render.Renderer
	in        *bufio.Reader
	out       io.Writer
	prompt    bool
}

// fileDescriptor is implemented by *os.File
type fileDescriptor interface {
	Fd() uintptr
}

// IsInteractive reports whether r is attached to a terminal
func IsInteractive(r io.Reader) bool {
	f, ok := r.(fileDescriptor)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in an int
}

// New creates a shell reading from in and writing transcripts to out
func New(fetcher scanner.Fetcher, renderer *render.Renderer, in io.Reader, out io.Writer, opts ...scanner.ScanOption) (*Shell, error) {
	if fetcher == nil {
		return nil, ErrMissingFetcher
	}

	if renderer == nil {
		return nil, ErrMissingRenderer
	}

	sh := &Shell{
		renderer: renderer,
		in:       bufio.NewReader(in),
		out:      out,
		prompt:   IsInteractive(in),
	}

	opts = append(opts, scanner.WithListener(sh.onStateChange))

	s, err := scanner.New(fetcher, opts...)
	if err != nil {
		return nil, err
	}

	c, err := collector.New(s)
	if err != nil {
		return nil, err
	}

	sh.scanner = s
	sh.collector = c

	return sh, nil
}

// SetPrompt overrides whether the prompt is printed before each line
func (sh *Shell) SetPrompt(enabled bool) {
	sh.prompt = enabled
}

// Run processes input until exit, end of input, or ctx is done
func (sh *Shell) Run(ctx context.Context) error {
	sh.printf("Recon shell. Type a domain to scan it, or 'help' for commands.\n")
	sh.printf("Scan type: %s (%s)\n", sh.collector.ScanType(), sh.collector.Description())

	for {
		if ctx.Err() != nil {
			return nil
		}

		if sh.prompt {
			sh.printf("%s", Prompt)
		}

		line, err := sh.in.ReadString('\n')
		if line != "" {
			if quit := sh.handleInput(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				sh.printf("\n")
				return nil
			}

			return err
		}
	}
}

// handleInput runs a single command and reports whether the shell should exit
func (sh *Shell) handleInput(ctx context.Context, input string) bool {
	args := strings.Fields(input)
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true
	case "help", "?":
		sh.printHelp()
	case "types":
		sh.printTypes()
	case "type":
		sh.setType(args[1:])
	case "clear":
		sh.scanner.Reset()
	case "scan":
		if len(args) > 1 && !sh.setDomain(strings.Join(args[1:], " ")) {
			return false
		}

		sh.submit(ctx)
	default:
		if sh.setDomain(input) {
			sh.submit(ctx)
		}
	}

	return false
}

// submit scans the current input and prints the resulting transcript
func (sh *Shell) submit(ctx context.Context) {
	submitted, err := sh.collector.Submit(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("scan did not publish a result")
	}

	if !submitted {
		sh.printf("  [!] Enter a domain to scan, e.g. example.com\n")
		return
	}

	if err := sh.renderer.Render(sh.out, sh.scanner.Result(), false); err != nil {
		log.Error().Err(err).Msg("failed to write transcript")
	}
}

// setDomain replaces the domain text, reporting whether it was accepted
func (sh *Shell) setDomain(text string) bool {
	if err := sh.collector.SetDomain(text); err != nil {
		sh.printf("  [!] %v\n", err)
		return false
	}

	return true
}

// setType changes the selected scan type
func (sh *Shell) setType(args []string) {
	if len(args) != 1 {
		sh.printf("  [!] Usage: type <%s>\n", strings.Join(types.ScanTypeNames(), "|"))
		return
	}

	scanType, err := types.ParseScanType(args[0])
	if err == nil {
		err = sh.collector.SetScanType(scanType)
	}

	if err != nil {
		sh.printf("  [!] %v\n", err)
		return
	}

	sh.printf("  Scan type: %s (%s)\n", scanType, sh.collector.Description())
}

// onStateChange shows the loading transcript as soon as a scan is dispatched
func (sh *Shell) onStateChange(state scanner.State) {
	if !state.Loading {
		return
	}

	if err := sh.renderer.Render(sh.out, nil, true); err != nil {
		log.Error().Err(err).Msg("failed to write transcript")
	}
}

func (sh *Shell) printTypes() {
	current := sh.collector.ScanType()

	for _, info := range types.ScanTypes() {
		marker := " "
		if info.Value == current {
			marker = "*"
		}

		sh.printf("  %s %-8s %-17s %s\n", marker, info.Value, info.Label, info.Description)
	}
}

func (sh *Shell) printHelp() {
	sh.printf(`
  Commands:
    <domain>          scan the domain with the selected scan type
    scan [domain]     scan the given domain, or the last one entered
    type <name>       select the scan type (%s)
    types             list scan types
    clear             discard the current result
    help              show this help
    exit              leave the shell
`, strings.Join(types.ScanTypeNames(), ", "))
}

func (sh *Shell) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(sh.out, format, args...); err != nil {
		log.Debug().Err(err).Msg("failed to write to shell output")
	}
}
