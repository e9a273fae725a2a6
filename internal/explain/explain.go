// Package explain sends the reader to an external chat assistant for an
// explanation of a verse. Nothing is read back from the assistant.
package explain

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultAssistantURL = "https://chat.openai.com"
	FailureMessage      = "Couldn't open the chat assistant. Please try again."
)

var ErrOpen = errors.New("failed to open browser")

// Prompt is the question handed to the assistant.
func Prompt(reference, text string) string {
	return fmt.Sprintf(`Explain the Bible verse: "%s" (%s)`, text, reference)
}

// ShareURL builds the assistant link for a verse.
func ShareURL(base, reference, text string) string {
	if base == "" {
		base = DefaultAssistantURL
	}
	return strings.TrimRight(base, "/") + "/share/" + escapeComponent(Prompt(reference, text))
}

// componentUnescaper restores the marks browsers leave bare in a URI
// component; QueryEscape encodes them and turns spaces into "+".
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// Opener shows a URL to the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// BrowserOpener starts the platform's URL handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(_ context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrOpen, err)
	}
	// the handler outlives us; reap it without waiting on the caller
	go func() { _ = cmd.Wait() }()
	return nil
}

// ErrorFlag receives the user-visible launch failure.
type ErrorFlag interface {
	SetError(msg string)
	ClearError()
}

type Launcher struct {
	base   string
	opener Opener
	flag   ErrorFlag
	log    *zap.Logger
}

func NewLauncher(base string, opener Opener, flag ErrorFlag, log *zap.Logger) *Launcher {
	if opener == nil {
		opener = BrowserOpener{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{base: base, opener: opener, flag: flag, log: log}
}

// Explain opens the assistant for a verse and returns the URL it used. A
// failure is not retried; it sets the error flag and is returned.
func (l *Launcher) Explain(ctx context.Context, reference, text string) (string, error) {
	target := ShareURL(l.base, reference, text)

	if err := l.opener.Open(ctx, target); err != nil {
		l.log.Warn("could not open chat assistant", zap.String("reference", reference), zap.Error(err))
		if l.flag != nil {
			l.flag.SetError(FailureMessage)
		}
		return target, err
	}

	if l.flag != nil {
		l.flag.ClearError()
	}
	return target, nil
}
