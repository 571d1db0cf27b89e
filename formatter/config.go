package formatter

import (
	"os"

	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

// Config holds parameters for console output.
type Config struct {
	LineWidth int            // maximum width of an output line, in ‘en’s
	MaxDepth  int            // blocks deeper than this are not printed; 0 means unlimited
	Context   *uax11.Context // context for determining the display width of labels
}

const defaultLineWidth = 100

// ConfigFromTerminal is a simple helper for creating a Config.
// It checks wether stdout is a terminal, and if so it reads the terminal's width
// and sets the Config.LineWidth parameter accordingly.
func ConfigFromTerminal() *Config {
	config := &Config{}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		w, _, err := term.GetSize(fd)
		if err != nil || w < 20 {
			config.LineWidth = defaultLineWidth
		} else {
			config.LineWidth = w - 1
		}
	} else {
		config.LineWidth = defaultLineWidth
	}
	config.Context = uax11.ContextFromEnvironment()
	T().P("format", "console").Infof("setting line length to %d en", config.LineWidth)
	return config
}

func (config *Config) normalized() *Config {
	if config == nil {
		config = &Config{}
	}
	c := *config
	if c.LineWidth <= 0 {
		c.LineWidth = defaultLineWidth
	}
	if c.Context == nil {
		c.Context = uax11.LatinContext
	}
	return &c
}
