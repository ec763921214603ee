package bootstrap

import (
	"fmt"

	coreconfig "github.com/selvaganesh19/mailform/core/config"
	"github.com/selvaganesh19/mailform/core/logger"
)

// Step is a named preparation routine executed after logger init.
type Step struct {
	Name string
	Run  func() error
}

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Steps      []Step
}

// Run initializes the logger and executes the preparation steps in order.
// Steps cover local infrastructure such as credential files and working
// directories for downloaded attachments.
func Run(opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	for _, step := range opts.Steps {
		if step.Run == nil {
			continue
		}
		if err := step.Run(); err != nil {
			return fmt.Errorf("bootstrap: %s failed: %w", step.Name, err)
		}
	}

	return nil
}
