package mcptools

import (
	"fmt"

	"github.com/fpang/logonova/internal/pipeline"
)

// toolError prefixes err with its failure code and the user-facing message so
// agents can decide whether to retry or ask for a new credential.
func toolError(err error) error {
	code := pipeline.CodeOf(err)
	if code == "" {
		return err
	}
	return fmt.Errorf("%s: %s (%w)", code, pipeline.UserMessage(err), err)
}
