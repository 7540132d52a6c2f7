package dtdl

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

// ParseError aggregates every problem found while building the entity graph.
type ParseError struct {
	err error
}

// Error lists all problems, one per line.
func (e *ParseError) Error() string {
	problems := e.Problems()
	lines := make([]string, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, "  - "+p.Error())
	}
	return fmt.Sprintf("%s: %d problem(s):\n%s", apperrors.ErrOntologyParse, len(problems), strings.Join(lines, "\n"))
}

// Problems returns the individual problems in the order they were found.
func (e *ParseError) Problems() []error {
	return multierr.Errors(e.err)
}

// Is makes errors.Is(err, apperrors.ErrOntologyParse) succeed.
func (e *ParseError) Is(target error) bool {
	return target == apperrors.ErrOntologyParse
}

// problems accumulates source-qualified parse problems.
type problems struct {
	err error
}

func (p *problems) add(source, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if source != "" {
		msg = source + ": " + msg
	}
	p.err = multierr.Append(p.err, errors.New(msg))
}

func (p *problems) empty() bool {
	return p.err == nil
}

func (p *problems) asError() error {
	if p.err == nil {
		return nil
	}
	return &ParseError{err: p.err}
}
