package a

import (
	"errors"
	"fmt"
)

var errInput = errors.New("invalid input")

type parseError struct{ line int }

func (e *parseError) Error() string { return fmt.Sprintf("line %d", e.line) }

func bad(err error) error {
	return fmt.Errorf("reading deck: %v", err) // want `error formatted with %v`
}

func badString(path string, err error) error {
	return fmt.Errorf("opening %s: %s", path, err) // want `error formatted with %s`
}

func badCustom(e *parseError) error {
	return fmt.Errorf("parsing slide: %+v", e) // want `error formatted with %v`
}

func good(err error) error {
	return fmt.Errorf("reading deck: %w", err)
}

func goodJoined(err error) error {
	return fmt.Errorf("%w: %w", errInput, err)
}

func goodNonError(path string) error {
	return fmt.Errorf("opening %s: %w", path, errInput)
}

func goodPercent(err error) error {
	return fmt.Errorf("100%% of slides failed: %w", err)
}
