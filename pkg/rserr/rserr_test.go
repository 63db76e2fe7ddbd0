package rserr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsAsRecoversKind(t *testing.T) {
	err := fmt.Errorf("context: %w", Wrap(NotFound, errors.New("stat failed"), "file.bin"))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, NotFound, rerr.Kind)
	assert.ErrorContains(t, rerr, "stat failed")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "InvalidArgument", InvalidArgument.String())
	assert.Equal(t, "IoError", IoError.String())
}
