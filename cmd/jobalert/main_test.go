package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	pw, err := readLine(strings.NewReader("  hunter2  \n"))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}

func TestReadLineEmptyInput(t *testing.T) {
	_, err := readLine(strings.NewReader(""))
	assert.Error(t, err)
}
