package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobListFlag(t *testing.T) {
	var jobs jobList
	fs := flag.NewFlagSet("sheetsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&jobs, "job", "")

	require.NoError(t, fs.Parse([]string{"-job", "a, b", "-job", "c", "-job", ","}))
	assert.Equal(t, jobList{"a", "b", "c"}, jobs)
	assert.Equal(t, "a,b,c", jobs.String())
}
