package main

import (
	"errors"
	"testing"

	"github.com/fmueller/voxnote/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestShouldPrintUsageHint(t *testing.T) {
	t.Parallel()

	require.True(t, shouldPrintUsageHint(errors.New("unknown command \"bad\" for \"voxnote\"")))
	require.True(t, shouldPrintUsageHint(errors.New("unknown flag: --oops")))
	require.True(t, shouldPrintUsageHint(errors.New("accepts 1 arg(s), received 0")))
	require.False(t, shouldPrintUsageHint(errors.New("summarization failed: insufficient_quota")))
	require.False(t, shouldPrintUsageHint(errors.New("download model \"base\": context deadline exceeded")))
	require.False(t, shouldPrintUsageHint(nil))
}

func TestHelpHintTarget(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCmd()
	require.Equal(t, "voxnote", helpHintTarget(root, nil))
	require.Equal(t, "voxnote", helpHintTarget(root, []string{"--badflag"}))
	require.Equal(t, "voxnote", helpHintTarget(root, []string{"badcmd"}))
	require.Equal(t, "voxnote process", helpHintTarget(root, []string{"process"}))
	require.Equal(t, "voxnote process", helpHintTarget(root, []string{"process", "--api-key"}))
}
