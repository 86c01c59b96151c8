package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const yieldingScenario = `
sources:
  - [0, null, 1, null, null, 2]
  - [null, 10, 11, 12, null, null, 13]
`

func TestReplayAll(t *testing.T) {
	sc, err := parseScenario([]byte(yieldingScenario))
	require.NoError(t, err)
	require.Len(t, sc.Sources, 2)
	require.Nil(t, sc.Sources[0][1])

	var out bytes.Buffer
	require.NoError(t, replay(context.Background(), sc, modeAll, &out))
	require.Equal(t, "[0 10]\n[1 11]\n[1 12]\n[2 12]\n[2 13]\n", out.String())
}

func TestReplayPair(t *testing.T) {
	sc, err := parseScenario([]byte(yieldingScenario))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, replay(context.Background(), sc, modePair, &out))
	require.Equal(t, "(0, 10)\n(0, 11)\n(1, 12)\n(2, 13)\n", out.String())
}

func TestReplayPairNeedsTwoSources(t *testing.T) {
	sc, err := parseScenario([]byte("sources: [[1], [2], [3]]"))
	require.NoError(t, err)
	require.ErrorContains(t, replay(context.Background(), sc, modePair, &bytes.Buffer{}), "exactly 2 sources")
}

func TestReplayUnknownMode(t *testing.T) {
	require.Error(t, replay(context.Background(), scenario{}, "zigzag", &bytes.Buffer{}))
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yieldingScenario), 0o600))
	sc, err := loadScenario(path)
	require.NoError(t, err)
	require.Len(t, sc.Sources, 2)

	_, err = loadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed reading scenario")

	_, err = parseScenario([]byte("sources: {"))
	require.ErrorContains(t, err, "failed parsing scenario")
}
