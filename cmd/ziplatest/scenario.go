package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stephaneyfx/futuristic"
	"github.com/stephaneyfx/futuristic/source"
	"gopkg.in/yaml.v3"
)

// scenario lists scripted sources. A null step stalls the source for one poll.
type scenario struct {
	Sources [][]*int `yaml:"sources"`
}

func loadScenario(path string) (scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, fmt.Errorf("failed reading scenario: %w", err)
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (scenario, error) {
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return scenario{}, fmt.Errorf("failed parsing scenario: %w", err)
	}
	return sc, nil
}

func (sc scenario) sources() []source.Source[int] {
	srcs := make([]source.Source[int], len(sc.Sources))
	for i, steps := range sc.Sources {
		srcs[i] = source.ScriptOf(steps...)
	}
	return srcs
}

// replay zips the scenario sources and writes every snapshot to out, one per line.
func replay(ctx context.Context, sc scenario, mode string, out io.Writer) error {
	switch mode {
	case modePair:
		if len(sc.Sources) != 2 {
			return fmt.Errorf("mode %q needs exactly 2 sources, got %d", modePair, len(sc.Sources))
		}
		srcs := sc.sources()
		return source.Consume[futuristic.Tuple2[int, int]](ctx, source.ZipLatest(srcs[0], srcs[1]), func(p futuristic.Tuple2[int, int]) {
			_, _ = fmt.Fprintf(out, "(%d, %d)\n", p.A, p.B)
		})
	case modeAll:
		return source.Consume[[]int](ctx, source.ZipLatestAll(sc.sources()...), func(items []int) {
			_, _ = fmt.Fprintln(out, items)
		})
	default:
		return errors.New("unknown mode " + mode)
	}
}
