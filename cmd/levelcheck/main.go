// Command levelcheck loads level descriptors into a headless scene, runs a
// few seconds of simulation with no input and reports what was spawned.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/milk9111/boneyard/levels"
	"github.com/milk9111/boneyard/prefabs"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir       string
		prefabDir string
		frames    int
		seed      uint64
		verbose   bool
	)
	cmd := &cobra.Command{
		Use:           "levelcheck [level...]",
		Short:         "Load and simulate level descriptors headlessly",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := log.WarnLevel
			if verbose {
				level = log.DebugLevel
			}
			log.SetDefault(log.NewWithOptions(os.Stderr, log.Options{Prefix: "levelcheck", Level: level}))
			prefabs.SetDir(prefabDir)

			fsys := fs.FS(levels.LevelsFS)
			if dir != "" {
				fsys = os.DirFS(dir)
			}
			names := args
			if len(names) == 0 {
				var err error
				if names, err = levelNames(fsys); err != nil {
					return err
				}
			}

			failed := 0
			for _, name := range names {
				r, err := check(fsys, name, frames, seed)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", name, err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d levels failed", failed, len(names))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", "", "directory of level JSON files (default: embedded levels)")
	flags.StringVar(&prefabDir, "prefabs", "", "directory whose prefab files override the embedded ones")
	flags.IntVar(&frames, "frames", 180, "frames to simulate per level")
	flags.Uint64Var(&seed, "seed", 0, "RNG seed")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every spawn and contact")
	return cmd
}

// levelNames lists the .json descriptors at the root of fsys.
func levelNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("list levels: no .json files")
	}
	return names, nil
}
