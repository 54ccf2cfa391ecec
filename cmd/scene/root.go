package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
	"github.com/milk9111/gecore/game"
	"github.com/milk9111/gecore/levels"
	"github.com/milk9111/gecore/log"
	"github.com/milk9111/gecore/prefabs"
	"github.com/milk9111/gecore/scene"
)

// NewRootCmd creates the scene tool command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string
	rootCmd := &cobra.Command{
		Use:           "scene",
		Short:         "Inspect, convert, validate and run scene files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level")

	logger := func(cmd *cobra.Command) (zerolog.Logger, error) {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return zerolog.Nop(), eris.Wrap(err, "parse log level")
		}
		return log.New(cmd.ErrOrStderr(), lvl, false), nil
	}

	rootCmd.AddCommand(
		newInspectCmd(logger),
		newConvertCmd(),
		newValidateCmd(logger),
		newRunCmd(logger),
	)
	return rootCmd
}

type loggerFunc func(cmd *cobra.Command) (zerolog.Logger, error)

func newInspectCmd(newLogger loggerFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect [scene]",
		Short:   "Print the entities and components of a scene file or embedded level",
		Example: "scene inspect demo\nscene inspect saves/run.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			doc, _, err := readDocument(args[0])
			if err != nil {
				return err
			}
			w, err := restore(doc, logger)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), doc)
			log.World(&logger, w, zerolog.DebugLevel)
			for e := range w.All() {
				log.Entity(&logger, w, e, zerolog.DebugLevel)
			}
			return nil
		},
	}
}

func newConvertCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "convert [scene]",
		Short: "Re-encode a scene as json or yaml",
		Long: "Re-encode a scene as json or yaml. Without --format the other format " +
			"is chosen. Without --out the result is written to stdout.",
		Example: "scene convert demo --format yaml\nscene convert level.yaml --out level.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, from, err := readDocument(args[0])
			if err != nil {
				return err
			}
			to, err := targetFormat(from, format, out)
			if err != nil {
				return err
			}
			data, err := scene.Marshal(doc, to)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d entities)\n", out, to, len(doc.Entities))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func newValidateCmd(newLogger loggerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scene...]",
		Short: "Load scenes into a throwaway world and report the first error",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			for _, name := range args {
				doc, _, err := readDocument(name)
				if err != nil {
					return err
				}
				w, err := restore(doc, logger)
				if err != nil {
					return eris.Wrapf(err, "validate %s", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d entities)\n", name, w.EntityCount())
			}
			return nil
		},
	}
}

func newRunCmd(newLogger loggerFunc) *cobra.Command {
	var (
		frames     int
		save       string
		profileDir string
		profileMem bool
	)
	cmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "Step a scene headless for a number of frames",
		Example: "scene run demo --frames 600 --save out.json\n" +
			"scene run demo --frames 6000 --profile ./prof",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			if frames <= 0 {
				return eris.Errorf("frames must be positive, got %d", frames)
			}
			if profileDir != "" {
				mode := profile.CPUProfile
				if profileMem {
					mode = profile.MemProfile
				}
				defer profile.Start(mode, profile.ProfilePath(profileDir), profile.NoShutdownHook, profile.Quiet).Stop()
			}

			cfg := game.DefaultConfig()
			cfg.Frames = frames
			if isFile(args[0]) {
				cfg.Scene = args[0]
			} else {
				cfg.Level = args[0]
			}
			g, err := game.New(cfg, logger)
			if err != nil {
				return err
			}
			defer g.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := g.Run(ctx, frames); err != nil {
				return err
			}
			if save != "" {
				if err := g.Save(save); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ran %d frames, %d entities, %d draw commands\n",
				g.Frame(), g.World().EntityCount(), g.DrawList().Len())
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "frames to step")
	cmd.Flags().StringVar(&save, "save", "", "write the final world to this scene file")
	cmd.Flags().StringVar(&profileDir, "profile", "", "write a pprof profile into this directory")
	cmd.Flags().BoolVar(&profileMem, "mem", false, "profile memory instead of cpu")
	return cmd
}

// readDocument loads a scene file, falling back to an embedded level name.
func readDocument(name string) (scene.Document, scene.Format, error) {
	if isFile(name) {
		f, err := scene.FormatFromPath(name)
		if err != nil {
			return scene.Document{}, f, err
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return scene.Document{}, f, eris.Wrapf(err, "read %s", name)
		}
		doc, err := scene.Unmarshal(data, f)
		if err != nil {
			return scene.Document{}, f, eris.Wrapf(err, "decode %s", name)
		}
		return doc, f, nil
	}
	data, f, err := levels.Load(name)
	if err != nil {
		return scene.Document{}, f, err
	}
	doc, err := scene.Unmarshal(data, f)
	if err != nil {
		return scene.Document{}, f, eris.Wrapf(err, "decode level %s", name)
	}
	return doc, f, nil
}

// restore decodes doc into a fresh world with the embedded scripts bound.
func restore(doc scene.Document, logger zerolog.Logger) (*ecs.World, error) {
	scripts := component.NewScriptRegistry()
	if err := prefabs.RegisterScripts(scripts); err != nil {
		return nil, err
	}
	w := ecs.NewWorld(ecs.WithLogger(logger))
	if _, err := scene.NewSerializer(w, scripts).Restore(doc); err != nil {
		return nil, err
	}
	return w, nil
}

func targetFormat(from scene.Format, format, out string) (scene.Format, error) {
	switch {
	case format != "":
		return scene.ParseFormat(format)
	case out != "":
		return scene.FormatFromPath(out)
	case from == scene.YAML:
		return scene.JSON, nil
	default:
		return scene.YAML, nil
	}
}

func printSummary(out io.Writer, doc scene.Document) {
	counts := map[string]int{}
	for _, ent := range doc.Entities {
		for name := range ent.Components {
			counts[name]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "scene %q: %d entities\n", doc.Scene, len(doc.Entities))
	for _, name := range names {
		fmt.Fprintf(out, "  %-14s %d\n", name, counts[name])
	}
	for i, ent := range doc.Entities {
		label := ent.ID
		if tag, ok := ent.Components["tag"].(string); ok {
			label = tag
		}
		comps := make([]string, 0, len(ent.Components))
		for name := range ent.Components {
			comps = append(comps, name)
		}
		sort.Strings(comps)
		fmt.Fprintf(out, "  [%d] %s %v\n", i, label, comps)
	}
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
