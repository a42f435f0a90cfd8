package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/notekit"
	"github.com/aretw0/notekit/pkg/adapters/frontmatter"
	"github.com/aretw0/notekit/pkg/adapters/fs"
	notelifecycle "github.com/aretw0/notekit/pkg/adapters/lifecycle"
	"github.com/aretw0/notekit/pkg/adapters/stream"
	"github.com/aretw0/notekit/pkg/core"
)

const stdoutDestination = "-"

var (
	exportOut   string
	exportSpace int
	exportSet   []string
	exportDrop  []string
	exportUpper bool
	exportWatch bool
	exportMode  string
)

var exportCmd = &cobra.Command{
	Use:   "export [patterns...]",
	Short: "Export notes as JSON",
	Long: `Load every file matching the glob patterns, apply the requested
transforms and write one JSON document per note.

Patterns support "**". Output files mirror the source layout under --out;
use "-" to print to stdout.`,
	Example: `  notekit export "notes/**/*.md" --out dist --space 2
  notekit export todo.md --set status=done --drop draft --out -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transform, err := buildTransform(exportUpper, exportSet, exportDrop)
		if err != nil {
			return err
		}

		e := &exporter{
			root:      config.Root,
			out:       firstNonEmpty(exportOut, config.Out, stdoutDestination),
			space:     config.Space,
			mode:      firstNonEmpty(exportMode, config.Mode),
			transform: transform,
			logger:    slog.Default(),
		}
		if cmd.Flags().Changed("space") {
			e.space = exportSpace
		}
		e.note = e.newNote(cmd.OutOrStdout())

		files, err := expand(args)
		if err != nil {
			if !exportWatch {
				return err
			}
			e.logger.Warn("nothing to export yet", "error", err)
		}
		if err := e.run(cmd.Context(), files); err != nil {
			return err
		}
		if !exportWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return e.watch(ctx, args)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", `Output directory, or "-" for stdout`)
	exportCmd.Flags().IntVar(&exportSpace, "space", 0, "JSON indentation width (0-10)")
	exportCmd.Flags().StringArrayVar(&exportSet, "set", nil, "Set a metadata key (key=value, value parsed as YAML)")
	exportCmd.Flags().StringArrayVar(&exportDrop, "drop", nil, "Remove a metadata key")
	exportCmd.Flags().BoolVar(&exportUpper, "upper-body", false, "Uppercase the body")
	exportCmd.Flags().BoolVarP(&exportWatch, "watch", "w", false, "Re-export files when they change")
	exportCmd.Flags().StringVar(&exportMode, "mode", "", "Permission of written files, in octal (default 0644)")
}

// exporter loads each file into one reusable note and exports it.
type exporter struct {
	root      string
	out       string
	space     int
	mode      string
	transform core.Transform
	note      *core.Note
	logger    *slog.Logger
}

func (e *exporter) newNote(stdout io.Writer) *core.Note {
	opts := []notekit.Option{
		notekit.WithRoot(e.root),
		notekit.WithRequireFrontmatter(config.RequireFrontmatter),
		notekit.WithLogger(e.logger),
	}
	if e.out == stdoutDestination {
		opts = append(opts, notekit.WithSink(stream.NewSink(stdout)))
	}
	return notekit.New(opts...)
}

func (e *exporter) run(ctx context.Context, files []string) error {
	for _, file := range files {
		if err := e.exportFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

// watch re-exports files as they change until ctx is done. Changes are
// handled one at a time since the note is shared.
func (e *exporter) watch(ctx context.Context, patterns []string) error {
	src := notelifecycle.NewWatchSource(fs.Config{Root: e.root, Logger: e.logger}, patterns)
	if err := src.Start(ctx); err != nil {
		return err
	}
	e.logger.Info("watching for changes", "patterns", patterns)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-src.Events():
			change, ok := ev.(notelifecycle.ChangeEvent)
			if !ok {
				continue
			}
			if err := e.exportFile(ctx, change.Path); err != nil {
				e.logger.Error("export failed", "source", change.Path, "error", err)
			}
		}
	}
}

func (e *exporter) exportFile(ctx context.Context, file string) error {
	var loadOpts []core.LoadOption
	if e.transform != nil {
		loadOpts = append(loadOpts, core.WithTransform(e.transform))
	}
	if err := e.note.Load(ctx, file, loadOpts...); err != nil {
		return err
	}

	dest := e.destination(file)
	if err := e.note.Export(ctx, dest, core.ExportOptions{Space: e.space, Write: e.writeOptions()}); err != nil {
		return err
	}
	e.logger.Debug("exported", "source", file, "destination", dest)
	return nil
}

func (e *exporter) writeOptions() core.WriteOptions {
	if e.out == stdoutDestination {
		return core.WriteOptions{stream.OptionNewline: true}
	}
	opts := core.WriteOptions{fs.OptionMkdir: true}
	if e.mode != "" {
		opts[fs.OptionMode] = e.mode
	}
	return opts
}

// destination maps a source file to its JSON file under out, keeping the
// layout relative to root.
func (e *exporter) destination(file string) string {
	if e.out == stdoutDestination {
		return stdoutDestination
	}
	rel := filepath.Base(file)
	if e.root != "" {
		absRoot, rootErr := filepath.Abs(e.root)
		absFile, fileErr := filepath.Abs(file)
		if rootErr == nil && fileErr == nil {
			if r, err := filepath.Rel(absRoot, absFile); err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
				rel = r
			}
		}
	}
	return filepath.Join(e.out, strings.TrimSuffix(rel, filepath.Ext(rel))+".json")
}

// expand resolves glob patterns into a sorted list of unique files.
func expand(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// buildTransform turns the CLI flags into a single transform applied at load
// time: body first, then --set, then --drop. It returns nil when no flag asks
// for a change.
func buildTransform(upper bool, set, drop []string) (core.Transform, error) {
	var steps []core.Transform
	if upper {
		steps = append(steps, core.FieldTransform{Body: core.Apply(strings.ToUpper)})
	}

	if len(set) > 0 {
		fields := make([]core.MetadataField, 0, len(set))
		for _, assignment := range set {
			key, raw, ok := strings.Cut(assignment, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return nil, fmt.Errorf("invalid --set %q: expected key=value", assignment)
			}
			val, err := frontmatter.Value(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid --set %q: %w", assignment, err)
			}
			fields = append(fields, core.Key(key, core.Set(val)))
		}
		steps = append(steps, core.FieldTransform{Metadata: core.MergeMetadata(fields...)})
	}

	if len(drop) > 0 {
		keys := slices.Clone(drop)
		steps = append(steps, core.FieldTransform{
			Metadata: core.ReplaceMetadata(func(m core.Metadata) core.Metadata {
				if m == nil {
					return nil
				}
				for _, k := range keys {
					m.Delete(k)
				}
				return m
			}),
		})
	}

	switch len(steps) {
	case 0:
		return nil, nil
	case 1:
		return steps[0], nil
	default:
		return core.Chain(steps...), nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
