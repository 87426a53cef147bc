// Package main is the entry point for the lyrictune CLI
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/james-see/lyrictune/internal/config"
	"github.com/james-see/lyrictune/internal/logger"
	"github.com/james-see/lyrictune/pkg/api"
	"github.com/james-see/lyrictune/pkg/lyrics"
	"github.com/james-see/lyrictune/pkg/playback"
	"github.com/james-see/lyrictune/pkg/song"
	"github.com/james-see/lyrictune/pkg/theory"
	"github.com/james-see/lyrictune/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliFlags holds the values of the shared flags
type cliFlags struct {
	root       string
	mode       string
	style      string
	tempo      float64
	seed       int64
	lyricsFile string
	outputFile string
	play       bool
	realtime   bool
	serverPort string
}

// app carries the loaded configuration and flags between commands
type app struct {
	cfg   *config.Config
	flags cliFlags
	flush func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if a.flush != nil {
		a.flush()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lyrictune",
		Short: "Compose a melody and chord progression from lyrics",
		Long: `lyrictune turns lyrics into music: it estimates the syllables of each
word, writes a motif-driven melody with one note per syllable, and
harmonizes every measure with a diatonic chord progression.

Examples:
  lyrictune compose "The quick brown fox jumps over the lazy dog"
  lyrictune compose --file verse.txt --root G --seed 42 -o verse.mid
  lyrictune play "Twinkle twinkle little star" --style arpeggio
  lyrictune syllables "Hello beautiful world"
  lyrictune inspect verse.mid
  lyrictune tui
  lyrictune serve --port 8080`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv()
			a.cfg = config.Load()
			a.flush = logger.Init(a.cfg, version)
		},
	}

	f := &a.flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.root, "root", "", "Scale root, e.g. C or F# (default from LYRICTUNE_ROOT or C)")
	pf.StringVar(&f.mode, "mode", "", "Scale mode: major or minor (default from LYRICTUNE_MODE or major)")
	pf.StringVar(&f.style, "style", "", "Accompaniment: strumming or arpeggio (default from LYRICTUNE_STYLE)")
	pf.Float64Var(&f.tempo, "tempo", 0, "Tempo in BPM (default from LYRICTUNE_TEMPO or 120)")
	pf.Int64Var(&f.seed, "seed", 0, "Random seed for a reproducible composition")
	pf.StringVarP(&f.lyricsFile, "file", "f", "", "Read lyrics from a file")

	composeCmd := &cobra.Command{
		Use:   "compose [lyrics...]",
		Short: "Compose a melody and chords and print them",
		RunE:  a.runCompose,
	}
	composeCmd.Flags().StringVarP(&f.outputFile, "output", "o", "", "Write a .mid file")
	composeCmd.Flags().BoolVar(&f.play, "play", false, "Play the result as text after composing")
	composeCmd.Flags().BoolVar(&f.realtime, "realtime", false, "Wait out each measure while playing")

	playCmd := &cobra.Command{
		Use:   "play [lyrics...]",
		Short: "Compose and play back as text",
		RunE:  a.runPlay,
	}
	playCmd.Flags().BoolVar(&f.realtime, "realtime", false, "Wait out each measure while playing")

	syllablesCmd := &cobra.Command{
		Use:   "syllables [lyrics...]",
		Short: "Show the estimated syllables per word",
		RunE:  a.runSyllables,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <file.mid>",
		Short: "List the notes and tempo of a MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInspect,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive terminal UI",
		RunE:  a.runTUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE:  a.runServe,
	}
	serveCmd.Flags().StringVarP(&f.serverPort, "port", "p", "", "Server port (default from PORT or 8080)")

	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(syllablesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

// readLyrics takes lyrics from --file or from the positional arguments
func (a *app) readLyrics(args []string) (string, error) {
	if a.flags.lyricsFile != "" {
		data, err := os.ReadFile(a.flags.lyricsFile)
		if err != nil {
			return "", fmt.Errorf("failed to read lyrics: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("no lyrics given: pass them as arguments or use --file")
	}
	return strings.Join(args, " "), nil
}

// options merges flags over configured defaults
func (a *app) options(cmd *cobra.Command) (song.Options, error) {
	opts := song.DefaultOptions()

	root, err := theory.ParsePitchClass(firstNonEmpty(a.flags.root, a.cfg.Root))
	if err != nil {
		return opts, err
	}
	mode, err := theory.ParseMode(firstNonEmpty(a.flags.mode, a.cfg.Mode))
	if err != nil {
		return opts, err
	}
	opts.Root = root
	opts.Mode = mode
	if cmd.Flags().Changed("seed") {
		seed := a.flags.seed
		opts.Seed = &seed
	}
	return opts, nil
}

func (a *app) tempo() float64 {
	if a.flags.tempo != 0 {
		return a.flags.tempo
	}
	return a.cfg.Tempo
}

func (a *app) style() (playback.Style, error) {
	return playback.ParseStyle(firstNonEmpty(a.flags.style, a.cfg.Style))
}

func (a *app) arrangement(s *song.Song) (playback.Arrangement, error) {
	style, err := a.style()
	if err != nil {
		return playback.Arrangement{}, err
	}
	arr := playback.Arrangement{
		Measures: s.Measures,
		Chords:   s.Chords,
		Tempo:    a.tempo(),
		Style:    style,
	}
	return arr, arr.Validate()
}

func (a *app) compose(cmd *cobra.Command, args []string) (*song.Song, error) {
	text, err := a.readLyrics(args)
	if err != nil {
		return nil, err
	}
	opts, err := a.options(cmd)
	if err != nil {
		return nil, err
	}
	s, err := song.Compose(text, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("Composed song", logger.Fields{"seed": s.Seed, "measures": len(s.Measures)})
	return s, nil
}

func (a *app) runCompose(cmd *cobra.Command, args []string) error {
	s, err := a.compose(cmd, args)
	if err != nil {
		return err
	}
	arr, err := a.arrangement(s)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSong(out, s)

	if a.flags.outputFile != "" {
		if err := playback.NewMIDIRenderer().WriteMIDIFile(arr, a.flags.outputFile); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWrote %s\n", a.flags.outputFile)
	}

	if a.flags.play {
		fmt.Fprintln(out)
		return a.play(cmd, arr)
	}
	return nil
}

func (a *app) runPlay(cmd *cobra.Command, args []string) error {
	s, err := a.compose(cmd, args)
	if err != nil {
		return err
	}
	arr, err := a.arrangement(s)
	if err != nil {
		return err
	}
	return a.play(cmd, arr)
}

func (a *app) play(cmd *cobra.Command, arr playback.Arrangement) error {
	p := playback.NewTextPlayer(cmd.OutOrStdout())
	p.Realtime = a.flags.realtime
	// an interrupt ends playback, not the command
	if err := p.Play(cmd.Context(), arr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *app) runSyllables(cmd *cobra.Command, args []string) error {
	text, err := a.readLyrics(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	words, counts := lyrics.Process(text)
	for i, w := range words {
		fmt.Fprintf(out, "%-20s %d\n", w, counts[i])
	}
	fmt.Fprintf(out, "Total syllables: %d\n", lyrics.Total(counts))
	return nil
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	notes, tempo, err := playback.ParseMIDI(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", args[0])
	fmt.Fprintf(out, "Tempo: %.1f BPM\n", tempo)
	fmt.Fprintf(out, "Notes: %d\n\n", len(notes))
	for _, n := range notes {
		pc := theory.PitchClass(int(n.Key) % 12)
		octave := int(n.Key)/12 - 1
		fmt.Fprintf(out, "track %d ch %d  %-4s tick %6d  len %5d  vel %3d\n",
			n.Track, n.Channel, fmt.Sprintf("%s%d", pc, octave), n.Start, n.Length, n.Velocity)
	}
	return nil
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	opts, err := a.options(cmd)
	if err != nil {
		return err
	}
	style, err := a.style()
	if err != nil {
		return err
	}
	return tui.Run(tui.Settings{
		Root:  opts.Root,
		Mode:  opts.Mode,
		Tempo: a.tempo(),
		Style: style,
	})
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	if a.flags.serverPort != "" {
		a.cfg.Port = a.flags.serverPort
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Swagger docs available at http://localhost:%s/swagger/index.html\n", a.cfg.Port)
	return api.StartServer(a.cfg)
}

// printSong writes the composition one measure per line
func printSong(out io.Writer, s *song.Song) {
	fmt.Fprintf(out, "Key: %s\n", s.Scale)
	fmt.Fprintf(out, "Seed: %d\n", s.Seed)
	fmt.Fprintf(out, "Syllables: %d in %d words\n", s.TotalSyllables(), len(s.Words))
	fmt.Fprintf(out, "Motif: %v\n", s.Motif)
	fmt.Fprintf(out, "Progression: %s\n\n", strings.Join(s.TemplateSymbols(), " - "))

	for _, bar := range s.Bars() {
		notes := make([]string, len(bar.Notes))
		for i, n := range bar.Notes {
			notes[i] = n.String()
		}
		fmt.Fprintf(out, "%3d | %-5s | %s\n", bar.Index, bar.Symbol, strings.Join(notes, " "))
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
