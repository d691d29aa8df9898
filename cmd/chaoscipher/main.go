package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/awnumar/memguard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/chaoscipher/internal/batch"
	"github.com/san-kum/chaoscipher/internal/chaos"
	"github.com/san-kum/chaoscipher/internal/config"
	"github.com/san-kum/chaoscipher/internal/engine"
	"github.com/san-kum/chaoscipher/internal/imageio"
	"github.com/san-kum/chaoscipher/internal/pixbuf"
	"github.com/san-kum/chaoscipher/internal/quality"
	"github.com/san-kum/chaoscipher/internal/storage"
	"github.com/san-kum/chaoscipher/internal/tui"
	"github.com/san-kum/chaoscipher/internal/viz"
)

var (
	log = logrus.New()

	configFile string
	preset     string
	runsDir    string
	verbose    bool
	theme      string

	// cipher parameters
	mode        string
	color       string
	format      string
	permuteFlag bool
	x0          float64
	r           float64
	channelStep float64
	henonX0     float64
	henonY0     float64
	henonZ0     float64
	key         string
	truncateKey bool
	salt        string
	kdf         string
	askPass     bool

	// encrypt outputs
	previewPath string
	saveRun     bool
	plot        bool
	svgPath     string

	// generators
	ksLength  int
	seqLength int
	seedStr   string
	rMin      float64
	rMax      float64
	steps     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chaoscipher",
		Short: "chaotic-sequence image cipher",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if theme != "" {
				viz.SetTheme(theme)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "des", "named preset")
	rootCmd.PersistentFlags().StringVar(&runsDir, "runs", config.DefaultRunsDir, "run directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	encryptCmd := &cobra.Command{
		Use:   "encrypt [image] [output]",
		Short: "encrypt an image into a container file",
		Args:  cobra.ExactArgs(2),
		RunE:  runEncrypt,
	}
	addCipherFlags(encryptCmd)
	encryptCmd.Flags().StringVar(&previewPath, "preview", "", "write the cipher preview as png")
	encryptCmd.Flags().BoolVar(&saveRun, "save", false, "store the run")
	encryptCmd.Flags().BoolVar(&plot, "plot", false, "plot histograms")

	decryptCmd := &cobra.Command{
		Use:   "decrypt [container] [output]",
		Short: "decrypt a container file into a png",
		Args:  cobra.ExactArgs(2),
		RunE:  runDecrypt,
	}
	addCipherFlags(decryptCmd)

	metricsCmd := &cobra.Command{
		Use:   "metrics [plain] [cipher]",
		Short: "compare a plain image with its cipher preview",
		Args:  cobra.ExactArgs(2),
		RunE:  runMetrics,
	}
	metricsCmd.Flags().StringVar(&color, "color", config.ColorGray, "color model (gray, rgb)")
	metricsCmd.Flags().BoolVar(&plot, "plot", false, "plot histograms")
	metricsCmd.Flags().StringVar(&svgPath, "svg", "", "write a dithered cipher image as svg")

	keystreamCmd := &cobra.Command{
		Use:   "keystream",
		Short: "print keystream bytes",
		RunE:  runKeystream,
	}
	keystreamCmd.Flags().IntVarP(&ksLength, "length", "n", 32, "number of bytes")
	keystreamCmd.Flags().StringVar(&seedStr, "seed", "", "hash a literal seed string instead of a henon orbit")
	keystreamCmd.Flags().Float64Var(&henonX0, "henon-x0", 0.1, "henon x0")
	keystreamCmd.Flags().Float64Var(&henonY0, "henon-y0", 0.2, "henon y0")
	keystreamCmd.Flags().Float64Var(&henonZ0, "henon-z0", 0.3, "henon z0")
	keystreamCmd.Flags().StringVar(&svgPath, "svg", "", "write the henon x/y attractor as svg")

	sequenceCmd := &cobra.Command{
		Use:   "sequence",
		Short: "print a logistic sequence",
		RunE:  runSequence,
	}
	sequenceCmd.Flags().IntVarP(&seqLength, "length", "n", 16, "sequence length")
	sequenceCmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "initial value")
	sequenceCmd.Flags().Float64Var(&r, "r", config.DefaultR, "growth rate")
	sequenceCmd.Flags().BoolVar(&plot, "plot", false, "plot instead of listing")
	sequenceCmd.Flags().StringVar(&svgPath, "svg", "", "write the sequence as svg")

	regimeCmd := &cobra.Command{
		Use:   "regime",
		Short: "lyapunov exponent and bifurcation diagram of the logistic map",
		RunE:  runRegime,
	}
	regimeCmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "initial value")
	regimeCmd.Flags().Float64Var(&r, "r", config.DefaultR, "growth rate to check")
	regimeCmd.Flags().Float64Var(&rMin, "r-min", 2.8, "sweep start")
	regimeCmd.Flags().Float64Var(&rMax, "r-max", 4.0, "sweep end")
	regimeCmd.Flags().IntVar(&steps, "steps", 80, "sweep steps")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [output]",
		Short: "write the container of a stored run",
		Args:  cobra.ExactArgs(2),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tCOLOR\tPERMUTE\tX0")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%g\n", name, p.Mode, p.Color, p.Permute, p.Logistic.X0)
			}
			return w.Flush()
		},
	}

	exploreCmd := &cobra.Command{
		Use:   "explore [image]",
		Short: "interactive seed explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExplore,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [manifest]",
		Short: "run the jobs of a yaml manifest",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&askPass, "ask-pass", false, "prompt for a passphrase")

	rootCmd.AddCommand(encryptCmd, decryptCmd, metricsCmd, keystreamCmd, sequenceCmd, regimeCmd,
		runsCmd, showCmd, exportCmd, presetsCmd, exploreCmd, batchCmd)

	memguard.CatchInterrupt()
	err := rootCmd.Execute()
	memguard.Purge()
	if err != nil {
		os.Exit(1)
	}
}

func addCipherFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mode, "mode", config.ModeDES, "substitution mode (des, henon-xor)")
	cmd.Flags().StringVar(&color, "color", config.ColorGray, "color model (gray, rgb)")
	cmd.Flags().StringVar(&format, "format", "", "container format (gray, legacy, color)")
	cmd.Flags().BoolVar(&permuteFlag, "permute", true, "scramble pixel positions")
	cmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "logistic initial value")
	cmd.Flags().Float64Var(&r, "r", config.DefaultR, "logistic growth rate")
	cmd.Flags().Float64Var(&channelStep, "channel-step", config.DefaultChannelStep, "x0 offset per channel")
	cmd.Flags().Float64Var(&henonX0, "henon-x0", 0.1, "henon x0")
	cmd.Flags().Float64Var(&henonY0, "henon-y0", 0.2, "henon y0")
	cmd.Flags().Float64Var(&henonZ0, "henon-z0", 0.3, "henon z0")
	cmd.Flags().StringVar(&key, "key", config.DefaultKey, "des key (8 bytes)")
	cmd.Flags().BoolVar(&truncateKey, "truncate-key", false, "use the first 8 bytes of a longer key")
	cmd.Flags().StringVar(&salt, "salt", "", "derive the key from a passphrase with this salt")
	cmd.Flags().StringVar(&kdf, "kdf", config.KDFPBKDF2, "key derivation (pbkdf2, argon2id)")
	cmd.Flags().BoolVar(&askPass, "ask-pass", false, "prompt for a passphrase")
}

// resolveConfig starts from the preset, replaces it with the config file
// when one is given, then applies every flag the user set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	f := cmd.Flags()
	if f.Changed("mode") {
		cfg.Mode = mode
	}
	if f.Changed("color") {
		cfg.Color = color
	}
	if f.Changed("format") {
		cfg.Format = format
	}
	if f.Changed("permute") {
		cfg.Permute = permuteFlag
	}
	if f.Changed("x0") {
		cfg.Logistic.X0 = x0
	}
	if f.Changed("r") {
		cfg.Logistic.R = r
	}
	if f.Changed("channel-step") {
		cfg.Logistic.ChannelStep = channelStep
	}
	if f.Changed("henon-x0") {
		cfg.Henon.X0 = henonX0
	}
	if f.Changed("henon-y0") {
		cfg.Henon.Y0 = henonY0
	}
	if f.Changed("henon-z0") {
		cfg.Henon.Z0 = henonZ0
	}
	if f.Changed("key") {
		cfg.Block.Key = key
	}
	if f.Changed("truncate-key") {
		cfg.Block.TruncateKey = truncateKey
	}
	if f.Changed("salt") {
		cfg.Block.Salt = salt
	}
	if f.Changed("kdf") {
		cfg.Block.KDF = kdf
	}
	if cfg.RunsDir == "" || cmd.Flags().Changed("runs") {
		cfg.RunsDir = runsDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readPassphrase() ([]byte, error) {
	if !askPass {
		return nil, nil
	}
	fmt.Fprint(os.Stderr, "passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	// moves pass into locked memory and wipes the original; Purge in main
	// destroys it
	return memguard.NewBufferFromBytes(pass).Bytes(), nil
}

// passphraseFor prompts when --ask-pass is set. A passphrase only makes
// sense together with a salt.
func passphraseFor(cfg *config.Config) ([]byte, error) {
	pass, err := readPassphrase()
	if err != nil {
		return nil, err
	}
	if len(pass) > 0 && cfg.Block.Salt == "" {
		return nil, fmt.Errorf("%w: passphrase given without a salt", config.ErrInvalid)
	}
	return pass, nil
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	pass, err := passphraseFor(cfg)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(storage.New(cfg.RunsDir), log)
	runner.Passphrase = pass
	res, err := runner.RunJob(context.Background(), batch.Job{
		Input:   args[0],
		Output:  args[1],
		Preset:  preset,
		Save:    saveRun,
		Preview: previewPath,
	}, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("encrypted %s -> %s in %v\n", args[0], args[1], res.Elapsed)
	if res.RunID != "" {
		fmt.Printf("run id: %s\n", res.RunID)
	}
	fmt.Println(viz.RenderReport(*res.Report))
	if plot {
		fmt.Println(viz.HistogramPair(res.Report.PlainHist, res.Report.CipherHist, 64, 12))
	}
	return nil
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	pass, err := passphraseFor(cfg)
	if err != nil {
		return err
	}
	e, err := engine.NewRegistry().Build(cfg, engine.ResolveKey(cfg, pass), engine.WithLogger(log))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	buf, err := e.Open(data)
	if err != nil {
		return err
	}
	if err := imageio.Save(args[1], buf); err != nil {
		return err
	}
	fmt.Printf("decrypted %s -> %s (%dx%dx%d)\n", args[0], args[1], buf.Height, buf.Width, buf.Channels)
	return nil
}

func runMetrics(cmd *cobra.Command, args []string) error {
	model, err := imageio.ParseColorModel(color)
	if err != nil {
		return err
	}
	plain, err := imageio.Load(args[0], model)
	if err != nil {
		return err
	}
	cipher, err := imageio.Load(args[1], model)
	if err != nil {
		return err
	}
	report, err := quality.Evaluate(plain, cipher)
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderReport(report))
	if plot {
		fmt.Println(viz.HistogramPair(report.PlainHist, report.CipherHist, 64, 12))
	}
	if svgPath != "" {
		c := viz.NewCanvas(64, 32)
		c.DrawImage(cipher)
		return writeSVG(svgPath, c.SVG(3))
	}
	return nil
}

func runKeystream(cmd *cobra.Command, args []string) error {
	var ks []byte
	if seedStr != "" {
		ks = chaos.Keystream(seedStr, ksLength)
	} else {
		ks = chaos.HenonKeystream(chaos.NewHenon3D(), henonX0, henonY0, henonZ0, ksLength)
	}
	fmt.Println(hex.EncodeToString(ks))

	if svgPath != "" {
		xs, ys, _ := chaos.NewHenon3D().Orbit(henonX0, henonY0, henonZ0, max(ksLength, 2000))
		pts := make([]viz.Point, 0, len(xs))
		for i := range xs {
			if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
				break
			}
			pts = append(pts, viz.Point{X: xs[i], Y: ys[i]})
		}
		return writeSVG(svgPath, viz.PathSVG(pts, 800, 600, string(viz.CurrentTheme.Primary), true))
	}
	return nil
}

func writeSVG(path, svg string) error {
	if svg == "" {
		return errors.New("nothing to draw: orbit diverged or too short")
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runSequence(cmd *cobra.Command, args []string) error {
	l := chaos.Logistic{R: r}
	seq := l.Sequence(x0, seqLength)
	if svgPath != "" {
		pts := make([]viz.Point, len(seq))
		for i, v := range seq {
			pts[i] = viz.Point{X: float64(i + 1), Y: v}
		}
		if err := writeSVG(svgPath, viz.PathSVG(pts, 800, 300, string(viz.CurrentTheme.Primary), false)); err != nil {
			return err
		}
	}
	if plot {
		fmt.Println(viz.SequencePlot(seq, fmt.Sprintf("logistic x0=%g r=%g", x0, r), 72, 14))
		return nil
	}
	for i, v := range seq {
		fmt.Printf("%4d  %s\n", i+1, chaos.FormatFloat(v))
	}
	return nil
}

func runRegime(cmd *cobra.Command, args []string) error {
	lyap := chaos.LogisticLyapunov(r, x0, 1000, 10000)
	state := viz.Pass.Render("chaotic")
	if lyap <= 0 {
		state = viz.Fail.Render("periodic")
	}
	fmt.Printf("r=%g  lyapunov=%+.6f  %s\n\n", r, lyap, state)

	data := chaos.LogisticBifurcation(rMin, rMax, steps, x0, 500, 200)
	fmt.Print(chaos.BifurcationToASCII(data, steps, 24))
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("r %g .. %g", rMin, rMax)))
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	var img pixbuf.Buffer
	if len(args) == 1 {
		model, err := imageio.ParseColorModel(cfg.Color)
		if err != nil {
			return err
		}
		full, err := imageio.Load(args[0], model)
		if err != nil {
			return err
		}
		// keep recomputation interactive
		if img, err = imageio.Thumbnail(full, 96, 96); err != nil {
			return err
		}
	}
	return tui.Run(cfg, img)
}

func runBatch(cmd *cobra.Command, args []string) error {
	m, err := batch.LoadManifest(args[0])
	if err != nil {
		return err
	}
	pass, err := readPassphrase()
	if err != nil {
		return err
	}

	runner := batch.NewRunner(storage.New(runsDir), log)
	runner.Passphrase = pass

	fmt.Printf("running %s (%d jobs)\n", m.Name, len(m.Jobs))
	results, err := runner.Run(context.Background(), m)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tOUTPUT\tELAPSED\tNPCR\tENTROPY\tRUN")
	for _, res := range results {
		if res == nil {
			continue
		}
		npcr, entropy := "-", "-"
		if res.Report != nil {
			npcr = fmt.Sprintf("%.4f", res.Report.NPCR)
			entropy = fmt.Sprintf("%.4f", res.Report.Entropy)
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\t%s\n", res.Job.Input, res.Job.Output, res.Elapsed, npcr, entropy, res.RunID)
	}
	w.Flush()
	return err
}
