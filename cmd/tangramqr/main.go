package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/youruser/tangramqr/internal/api"
	"github.com/youruser/tangramqr/internal/config"
	"github.com/youruser/tangramqr/internal/generator"
	"github.com/youruser/tangramqr/internal/pieces"
	"github.com/youruser/tangramqr/internal/util"
)

var version = "v0.1.0"

// options mirrors the flags shared by generate and verify.
type options struct {
	configPath string
	base       string
	name       string
	out        string
	pdf        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:          "tangramqr",
		Short:        "Generate QR codes, a contact sheet and a URL list for the tangram pieces",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "tangramqr.yaml", "Path to config file")
	addOutputFlags(root, &opts)
	root.Flags().BoolVar(&opts.pdf, "pdf", false, "Also write the sheet as qr_sheet.pdf")

	// --- verify command ------------------------------------------------------
	var addr string
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Scan the generated QR codes and check them against urls.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts, addr)
		},
	}
	addOutputFlags(verifyCmd, &opts)
	verifyCmd.Flags().StringVar(&addr, "addr", "", "Verify a running server (e.g. http://localhost:8080) instead of files")
	root.AddCommand(verifyCmd)

	// --- serve command -------------------------------------------------------
	var port int
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve piece QR codes and the sheet over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, port)
		},
	}
	serveCmd.Flags().StringVar(&opts.base, "base", pieces.DefaultBase, "Base URL for piece links")
	serveCmd.Flags().IntVar(&port, "port", 8080, "HTTP port")
	root.AddCommand(serveCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tangramqr %s\n", version)
		},
	})

	return root
}

func addOutputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.base, "base", pieces.DefaultBase, "Base URL, e.g. http://127.0.0.1:5501/index.html")
	cmd.Flags().StringVar(&opts.name, "name", "", "Optional subfolder name under the output root")
	cmd.Flags().StringVar(&opts.out, "out", "qrs", "Output root directory")
}

// loadConfig reads the config file and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("base") {
		cfg.Base = opts.base
	}
	if flags.Changed("name") {
		cfg.Name = opts.name
	}
	if flags.Changed("out") {
		cfg.OutputRoot = opts.out
	}
	if flags.Changed("pdf") {
		cfg.PDF = opts.pdf
	}
	return cfg, nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func newGenerator(cfg *config.Config, log *logrus.Logger) (*generator.Generator, error) {
	dir, err := util.OutputDir(cfg.OutputRoot, cfg.Name)
	if err != nil {
		return nil, err
	}
	g := generator.New(pieces.Default(), cfg.Base, dir, log)
	g.PDF = cfg.PDF
	return g, nil
}

func runGenerate(cmd *cobra.Command, opts options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	g, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"base": g.Base, "dir": g.OutDir}).Info("generating")
	_, err = g.Run()
	return err
}

func runVerify(cmd *cobra.Command, opts options, addr string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	g, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}

	var checks []generator.Check
	if addr != "" {
		checks = g.VerifyRemote(addr)
	} else if checks, err = g.Verify(); err != nil {
		return err
	}

	failed := 0
	for _, c := range checks {
		fmt.Println(c)
		if !c.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pieces failed verification", failed, len(checks))
	}
	return nil
}

func runServe(cmd *cobra.Command, opts options, port int) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	log := newLogger(cfg.LogLevel)
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := api.NewServer(pieces.Default(), cfg.Base, log)
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithField("base", srv.Base).Info("starting server on http://localhost" + addr)
	if err := api.NewEngine(srv).Run(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
