package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/goreader/internal/app"
	"github.com/hyperifyio/goreader/internal/codec"
	"github.com/hyperifyio/goreader/internal/server"
)

// options holds flag values. Only flags the user actually set override the
// file and environment layers.
type options struct {
	configPath string
	envFiles   []string
	logLevel   string
	userAgent  string
	timeout    time.Duration
	tier       string
	proxyBase  string
	host       string
	port       int
	cacheDays  int
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("goreader failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "goreader",
		Short:         "Article extraction and image proxy service",
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to a YAML or JSON config file")
	pf.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "Dotenv files to load; later files win")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&o.userAgent, "user-agent", "", "User-Agent for outbound requests")
	pf.DurationVar(&o.timeout, "timeout", 0, "Per-request timeout, e.g. 30s")
	pf.StringVar(&o.tier, "tier", "", "Image filter tier: loose, standard, strict")
	pf.StringVar(&o.proxyBase, "proxy-base-url", "", "Public base URL used in image proxy links")

	root.AddCommand(newServeCmd(o), newExtractCmd(o), newEncodeCmd(o), newDecodeCmd())
	return root
}

// config layers flags over defaults, config file and environment, then
// applies the log level.
func (o *options) config(cmd *cobra.Command) (app.Config, error) {
	cfg, err := app.Load(o.configPath, o.envFiles...)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = o.userAgent
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("tier") {
		cfg.FilterTier = o.tier
	}
	if flags.Changed("proxy-base-url") {
		cfg.ProxyBaseURL = o.proxyBase
	}
	if flags.Changed("host") {
		cfg.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("cache-days") {
		cfg.ImageCacheDays = o.cacheDays
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			if zerolog.GlobalLevel() > zerolog.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}
			router := server.NewRouter(server.Deps{
				Scraper:  a.Assembler,
				Resolver: a.Resolver,
				Links:    a.Links,
				Version:  app.BuildVersion,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Info().Str("version", app.BuildVersion).Str("proxy_base", cfg.ProxyBaseURL).Msg("starting goreader")
			return server.ListenAndServe(ctx, cfg.Addr(), router)
		},
	}
	cmd.Flags().StringVar(&o.host, "host", "", "Listen host")
	cmd.Flags().IntVar(&o.port, "port", 0, "Listen port")
	cmd.Flags().IntVar(&o.cacheDays, "cache-days", 0, "Image cache lifetime in days")
	return cmd
}

func newExtractCmd(o *options) *cobra.Command {
	var withLinks bool
	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract one article and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			art, err := a.Assembler.Scrape(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if withLinks {
				return enc.Encode(struct {
					Article any `json:"article"`
					Images  any `json:"proxied_images"`
				}{art, a.Links.Links(art)})
			}
			return enc.Encode(art)
		},
	}
	cmd.Flags().BoolVar(&withLinks, "links", false, "Include proxy links for every image")
	return cmd
}

func newEncodeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <image-url>",
		Short: "Print the proxy token for an image URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("proxy-base-url") {
				fmt.Fprintln(cmd.OutOrStdout(), codec.ProxyURL(o.proxyBase, args[0]))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(args[0]))
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the image URL behind a proxy token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := codec.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}
