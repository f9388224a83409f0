// Command transcriptiond serves single-job audio transcription over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/transcriptiond/auth/jwt"
	"github.com/kbukum/transcriptiond/bootstrap"
	"github.com/kbukum/transcriptiond/config"
	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: searched)")
	envFile := flag.String("env", "", "path to .env (default: searched)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	issueToken := flag.String("issue-token", "", "print a signed token for `subject` and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Short())
		return
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	var cfg Config
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *issueToken != "" {
		if err := printToken(cfg.Auth.JWT, *issueToken); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), &cfg); err != nil {
		logger.Error("transcriptiond exited", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	if _, err := wire(ctx, app); err != nil {
		return err
	}
	return app.Run(ctx)
}

func printToken(cfg jwt.Config, subject string) error {
	svc, err := jwt.NewService(cfg)
	if err != nil {
		return err
	}
	token, err := svc.Generate(subject)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
