package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"clawid.dev/claw/internal/config"
	"clawid.dev/claw/keys"
	"clawid.dev/claw/rendersvc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// errFlags marks a flag parse failure the flag set has already reported.
var errFlags = errors.New("invalid flags")

// loadConfig layers flags over the environment and validates the result.
func loadConfig(args []string, errOut io.Writer) (config.Daemon, error) {
	return config.LoadDaemon(func(cfg *config.Daemon) error {
		fs := flag.NewFlagSet("claw-renderd", flag.ContinueOnError)
		fs.SetOutput(errOut)
		fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "listen address (env CLAW_RENDERD_LISTEN)")
		fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (env CLAW_RENDERD_LOG_LEVEL)")
		fs.BoolVar(&cfg.StrictNames, "strict", cfg.StrictNames, "reject names outside [a-z0-9-]{3,32} (env CLAW_RENDERD_STRICT_NAMES)")
		fs.IntVar(&cfg.MaxMsgBytes, "max-msg-bytes", cfg.MaxMsgBytes, "max gRPC message size (env CLAW_RENDERD_MAX_MSG_BYTES)")
		if err := fs.Parse(args); err != nil {
			return errFlags
		}
		return nil
	})
}

func run(args []string, errOut io.Writer) int {
	cfg, err := loadConfig(args, errOut)
	if err != nil {
		if !errors.Is(err, errFlags) {
			fmt.Fprintln(errOut, err)
		}
		return 2
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	srv, err := newServer(cfg)
	if err != nil {
		logger.Error("signer setup failed", zap.Error(err))
		return 2
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		logger.Error("listen failed", zap.String("addr", cfg.Listen), zap.Error(err))
		return 1
	}
	defer lis.Close()

	opts := []grpc.ServerOption{grpc.UnaryInterceptor(rendersvc.LoggingInterceptor(logger))}
	if cfg.MaxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(cfg.MaxMsgBytes), grpc.MaxSendMsgSize(cfg.MaxMsgBytes))
	}
	s := grpc.NewServer(opts...)
	rendersvc.RegisterRendererServer(s, srv)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-stop
		logger.Info("shutting down", zap.String("signal", sig.String()))
		s.GracefulStop()
	}()

	signerKey := "none"
	if srv.Signer != nil {
		signerKey = srv.Signer.SignerKey()
	}
	logger.Info("claw-renderd listening",
		zap.String("addr", lis.Addr().String()),
		zap.String("mode", cfg.Mode().String()),
		zap.String("signer", signerKey),
	)
	if err := s.Serve(lis); err != nil {
		logger.Error("serve failed", zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(cfg config.Daemon) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func newServer(cfg config.Daemon) (*rendersvc.Server, error) {
	srv := &rendersvc.Server{Mode: cfg.Mode(), HashAlg: cfg.HashAlg}
	if cfg.SignerSeedHex == "" {
		return srv, nil
	}
	root, err := keys.ParseSeedHex(cfg.SignerSeedHex)
	if err != nil {
		return nil, fmt.Errorf("signer seed: %w", err)
	}
	seed, err := keys.DeriveSignerSeed(root, cfg.SignerRole)
	if err != nil {
		return nil, fmt.Errorf("signer role: %w", err)
	}
	signer, err := keys.NewEd25519Signer(seed)
	if err != nil {
		return nil, err
	}
	srv.Signer = signer
	return srv, nil
}
