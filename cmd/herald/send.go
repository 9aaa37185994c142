package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pikad/herald/internal/config"
	"github.com/pikad/herald/internal/dkim"
	"github.com/pikad/herald/internal/logstore"
	"github.com/pikad/herald/internal/notify"
	"github.com/pikad/herald/internal/template"
	"github.com/pikad/herald/internal/transport"
)

var (
	sendTo       string
	sendTemplate string
	sendData     string
	sendTimeout  int
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single templated notification",
	Long:  `Render a template and send it through the configured SMTP transport, bypassing the HTTP API.`,
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "Recipient email address (required)")
	sendCmd.Flags().StringVar(&sendTemplate, "template", "", "Template type (required)")
	sendCmd.Flags().StringVar(&sendData, "data", "{}", "Template data as JSON")
	sendCmd.Flags().IntVar(&sendTimeout, "timeout", 30, "Send timeout in seconds")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("config file is required (use -c flag)")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(sendData), &data); err != nil {
		return fmt.Errorf("invalid --data JSON: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := logstore.NewBoltStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open delivery log: %w", err)
	}
	defer store.Close()

	smtpTransport := transport.NewSMTP(transport.SMTPOptions{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		From:        cfg.SMTP.From,
		Hostname:    cfg.Server.Hostname,
		ImplicitTLS: cfg.SMTP.ImplicitTLS,
		Timeout:     cfg.SMTP.Timeout,
	}, logger)

	if cfg.SMTP.DKIM.Enabled {
		signer, err := dkim.NewSignerFromFile(cfg.SMTP.DKIM.KeyFile, cfg.SMTP.DKIM.Domain, cfg.SMTP.DKIM.Selector)
		if err != nil {
			return fmt.Errorf("failed to setup DKIM signing: %w", err)
		}
		smtpTransport.SetDKIMSigner(signer)
	}

	notifier := notify.NewNotifier(notify.Options{
		Transport: smtpTransport,
		Store:     store,
		Renderer:  template.NewRenderer(),
		Logger:    logger,
	})

	fmt.Printf("Sending %s notification to %s...\n", sendTemplate, sendTo)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(sendTimeout)*time.Second)
	defer cancel()

	result, err := notifier.SendTemplate(ctx, template.Type(sendTemplate), data, sendTo)
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	fmt.Printf("Notification sent\n")
	fmt.Printf("  Message-ID: %s\n", result.MessageID)
	fmt.Printf("  Sent at: %s\n", result.SentAt.Format(time.RFC3339))

	return nil
}
