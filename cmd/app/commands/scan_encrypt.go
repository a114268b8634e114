package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/phiguard/internal/app"
	"github.com/allisson/phiguard/internal/config"
)

// RunScanEncrypt walks all stored records looking for plaintext in sensitive
// columns and encrypts it in place. With dryRun the scan only reports; no
// record is written. Returns an error when any record could not be migrated,
// so an incomplete run exits non-zero and can be retried.
func RunScanEncrypt(ctx context.Context, dryRun bool, batchSize int) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	migrationUseCase, err := container.MigrationUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize migration use case: %w", err)
	}

	logger.Info("starting scan-encrypt",
		slog.Bool("dry_run", dryRun),
		slog.Int("batch_size", batchSize),
	)

	report, err := migrationUseCase.ScanAndMigrate(ctx, batchSize, dryRun)
	if err != nil {
		return fmt.Errorf("scan-encrypt failed: %w", err)
	}

	logger.Info("scan-encrypt completed",
		slog.Int("scanned", report.Scanned),
		slog.Int("migrated", report.Migrated),
		slog.Int("issues", len(report.Issues)),
	)

	if len(report.Issues) > 0 {
		for _, issue := range report.Issues {
			logger.Error("record not migrated",
				slog.String("record_id", issue.RecordID.String()),
				slog.String("reason", issue.Reason),
			)
		}
		return fmt.Errorf("scan-encrypt finished with %d unmigrated records", len(report.Issues))
	}

	return nil
}
