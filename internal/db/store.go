package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// InsertContactMessageParams carries one sanitized contact form submission.
type InsertContactMessageParams struct {
	FullName  string
	Company   sql.NullString
	Email     string
	Phone     sql.NullString
	Message   string
	Consent   bool
	IPAddress sql.NullString
}

// InsertGDPRRequestParams carries one sanitized GDPR request submission.
type InsertGDPRRequestParams struct {
	FullName    string
	Email       string
	RequestType string
	Message     string
	IPAddress   sql.NullString
}

// InsertContactMessage appends one contact message row and returns its id.
// created_at is assigned by the database at insert time.
func (c *Database) InsertContactMessage(ctx context.Context, params InsertContactMessageParams) (int64, error) {
	consent := int64(0)
	if params.Consent {
		consent = 1
	}

	res, err := c.db.ExecContext(ctx, `
		INSERT INTO contact_messages (full_name, company, email, phone, message, consent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		params.FullName, params.Company, params.Email, params.Phone, params.Message, consent, params.IPAddress,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert contact message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read contact message id: %w", err)
	}
	return id, nil
}

// InsertGDPRRequest appends one GDPR request row and returns its id.
func (c *Database) InsertGDPRRequest(ctx context.Context, params InsertGDPRRequestParams) (int64, error) {
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO gdpr_requests (full_name, email, request_type, message, ip_address)
		VALUES (?, ?, ?, ?, ?)`,
		params.FullName, params.Email, params.RequestType, params.Message, params.IPAddress,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert gdpr request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read gdpr request id: %w", err)
	}
	return id, nil
}

// PurgeExpiredContactMessages deletes contact messages older than days and
// returns the number of removed rows. A non-positive threshold disables the
// purge for this table.
func (c *Database) PurgeExpiredContactMessages(ctx context.Context, days int) (int64, error) {
	return c.purgeExpired(ctx, "contact_messages", days)
}

// PurgeExpiredGDPRRequests deletes GDPR requests older than days and returns
// the number of removed rows. A non-positive threshold disables the purge
// for this table.
func (c *Database) PurgeExpiredGDPRRequests(ctx context.Context, days int) (int64, error) {
	return c.purgeExpired(ctx, "gdpr_requests", days)
}

func (c *Database) purgeExpired(ctx context.Context, table string, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}

	modifier := fmt.Sprintf("-%d day", days)
	res, err := c.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE created_at <= datetime('now', ?)`, table), modifier)
	if err != nil {
		return 0, fmt.Errorf("failed to purge %s: %w", table, err)
	}
	return res.RowsAffected()
}

// PurgeExpired runs the retention purge for both tables. It is best effort:
// failures are logged and never propagated to the caller.
func (c *Database) PurgeExpired(ctx context.Context, log *slog.Logger, contactDays, gdprDays int) {
	if deleted, err := c.PurgeExpiredContactMessages(ctx, contactDays); err != nil {
		log.Error("Failed to purge expired contact messages", "error", err)
	} else if deleted > 0 {
		log.Info("Purged expired contact messages", "deleted", deleted, "retention_days", contactDays)
	}

	if deleted, err := c.PurgeExpiredGDPRRequests(ctx, gdprDays); err != nil {
		log.Error("Failed to purge expired gdpr requests", "error", err)
	} else if deleted > 0 {
		log.Info("Purged expired gdpr requests", "deleted", deleted, "retention_days", gdprDays)
	}
}
