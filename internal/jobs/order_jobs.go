package jobs

import (
	"context"
	"time"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/logger"
)

// MarkOverdueOrders flips active orders past their expected return date to
// overdue. Return processing also detects lateness lazily, so this job only
// keeps order listings honest for borrowers who never show up.
func (jr *JobRunner) MarkOverdueOrders() {
	jr.runWithRecovery("MarkOverdueOrders", func() {
		ctx := context.Background()

		query := `
			UPDATE orders
			SET status = 'terlambat'
			WHERE status = 'aktif'
			  AND expected_return_date < $1
			RETURNING id, username, expected_return_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format(domain.DateLayout))
		if err != nil {
			logger.Error("Failed to mark overdue orders", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id       int32
				username string
				due      string
			)
			if err := rows.Scan(&id, &username, &due); err != nil {
				logger.Error("Failed to scan overdue order", "error", err)
				continue
			}
			count++
			logger.Debug("Marked order as overdue",
				"order_id", id,
				"username", username,
				"expected_return_date", due)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue orders", "error", err)
			return
		}

		logger.Info("Marked orders as overdue", "count", count)
	})
}
