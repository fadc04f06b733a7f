package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/db"
	"github.com/edusuite/scolaris/internal/models"
	"github.com/edusuite/scolaris/internal/notify"
	"github.com/edusuite/scolaris/internal/stats"
)

const kindAbsenceAlert = "absence_at_risk"

// zero time: the dedupe check looks at the whole notification history
var earliest time.Time

// AbsenceAlerts scans every active student's absence total and notifies the
// linked parents the first time the total crosses the threshold. The
// notifications table dedupes: one alert per student, ever, until the flag
// would clear (records are never deleted, so re-crossing means new records).
func AbsenceAlerts(database *sql.DB, notifier *notify.Notifier, thresholdHours float64, log *zap.SugaredLogger) Job {
	return func(ctx context.Context) error {
		ctx = ctxutil.WithOp(ctx, "jobs.absence_alerts")
		students, err := db.ListStudents(ctx, database, nil)
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}

		for _, st := range students {
			records, err := db.ListAbsencesByStudent(ctx, database, st.ID, nil)
			if err != nil {
				log.Warnw("absence fetch failed, skipping student", "student_id", st.ID, "err", err)
				continue
			}
			sum := stats.SummarizeAbsences(records, thresholdHours)
			if !sum.AtRisk {
				continue
			}

			already, err := db.HasNotificationSince(ctx, database, st.ID, kindAbsenceAlert, earliest)
			if err != nil {
				return err
			}
			if already {
				continue
			}

			body := fmt.Sprintf("%s has reached %.1f absence hours (threshold %.0f).", st.Name, sum.Hours, thresholdHours)
			if _, err := db.InsertNotification(ctx, database, models.Notification{
				UserID: st.ID, Kind: kindAbsenceAlert, Body: body,
			}); err != nil {
				return err
			}

			chatIDs, err := db.ParentChatIDs(ctx, database, st.ID)
			if err != nil {
				log.Warnw("parent chat lookup failed", "student_id", st.ID, "err", err)
				continue
			}
			for _, chatID := range chatIDs {
				if err := notifier.Send(chatID, "⚠️ "+body, kindAbsenceAlert); err != nil {
					log.Warnw("telegram send failed", "chat_id", chatID, "err", err)
				}
			}
		}
		return nil
	}
}
