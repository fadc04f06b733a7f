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

const kindOverdueReminder = "sessions_overdue"

// SessionReminders tells each teacher with a bound chat how many sessions are
// overdue, at most once per calendar day.
func SessionReminders(database *sql.DB, notifier *notify.Notifier, loc *time.Location, log *zap.SugaredLogger) Job {
	return func(ctx context.Context) error {
		ctx = ctxutil.WithOp(ctx, "jobs.session_reminders")
		now := time.Now().In(loc)
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

		teachers, err := listTeachersWithChat(ctx, database)
		if err != nil {
			return fmt.Errorf("list teachers: %w", err)
		}

		for _, t := range teachers {
			sessions, err := db.ListSessionsByTeacher(ctx, database, t.ID)
			if err != nil {
				log.Warnw("session fetch failed, skipping teacher", "teacher_id", t.ID, "err", err)
				continue
			}
			st := stats.ClassifySessions(sessions, now, loc)
			if st.Overdue == 0 {
				continue
			}

			already, err := db.HasNotificationSince(ctx, database, t.ID, kindOverdueReminder, startOfDay)
			if err != nil {
				return err
			}
			if already {
				continue
			}

			body := fmt.Sprintf("You have %d session(s) past their date and not marked done.", st.Overdue)
			if _, err := db.InsertNotification(ctx, database, models.Notification{
				UserID: t.ID, Kind: kindOverdueReminder, Body: body,
			}); err != nil {
				return err
			}
			if err := notifier.Send(*t.ChatID, "📅 "+body, kindOverdueReminder); err != nil {
				log.Warnw("telegram send failed", "chat_id", *t.ChatID, "err", err)
			}
		}
		return nil
	}
}

func listTeachersWithChat(ctx context.Context, database *sql.DB) ([]models.User, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, email, name, role, class_name, chat_id, password_hash, is_active
		FROM users
		WHERE role = 'teacher' AND chat_id IS NOT NULL AND is_active`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.ClassName, &u.ChatID, &u.PasswordHash, &u.IsActive); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
