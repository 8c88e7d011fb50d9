// Package notifier sends best-effort email. Deliveries are queued to a
// background worker; enqueueing never blocks the caller and a failed send is
// logged and dropped, never surfaced to the triggering operation.
package notifier

// Notifier dispatches user-facing email notifications.
type Notifier interface {
	// NotifyTaskAssigned tells a user they were assigned a task.
	NotifyTaskAssigned(email, userName, taskTitle, projectName string)

	// NotifyPasswordReset sends a password reset token to an email address.
	NotifyPasswordReset(email, resetToken string)
}

// Nop is a Notifier that discards everything. Used in tests and when SMTP is
// not configured.
type Nop struct{}

func (Nop) NotifyTaskAssigned(email, userName, taskTitle, projectName string) {}

func (Nop) NotifyPasswordReset(email, resetToken string) {}
