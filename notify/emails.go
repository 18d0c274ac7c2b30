package notify

import (
	"fmt"
	"time"
)

func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		%s
		<hr style="border: 1px solid #eee; margin: 20px 0;">
		<p style="font-size: 12px; color: #666;">This is an automated message from EduMart.</p>
	</div>
</body>
</html>`, title, bodyContent)
}

// OrderConfirmation builds the settlement confirmation email.
func OrderConfirmation(to, name, orderNumber string, total float64) Notification {
	body := fmt.Sprintf(`
		<h2 style="color: #2563eb;">Order Confirmed</h2>
		<p>Dear %s,</p>
		<p>Your order <strong>%s</strong> for <strong>%.2f</strong> has been confirmed.
		Your courses are ready in your dashboard.</p>`, name, orderNumber, total)
	return Notification{To: to, Subject: "Your EduMart order is confirmed", Body: emailTemplate("Order Confirmed", body)}
}

// RefundDecision builds the approve/reject email for a refund request.
func RefundDecision(to, name, orderNumber string, approved bool, notes string) Notification {
	decision := "approved"
	color := "#2563eb"
	if !approved {
		decision = "rejected"
		color = "#dc2626"
	}
	body := fmt.Sprintf(`
		<h2 style="color: %s;">Refund %s</h2>
		<p>Dear %s,</p>
		<p>Your refund request for order <strong>%s</strong> has been %s.</p>`,
		color, decision, name, orderNumber, decision)
	if notes != "" {
		body += fmt.Sprintf(`<p>Notes: %s</p>`, notes)
	}
	return Notification{To: to, Subject: "Update on your refund request", Body: emailTemplate("Refund Update", body)}
}

// PayoutDecision builds the payout settled/failed email.
func PayoutDecision(to, name, reference string, amount float64, paid bool, reason string) Notification {
	if paid {
		body := fmt.Sprintf(`
			<h2 style="color: #2563eb;">Payout Sent</h2>
			<p>Dear %s,</p>
			<p>Your payout <strong>%s</strong> of <strong>%.2f</strong> has been sent to your account.</p>`,
			name, reference, amount)
		return Notification{To: to, Subject: "Your payout is on its way", Body: emailTemplate("Payout Sent", body)}
	}
	body := fmt.Sprintf(`
		<h2 style="color: #dc2626;">Payout Failed</h2>
		<p>Dear %s,</p>
		<p>Your payout <strong>%s</strong> of <strong>%.2f</strong> could not be completed. %s</p>
		<p>The reserved earnings have been released back to your balance.</p>`,
		name, reference, amount, reason)
	return Notification{To: to, Subject: "Your payout could not be completed", Body: emailTemplate("Payout Failed", body)}
}

// RenewalReminder builds the upcoming-renewal email sent ahead of the
// period end.
func RenewalReminder(to, name, planName string, periodEnd time.Time) Notification {
	body := fmt.Sprintf(`
		<h2 style="color: #2563eb;">Subscription Renewing Soon</h2>
		<p>Dear %s,</p>
		<p>Your <strong>%s</strong> subscription renews on <strong>%s</strong>.
		No action is needed if you wish to continue.</p>`,
		name, planName, periodEnd.Format("January 2, 2006"))
	return Notification{To: to, Subject: "Your EduMart subscription renews soon", Body: emailTemplate("Renewal Reminder", body)}
}
