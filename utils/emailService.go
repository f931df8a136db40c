package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"futureminds/config"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = "587"
)

func sendHTMLEmail(to, subject, body string) error {
	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" {
		// Email notifications disabled
		return nil
	}

	header := fmt.Sprintf("Subject: %s\nMIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n", subject)
	message := []byte(header + "\n" + body)

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}

	return nil
}

// SendGradedEmail notifies a student that their submission was graded
func SendGradedEmail(email, studentName, assignmentTitle string, xpAwarded int) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Your Assignment Was Graded!</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555;">Your educator reviewed your work on:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 24px; color: #2196F3; text-align: center; font-weight: bold;">+%d XP</p>
					<p style="font-size: 14px; color: #666666;">Sign in to read the full feedback and keep your streak going.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">FutureMinds Team</p>
				</div>
			</body>
		</html>
	`, studentName, assignmentTitle, xpAwarded)

	return sendHTMLEmail(email, "Assignment Graded - FutureMinds", body)
}

// SendApprovalRequestEmail notifies a parent that a child is waiting for a decision
func SendApprovalRequestEmail(email, parentName, childName, requestType string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Approval Needed</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555;">%s would like to <strong>%s</strong> and needs your approval.</p>
					<p style="font-size: 14px; color: #666666;">Open your parent dashboard to review the request.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">FutureMinds Team</p>
				</div>
			</body>
		</html>
	`, parentName, childName, prettifyRequestType(requestType))

	return sendHTMLEmail(email, "A Request Is Waiting For You - FutureMinds", body)
}

// SendApprovalDecisionEmail notifies a child of the parent's decision
func SendApprovalDecisionEmail(email, childName, requestType, decision string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Request %s</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555;">Your request to <strong>%s</strong> was <strong>%s</strong>.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">FutureMinds Team</p>
				</div>
			</body>
		</html>
	`, capitalize(decision), childName, prettifyRequestType(requestType), decision)

	return sendHTMLEmail(email, "Your Request Was Reviewed - FutureMinds", body)
}

// SendApprovalReminderEmail nudges a parent about a stale pending request
func SendApprovalReminderEmail(email, parentName, childName, requestType string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Still Waiting For You</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555;">%s is still waiting on a request to <strong>%s</strong>.</p>
					<p style="font-size: 14px; color: #666666;">Open your parent dashboard to approve or reject it.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">FutureMinds Team</p>
				</div>
			</body>
		</html>
	`, parentName, childName, prettifyRequestType(requestType))

	return sendHTMLEmail(email, "Reminder: Pending Approval - FutureMinds", body)
}

func prettifyRequestType(requestType string) string {
	return strings.ReplaceAll(requestType, "_", " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
