package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// sendMail delivers a single HTML email via the configured SMTP relay.
func sendMail(to, subject, body string) error {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendRedemptionEmail notifies the redeemer that their referral discount was
// applied.
func SendRedemptionEmail(to, keyType string, percentage int, code string) error {
	subject := "Your StyleSphere referral discount"
	body := fmt.Sprintf(`
		<h2>Referral discount applied</h2>
		<p>Your %s referral code <strong>%s</strong> was redeemed successfully.</p>
		<p>A <strong>%d%%</strong> discount has been applied to the selected item in your cart.</p>
	`, keyType, code, percentage)
	return sendMail(to, subject, body)
}
