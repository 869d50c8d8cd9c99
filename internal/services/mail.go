package services

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendSyncFailureEmail alerts the operations inbox about a failed sync run.
// It is a no-op unless both SENDGRID_API_KEY and ALERT_EMAIL are configured.
func SendSyncFailureEmail(syncType, errorMessage string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	recipient := os.Getenv("ALERT_EMAIL")
	if apiKey == "" || recipient == "" {
		return nil
	}

	from := mail.NewEmail("Gestión de Servicios", os.Getenv("ALERT_FROM_EMAIL"))
	subject := fmt.Sprintf("Sync %s failed", syncType)
	to := mail.NewEmail("Operaciones", recipient)

	htmlContent := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2 style="color: #c0392b;">Sync failed: %s</h2>
			<p>The last synchronization run ended with an error:</p>
			<pre style="background-color: #f4f4f4; border-radius: 4px; padding: 12px; white-space: pre-wrap;">%s</pre>
			<p>See the sync health panel for the full run history.</p>
		</div>
        `, syncType, errorMessage)

	plainTextContent := fmt.Sprintf("Sync %s failed: %s", syncType, errorMessage)

	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	client := sendgrid.NewSendClient(apiKey)
	_, err := client.Send(message)
	if err != nil {
		return err
	}
	return nil
}
