package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names one of the templates in pkg/mailer/templates; Data feeds it.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Template string         `json:"template"` // verify_email, reset_password, order_confirmation
	Data     map[string]any `json:"data,omitempty"`
}
